package bvae

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Callback is called during training at various points
type Callback interface {
	onTrainBegin(logs map[string]float64)
	onTrainEnd(logs map[string]float64)
	onEpochEnd(epoch int, logs map[string]float64) bool // return true to stop training
	name() string
}

// EarlyStoppingCallback stops training when a monitored running mean
// stops improving
type EarlyStoppingCallback struct {
	Monitor   string
	MinDelta  float64
	Patience  int
	bestValue float64
	wait      int
}

type EarlyStoppingConfig struct {
	Monitor  string // "loss", "reconstruction_loss" or "kl_loss"
	MinDelta float64
	Patience int
}

func EarlyStopping(config EarlyStoppingConfig) Callback {
	return &EarlyStoppingCallback{
		Monitor:  config.Monitor,
		MinDelta: config.MinDelta,
		Patience: config.Patience,
	}
}

func (e *EarlyStoppingCallback) onTrainBegin(logs map[string]float64) {
	e.wait = 0
	e.bestValue = math.Inf(1)
}

func (e *EarlyStoppingCallback) onTrainEnd(logs map[string]float64) {}

func (e *EarlyStoppingCallback) onEpochEnd(epoch int, logs map[string]float64) bool {
	current, ok := logs[e.Monitor]
	if !ok {
		return false
	}

	if current < e.bestValue-e.MinDelta {
		e.bestValue = current
		e.wait = 0
		return false
	}
	e.wait++
	return e.wait >= e.Patience
}

func (e *EarlyStoppingCallback) name() string { return "early_stopping" }

// ProgressCallback logs training progress through logrus
type ProgressCallback struct {
	Logger   *logrus.Logger
	LogEvery int
}

type ProgressConfig struct {
	Logger   *logrus.Logger // nil for the default logger
	LogEvery int
}

func Progress(config ProgressConfig) Callback {
	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
	}
	every := config.LogEvery
	if every <= 0 {
		every = 1
	}
	return &ProgressCallback{Logger: logger, LogEvery: every}
}

func (p *ProgressCallback) onTrainBegin(logs map[string]float64) {
	p.Logger.Info("training started")
}

func (p *ProgressCallback) onTrainEnd(logs map[string]float64) {
	p.Logger.WithFields(logrus.Fields{
		"loss":                logs["loss"],
		"reconstruction_loss": logs["reconstruction_loss"],
		"kl_loss":             logs["kl_loss"],
	}).Info("training complete")
}

func (p *ProgressCallback) onEpochEnd(epoch int, logs map[string]float64) bool {
	if (epoch+1)%p.LogEvery == 0 {
		fields := logrus.Fields{"epoch": epoch + 1}
		for k, v := range logs {
			fields[k] = v
		}
		p.Logger.WithFields(fields).Info("epoch complete")
	}
	return false
}

func (p *ProgressCallback) name() string { return "progress" }

// HistoryCallback records the per-epoch running means
type HistoryCallback struct {
	History map[string][]float64
}

func History() *HistoryCallback {
	return &HistoryCallback{
		History: make(map[string][]float64),
	}
}

func (h *HistoryCallback) onTrainBegin(logs map[string]float64) {
	h.History = make(map[string][]float64)
}

func (h *HistoryCallback) onTrainEnd(logs map[string]float64) {}

func (h *HistoryCallback) onEpochEnd(epoch int, logs map[string]float64) bool {
	for k, v := range logs {
		h.History[k] = append(h.History[k], v)
	}
	return false
}

func (h *HistoryCallback) name() string { return "history" }
