package bvae

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Config for VAE construction - every hyperparameter explicit.
// Architecture fields are ignored for a sub-network supplied pre-built.
type Config struct {
	Architecture NetworkArchitecture
	ProbaOutput  bool    // probabilistic vs basic decoder
	Beta         float64 // KL weight, >= 0, fixed for the life of the model
	Optimizer    Optimizer
	GradientClip GradientClipConfig
	Seed         int64
	Encoder      *Encoder       // optional pre-built recognition network
	Decoder      *Decoder       // optional pre-built generative network
	Logger       *logrus.Logger // nil for the default logger
}

// VAE owns the encoder and decoder (freshly built or injected alike)
// and drives the per-step training protocol. A training step mutates
// the joint parameter set exactly once and the metric trackers exactly
// once; it is not reentrant and must not be called concurrently on the
// same instance.
type VAE struct {
	beta float64

	encoder *Encoder
	decoder *Decoder

	reconLoss ReconstructionLoss
	optimizer Optimizer
	gradClip  GradientClipConfig

	params []*tensor
	grads  []*tensor

	totalTracker *MeanMetric
	reconTracker *MeanMetric
	klTracker    *MeanMetric

	rng *rand.Rand
	log *logrus.Logger
}

// New constructs a VAE from the config, building any sub-network not
// supplied pre-built.
func New(config Config) (*VAE, error) {
	if config.Beta < 0 {
		return nil, errorf("Beta must be >= 0, got %f", config.Beta)
	}
	if config.Optimizer == nil {
		return nil, errorf("Optimizer is required")
	}
	if err := validateGradientClip(config.GradientClip); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(config.Seed))

	encoder := config.Encoder
	if encoder == nil {
		var err error
		encoder, err = NewEncoder(config.Architecture, rng)
		if err != nil {
			return nil, err
		}
	}
	encoder.attach(rng)

	decoder := config.Decoder
	if decoder == nil {
		kind := DecoderBasic
		if config.ProbaOutput {
			kind = DecoderProbabilistic
		}
		var err error
		decoder, err = NewDecoder(config.Architecture, kind, rng)
		if err != nil {
			return nil, err
		}
	}

	var reconLoss ReconstructionLoss
	if decoder.Kind() == DecoderProbabilistic {
		reconLoss = GaussianNLL()
	} else {
		reconLoss = SquaredError()
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
	}

	v := &VAE{
		beta:         config.Beta,
		encoder:      encoder,
		decoder:      decoder,
		reconLoss:    reconLoss,
		optimizer:    config.Optimizer,
		gradClip:     config.GradientClip,
		totalTracker: Mean("loss"),
		reconTracker: Mean("reconstruction_loss"),
		klTracker:    Mean("kl_loss"),
		rng:          rng,
		log:          logger,
	}

	v.params = append(v.params, encoder.parameters()...)
	v.params = append(v.params, decoder.parameters()...)
	v.grads = append(v.grads, encoder.gradients()...)
	v.grads = append(v.grads, decoder.gradients()...)

	return v, nil
}

// Beta returns the KL weight fixed at construction.
func (v *VAE) Beta() float64 { return v.beta }

// TrainStep runs one training step on a batch and returns the current
// running means. Parameter state is atomic per step: an error anywhere
// before the optimizer update leaves every parameter untouched.
func (v *VAE) TrainStep(x, y [][]float64) (map[string]float64, error) {
	xt, err := toTensor(x)
	if err != nil {
		return nil, err
	}
	yt, err := toTensor(y)
	if err != nil {
		return nil, err
	}
	return v.trainStep(xt, yt)
}

func (v *VAE) trainStep(x, y *tensor) (map[string]float64, error) {
	// Forward
	zMean, zLogVar, z, err := v.encoder.forward(x)
	if err != nil {
		return nil, err
	}
	recMean, recLogVar, err := v.decoder.forward(z)
	if err != nil {
		return nil, err
	}

	// Targets must match the reconstruction element for element.
	if y.shape[0] != recMean.shape[0] || y.shape[1] != recMean.shape[1] {
		return nil, &ModelError{
			Component:    "VAE",
			ErrorType:    "shape mismatch",
			Phase:        "forward",
			InputInfo:    ScanTensor(y),
			ExpectedInfo: fmt.Sprintf("targets %v", recMean.shape),
			Cause: fmt.Sprintf("targets are %v, reconstruction is %v",
				y.shape, recMean.shape),
		}
	}

	// Loss assembly
	reconLoss := v.reconLoss.compute(y, recMean, recLogVar)
	klLoss := klDivergence(zMean, zLogVar)
	totalLoss := reconLoss + v.beta*klLoss

	// Gradient computation: reconstruction path through the decoder and
	// the sampled z, KL path directly into the latent heads.
	gradRecMean := newTensor(recMean.shape...)
	var gradRecLogVar *tensor
	if recLogVar != nil {
		gradRecLogVar = newTensor(recLogVar.shape...)
	}
	v.reconLoss.gradient(y, recMean, recLogVar, gradRecMean, gradRecLogVar)

	gradZ, err := v.decoder.backward(gradRecMean, gradRecLogVar)
	if err != nil {
		return nil, err
	}

	gradKLMean := newTensor(zMean.shape...)
	gradKLLogVar := newTensor(zLogVar.shape...)
	klGradient(zMean, zLogVar, v.beta, gradKLMean, gradKLLogVar)

	if _, err := v.encoder.backward(gradZ, gradKLMean, gradKLLogVar); err != nil {
		return nil, err
	}

	// Parameter update: clip, then one joint optimizer step.
	v.clipGradients()
	v.optimizer.step(v.params, v.grads)

	// Metric update
	v.totalTracker.update(totalLoss)
	v.reconTracker.update(reconLoss)
	v.klTracker.update(klLoss)

	return v.Metrics(), nil
}

// Metrics returns the three running means accumulated so far.
func (v *VAE) Metrics() map[string]float64 {
	return map[string]float64{
		"loss":                v.totalTracker.Result(),
		"reconstruction_loss": v.reconTracker.Result(),
		"kl_loss":             v.klTracker.Result(),
	}
}

func (v *VAE) clipGradients() {
	switch v.gradClip.Mode {
	case "norm":
		totalNorm := 0.0
		for _, g := range v.grads {
			norm := l2Norm(g)
			totalNorm += norm * norm
		}
		totalNorm = math.Sqrt(totalNorm)
		if totalNorm > v.gradClip.MaxNorm {
			scale := v.gradClip.MaxNorm / totalNorm
			for _, g := range v.grads {
				mulScalar(g, scale)
			}
		}
	case "value":
		for _, g := range v.grads {
			clipValues(g, -v.gradClip.MaxValue, v.gradClip.MaxValue)
		}
	}
}

// FitResult holds training output
type FitResult struct {
	History      map[string][]float64
	FinalMetrics map[string]float64
}

// Fit iterates the training step over shuffled mini-batches of
// (x, y) for the configured number of epochs. x is the conditioning
// input (possibly corrupted), y the clean reconstruction target; both
// are [n_samples, n_features]. The metric trackers run across the whole
// fit - they are never reset.
func (v *VAE) Fit(x, y [][]float64, config TrainConfig, callbacks []Callback) (*FitResult, error) {
	if err := ValidateTrainConfig(config); err != nil {
		return nil, err
	}
	if len(x) != len(y) {
		return nil, errorf("inputs and targets must have same length, got %d and %d", len(x), len(y))
	}

	xt, err := toTensor(x)
	if err != nil {
		return nil, err
	}
	yt, err := toTensor(y)
	if err != nil {
		return nil, err
	}

	result := &FitResult{
		History:      make(map[string][]float64),
		FinalMetrics: make(map[string]float64),
	}
	logs := make(map[string]float64)

	for _, cb := range callbacks {
		cb.onTrainBegin(logs)
	}

	numSamples := xt.shape[0]
	numBatches := (numSamples + config.BatchSize - 1) / config.BatchSize

	for epoch := 0; epoch < config.Epochs; epoch++ {
		if config.Shuffle {
			shuffleData(xt, yt, v.rng)
		}

		var stepMetrics map[string]float64
		for batch := 0; batch < numBatches; batch++ {
			start := batch * config.BatchSize
			batchX := getBatch(xt, start, config.BatchSize)
			batchY := getBatch(yt, start, config.BatchSize)

			stepMetrics, err = v.trainStep(batchX, batchY)
			if err != nil {
				return nil, err
			}
		}

		for k, val := range stepMetrics {
			logs[k] = val
			result.History[k] = append(result.History[k], val)
		}

		// A diverged step is not recovered from; the non-finite loss
		// keeps propagating into subsequent updates.
		if total := logs["loss"]; math.IsNaN(total) || math.IsInf(total, 0) {
			v.log.WithFields(logrus.Fields{
				"epoch": epoch + 1,
				"loss":  total,
			}).Warn("non-finite loss")
		}

		if config.Verbose >= 1 {
			v.log.WithFields(logrus.Fields{
				"epoch":               epoch + 1,
				"loss":                logs["loss"],
				"reconstruction_loss": logs["reconstruction_loss"],
				"kl_loss":             logs["kl_loss"],
			}).Info("epoch complete")
		}

		stop := false
		for _, cb := range callbacks {
			if cb.onEpochEnd(epoch, logs) {
				stop = true
			}
		}
		if stop {
			break
		}
	}

	for _, cb := range callbacks {
		cb.onTrainEnd(logs)
	}

	for k, val := range logs {
		result.FinalMetrics[k] = val
	}
	return result, nil
}

// Predict reconstructs x deterministically: the decoder consumes z_mean
// rather than a stochastic sample, and the probabilistic path returns
// only the reconstruction mean.
func (v *VAE) Predict(x [][]float64) ([][]float64, error) {
	xt, err := toTensor(x)
	if err != nil {
		return nil, err
	}

	zMean, _, _, err := v.encoder.forward(xt)
	if err != nil {
		return nil, err
	}
	recMean, _, err := v.decoder.forward(zMean)
	if err != nil {
		return nil, err
	}
	return fromTensor(recMean), nil
}
