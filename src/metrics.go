package bvae

// MeanMetric is a running-mean accumulator (count + sum). One instance
// tracks each loss term across training steps. It is reset only at
// construction; the single-threaded step contract makes synchronization
// unnecessary.
type MeanMetric struct {
	label string
	sum   float64
	count int
}

func Mean(label string) *MeanMetric {
	return &MeanMetric{label: label}
}

func (m *MeanMetric) update(value float64) {
	m.sum += value
	m.count++
}

// Result returns the running mean, or 0 before the first update.
func (m *MeanMetric) Result() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Count returns how many values have been accumulated.
func (m *MeanMetric) Count() int { return m.count }

func (m *MeanMetric) Name() string { return m.label }
