package bvae

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSGDStep(t *testing.T) {
	p := newTensor(2)
	copy(p.data, []float64{1, -1})
	g := newTensor(2)
	copy(g.data, []float64{0.5, -0.5})

	opt := SGD(SGDConfig{LR: 0.1})
	opt.step([]*tensor{p}, []*tensor{g})

	assert.InDelta(t, 0.95, p.data[0], 1e-12)
	assert.InDelta(t, -0.95, p.data[1], 1e-12)
}

func TestSGDMomentumAccumulates(t *testing.T) {
	p := newTensor(1)
	g := newTensor(1)
	g.data[0] = 1

	opt := SGD(SGDConfig{LR: 0.1, Momentum: 0.9})
	opt.step([]*tensor{p}, []*tensor{g})
	firstDelta := -p.data[0]
	afterOne := p.data[0]
	opt.step([]*tensor{p}, []*tensor{g})
	secondDelta := afterOne - p.data[0]

	// momentum makes the second step larger than the first
	assert.Greater(t, secondDelta, firstDelta)
}

func TestAdamStepSizeBoundedByLR(t *testing.T) {
	p := newTensor(1)
	g := newTensor(1)
	g.data[0] = 1000

	opt := Adam(AdamConfig{LR: 0.01, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-8})
	opt.step([]*tensor{p}, []*tensor{g})

	// Adam normalizes by the gradient's second moment
	assert.InDelta(t, -0.01, p.data[0], 1e-4)
}

func TestRMSpropMovesAgainstGradient(t *testing.T) {
	p := newTensor(2)
	g := newTensor(2)
	copy(g.data, []float64{2, -2})

	opt := RMSprop(RMSpropConfig{LR: 0.01, Alpha: 0.99, Epsilon: 1e-8})
	opt.step([]*tensor{p}, []*tensor{g})

	assert.Negative(t, p.data[0])
	assert.Positive(t, p.data[1])
}
