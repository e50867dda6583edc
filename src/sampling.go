package bvae

import (
	"math"
	"math/rand"
)

// Sampling implements the reparameterization trick:
//
//	z = z_mean + exp(0.5 * z_log_var) ⊙ eps,  eps ~ N(0, I)
//
// The noise is drawn from a fixed parameter-free distribution, so the
// gradient of any downstream loss flows back through z_mean and
// z_log_var only, never through the draw itself. Each call draws fresh
// noise; the draw is cached only so the backward half of the same
// training step can reuse it.
type Sampling struct {
	rng    *rand.Rand
	eps    *tensor
	logVar *tensor
}

func newSampling(rng *rand.Rand) *Sampling {
	return &Sampling{rng: rng}
}

// forward draws eps with the shape of mean, read dynamically so the
// batch size may vary between calls.
func (s *Sampling) forward(mean, logVar *tensor) *tensor {
	eps := newTensor(mean.shape...)
	eps.fillRandNorm(0, 1, s.rng)
	return s.apply(mean, logVar, eps)
}

// apply computes z from an explicit noise tensor.
func (s *Sampling) apply(mean, logVar, eps *tensor) *tensor {
	z := newTensor(mean.shape...)
	for i := range mean.data {
		z.data[i] = mean.data[i] + math.Exp(0.5*logVar.data[i])*eps.data[i]
	}
	s.eps = eps
	s.logVar = logVar
	return z
}

// backward maps dL/dz to (dL/dz_mean, dL/dz_log_var) using the cached
// draw:
//
//	dz/dz_mean    = 1
//	dz/dz_log_var = 0.5 * exp(0.5 * z_log_var) * eps
func (s *Sampling) backward(gradZ *tensor) (gradMean, gradLogVar *tensor, err error) {
	if s.eps == nil {
		return nil, nil, errorf("sampling backward called before forward")
	}
	gradMean = gradZ.clone()
	gradLogVar = newTensor(gradZ.shape...)
	for i := range gradZ.data {
		gradLogVar.data[i] = gradZ.data[i] * 0.5 * math.Exp(0.5*s.logVar.data[i]) * s.eps.data[i]
	}
	return gradMean, gradLogVar, nil
}
