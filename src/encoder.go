package bvae

import "math/rand"

// Encoder maps an input batch [batch, NInput] to the parameters of the
// latent distribution and a sampled latent vector:
//
//	h1 = ReLU(Dense(NHiddenRecog1)(x))
//	h2 = Dense(NHiddenRecog2)(h1)          // linear
//	z_mean    = Dense(NZ)(h2)              // linear head
//	z_log_var = Dense(NZ)(h2)              // linear head, unconstrained
//	z         = Sampling(z_mean, z_log_var)
type Encoder struct {
	h1         *DenseLayer
	h2         *DenseLayer
	meanHead   *DenseLayer
	logVarHead *DenseLayer
	sampler    *Sampling
}

// NewEncoder builds a recognition network for the given architecture.
// A pre-built Encoder may be passed to New via Config.Encoder instead.
func NewEncoder(arch NetworkArchitecture, rng *rand.Rand) (*Encoder, error) {
	if err := ValidateArchitecture(arch); err != nil {
		return nil, err
	}

	e := &Encoder{
		h1: Dense(arch.NHiddenRecog1).
			WithActivation(ReLU()).
			WithInitializer(XavierUniform(1.0)).
			WithBiasInitializer(Zeros()).
			Build(),
		h2: Dense(arch.NHiddenRecog2).
			WithActivation(Linear()).
			WithInitializer(XavierUniform(1.0)).
			WithBiasInitializer(Zeros()).
			Build(),
		meanHead: Dense(arch.NZ).
			WithActivation(Linear()).
			WithInitializer(XavierUniform(1.0)).
			WithBiasInitializer(Zeros()).
			Build(),
		logVarHead: Dense(arch.NZ).
			WithActivation(Linear()).
			WithInitializer(XavierUniform(1.0)).
			WithBiasInitializer(Zeros()).
			Build(),
		sampler: newSampling(rng),
	}

	if err := e.h1.build(arch.NInput, rng); err != nil {
		return nil, err
	}
	if err := e.h2.build(arch.NHiddenRecog1, rng); err != nil {
		return nil, err
	}
	if err := e.meanHead.build(arch.NHiddenRecog2, rng); err != nil {
		return nil, err
	}
	if err := e.logVarHead.build(arch.NHiddenRecog2, rng); err != nil {
		return nil, err
	}
	return e, nil
}

// attach gives an injected encoder the model's random source.
func (e *Encoder) attach(rng *rand.Rand) {
	if e.sampler == nil {
		e.sampler = newSampling(rng)
	} else {
		e.sampler.rng = rng
	}
}

func (e *Encoder) forward(x *tensor) (zMean, zLogVar, z *tensor, err error) {
	h1, err := e.h1.forward(x)
	if err != nil {
		return nil, nil, nil, err
	}
	h2, err := e.h2.forward(h1)
	if err != nil {
		return nil, nil, nil, err
	}
	zMean, err = e.meanHead.forward(h2)
	if err != nil {
		return nil, nil, nil, err
	}
	zLogVar, err = e.logVarHead.forward(h2)
	if err != nil {
		return nil, nil, nil, err
	}
	z = e.sampler.forward(zMean, zLogVar)
	return zMean, zLogVar, z, nil
}

// backward folds the two gradient paths into the latent heads: gradZ
// arrives from the decoder through the sampled z, gradMean/gradLogVar
// arrive directly from the KL term. Returns the gradient w.r.t. x.
func (e *Encoder) backward(gradZ, gradMean, gradLogVar *tensor) (*tensor, error) {
	sampleMean, sampleLogVar, err := e.sampler.backward(gradZ)
	if err != nil {
		return nil, err
	}

	headMean := newTensor(gradMean.shape...)
	elemAdd(gradMean, sampleMean, headMean)
	headLogVar := newTensor(gradLogVar.shape...)
	elemAdd(gradLogVar, sampleLogVar, headLogVar)

	gradH2a, err := e.meanHead.backward(headMean)
	if err != nil {
		return nil, err
	}
	gradH2b, err := e.logVarHead.backward(headLogVar)
	if err != nil {
		return nil, err
	}
	gradH2 := newTensor(gradH2a.shape...)
	elemAdd(gradH2a, gradH2b, gradH2)

	gradH1, err := e.h2.backward(gradH2)
	if err != nil {
		return nil, err
	}
	return e.h1.backward(gradH1)
}

func (e *Encoder) parameters() []*tensor {
	var params []*tensor
	for _, l := range []*DenseLayer{e.h1, e.h2, e.meanHead, e.logVarHead} {
		params = append(params, l.parameters()...)
	}
	return params
}

func (e *Encoder) gradients() []*tensor {
	var grads []*tensor
	for _, l := range []*DenseLayer{e.h1, e.h2, e.meanHead, e.logVarHead} {
		grads = append(grads, l.gradients()...)
	}
	return grads
}
