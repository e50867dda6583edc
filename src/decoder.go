package bvae

import "math/rand"

// DecoderKind selects the generative variant once, at construction.
type DecoderKind int

const (
	// DecoderBasic emits a single point-estimate reconstruction, paired
	// with squared-error loss.
	DecoderBasic DecoderKind = iota
	// DecoderProbabilistic emits a per-feature mean and log-variance,
	// parameterizing a diagonal-covariance Gaussian over the
	// reconstruction. Required whenever heteroscedastic noise must be
	// modeled; the default.
	DecoderProbabilistic
)

func (k DecoderKind) String() string {
	if k == DecoderProbabilistic {
		return "probabilistic"
	}
	return "basic"
}

// Decoder maps a latent batch [batch, NZ] back to feature space:
//
//	d1 = ReLU(Dense(NHiddenGener1)(z))
//	d2 = ReLU(Dense(NHiddenGener2)(d1))
//	basic:         x_hat = Dense(NInput)(d2)
//	probabilistic: x_hat_mean, x_hat_log_sigma_sq = two Dense(NInput) heads
type Decoder struct {
	kind       DecoderKind
	h1         *DenseLayer
	h2         *DenseLayer
	meanHead   *DenseLayer
	logVarHead *DenseLayer // nil for DecoderBasic
}

// NewDecoder builds a generative network for the given architecture.
// A pre-built Decoder may be passed to New via Config.Decoder instead.
func NewDecoder(arch NetworkArchitecture, kind DecoderKind, rng *rand.Rand) (*Decoder, error) {
	if err := ValidateArchitecture(arch); err != nil {
		return nil, err
	}

	d := &Decoder{
		kind: kind,
		h1: Dense(arch.NHiddenGener1).
			WithActivation(ReLU()).
			WithInitializer(XavierUniform(1.0)).
			WithBiasInitializer(Zeros()).
			Build(),
		h2: Dense(arch.NHiddenGener2).
			WithActivation(ReLU()).
			WithInitializer(XavierUniform(1.0)).
			WithBiasInitializer(Zeros()).
			Build(),
		meanHead: Dense(arch.NInput).
			WithActivation(Linear()).
			WithInitializer(XavierUniform(1.0)).
			WithBiasInitializer(Zeros()).
			Build(),
	}
	if kind == DecoderProbabilistic {
		d.logVarHead = Dense(arch.NInput).
			WithActivation(Linear()).
			WithInitializer(XavierUniform(1.0)).
			WithBiasInitializer(Zeros()).
			Build()
	}

	if err := d.h1.build(arch.NZ, rng); err != nil {
		return nil, err
	}
	if err := d.h2.build(arch.NHiddenGener1, rng); err != nil {
		return nil, err
	}
	if err := d.meanHead.build(arch.NHiddenGener2, rng); err != nil {
		return nil, err
	}
	if d.logVarHead != nil {
		if err := d.logVarHead.build(arch.NHiddenGener2, rng); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Kind reports which variant this decoder was built as.
func (d *Decoder) Kind() DecoderKind { return d.kind }

// forward returns (mean, logVar); logVar is nil for the basic variant.
func (d *Decoder) forward(z *tensor) (mean, logVar *tensor, err error) {
	h1, err := d.h1.forward(z)
	if err != nil {
		return nil, nil, err
	}
	h2, err := d.h2.forward(h1)
	if err != nil {
		return nil, nil, err
	}
	mean, err = d.meanHead.forward(h2)
	if err != nil {
		return nil, nil, err
	}
	if d.kind == DecoderProbabilistic {
		logVar, err = d.logVarHead.forward(h2)
		if err != nil {
			return nil, nil, err
		}
	}
	return mean, logVar, nil
}

// backward consumes the reconstruction-loss gradients on the head
// outputs (gradLogVar nil for the basic variant) and returns the
// gradient w.r.t. z.
func (d *Decoder) backward(gradMean, gradLogVar *tensor) (*tensor, error) {
	gradH2, err := d.meanHead.backward(gradMean)
	if err != nil {
		return nil, err
	}
	if d.kind == DecoderProbabilistic {
		gradH2b, err := d.logVarHead.backward(gradLogVar)
		if err != nil {
			return nil, err
		}
		merged := newTensor(gradH2.shape...)
		elemAdd(gradH2, gradH2b, merged)
		gradH2 = merged
	}

	gradH1, err := d.h2.backward(gradH2)
	if err != nil {
		return nil, err
	}
	return d.h1.backward(gradH1)
}

func (d *Decoder) parameters() []*tensor {
	layers := []*DenseLayer{d.h1, d.h2, d.meanHead}
	if d.logVarHead != nil {
		layers = append(layers, d.logVarHead)
	}
	var params []*tensor
	for _, l := range layers {
		params = append(params, l.parameters()...)
	}
	return params
}

func (d *Decoder) gradients() []*tensor {
	layers := []*DenseLayer{d.h1, d.h2, d.meanHead}
	if d.logVarHead != nil {
		layers = append(layers, d.logVarHead)
	}
	var grads []*tensor
	for _, l := range layers {
		grads = append(grads, l.gradients()...)
	}
	return grads
}
