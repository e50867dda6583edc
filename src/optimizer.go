package bvae

import "math"

// Optimizer updates network parameters from their gradients
type Optimizer interface {
	init(params []*tensor)
	step(params []*tensor, grads []*tensor)
	name() string
}

// SGDOptimizer - Stochastic Gradient Descent
type SGDOptimizer struct {
	LR          float64
	Momentum    float64
	Dampening   float64
	WeightDecay float64
	Nesterov    bool
	velocities  []*tensor
	initialized bool
}

type SGDConfig struct {
	LR          float64
	Momentum    float64
	Dampening   float64
	WeightDecay float64
	Nesterov    bool
}

func SGD(config SGDConfig) Optimizer {
	return &SGDOptimizer{
		LR:          config.LR,
		Momentum:    config.Momentum,
		Dampening:   config.Dampening,
		WeightDecay: config.WeightDecay,
		Nesterov:    config.Nesterov,
	}
}

func (s *SGDOptimizer) init(params []*tensor) {
	s.velocities = make([]*tensor, len(params))
	for i, p := range params {
		s.velocities[i] = newTensor(p.shape...)
	}
	s.initialized = true
}

func (s *SGDOptimizer) step(params []*tensor, grads []*tensor) {
	if !s.initialized {
		s.init(params)
	}
	for i, p := range params {
		g := grads[i]
		v := s.velocities[i]

		for j := range p.data {
			grad := g.data[j]
			if s.WeightDecay != 0 {
				grad += s.WeightDecay * p.data[j]
			}
			if s.Momentum != 0 {
				v.data[j] = s.Momentum*v.data[j] + (1-s.Dampening)*grad
				if s.Nesterov {
					grad = grad + s.Momentum*v.data[j]
				} else {
					grad = v.data[j]
				}
			}
			p.data[j] -= s.LR * grad
		}
	}
}

func (s *SGDOptimizer) name() string { return "sgd" }

// AdamOptimizer - Adaptive Moment Estimation
type AdamOptimizer struct {
	LR          float64
	Beta1       float64
	Beta2       float64
	Epsilon     float64
	WeightDecay float64
	m           []*tensor
	v           []*tensor
	t           int
	initialized bool
}

type AdamConfig struct {
	LR          float64
	Beta1       float64
	Beta2       float64
	Epsilon     float64
	WeightDecay float64
}

func Adam(config AdamConfig) Optimizer {
	return &AdamOptimizer{
		LR:          config.LR,
		Beta1:       config.Beta1,
		Beta2:       config.Beta2,
		Epsilon:     config.Epsilon,
		WeightDecay: config.WeightDecay,
	}
}

func (a *AdamOptimizer) init(params []*tensor) {
	a.m = make([]*tensor, len(params))
	a.v = make([]*tensor, len(params))
	for i, p := range params {
		a.m[i] = newTensor(p.shape...)
		a.v[i] = newTensor(p.shape...)
	}
	a.t = 0
	a.initialized = true
}

func (a *AdamOptimizer) step(params []*tensor, grads []*tensor) {
	if !a.initialized {
		a.init(params)
	}
	a.t++
	bc1 := 1 - math.Pow(a.Beta1, float64(a.t))
	bc2 := 1 - math.Pow(a.Beta2, float64(a.t))

	for i, p := range params {
		g := grads[i]
		m := a.m[i]
		v := a.v[i]

		for j := range p.data {
			grad := g.data[j]
			if a.WeightDecay != 0 {
				grad += a.WeightDecay * p.data[j]
			}
			m.data[j] = a.Beta1*m.data[j] + (1-a.Beta1)*grad
			v.data[j] = a.Beta2*v.data[j] + (1-a.Beta2)*grad*grad

			mHat := m.data[j] / bc1
			vHat := v.data[j] / bc2

			p.data[j] -= a.LR * mHat / (math.Sqrt(vHat) + a.Epsilon)
		}
	}
}

func (a *AdamOptimizer) name() string { return "adam" }

// RMSpropOptimizer
type RMSpropOptimizer struct {
	LR          float64
	Alpha       float64
	Epsilon     float64
	WeightDecay float64
	Momentum    float64
	v           []*tensor
	buf         []*tensor
	initialized bool
}

type RMSpropConfig struct {
	LR          float64
	Alpha       float64
	Epsilon     float64
	WeightDecay float64
	Momentum    float64
}

func RMSprop(config RMSpropConfig) Optimizer {
	return &RMSpropOptimizer{
		LR:          config.LR,
		Alpha:       config.Alpha,
		Epsilon:     config.Epsilon,
		WeightDecay: config.WeightDecay,
		Momentum:    config.Momentum,
	}
}

func (r *RMSpropOptimizer) init(params []*tensor) {
	r.v = make([]*tensor, len(params))
	r.buf = make([]*tensor, len(params))
	for i, p := range params {
		r.v[i] = newTensor(p.shape...)
		r.buf[i] = newTensor(p.shape...)
	}
	r.initialized = true
}

func (r *RMSpropOptimizer) step(params []*tensor, grads []*tensor) {
	if !r.initialized {
		r.init(params)
	}

	for i, p := range params {
		grad := grads[i]
		v := r.v[i]
		buf := r.buf[i]

		for j := range p.data {
			g := grad.data[j]
			if r.WeightDecay != 0 {
				g += r.WeightDecay * p.data[j]
			}

			v.data[j] = r.Alpha*v.data[j] + (1-r.Alpha)*g*g

			if r.Momentum > 0 {
				buf.data[j] = r.Momentum*buf.data[j] + g/(math.Sqrt(v.data[j])+r.Epsilon)
				p.data[j] -= r.LR * buf.data[j]
			} else {
				p.data[j] -= r.LR * g / (math.Sqrt(v.data[j]) + r.Epsilon)
			}
		}
	}
}

func (r *RMSpropOptimizer) name() string { return "rmsprop" }
