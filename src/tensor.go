package bvae

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// tensor is the internal data structure - flat row-major storage,
// never exposed to users.
type tensor struct {
	data  []float64
	shape []int
}

func newTensor(shape ...int) *tensor {
	size := 1
	for _, s := range shape {
		if s <= 0 {
			s = 1
		}
		size *= s
	}
	return &tensor{
		data:  make([]float64, size),
		shape: shape,
	}
}

func (t *tensor) size() int {
	return len(t.data)
}

func (t *tensor) fill(value float64) {
	for i := range t.data {
		t.data[i] = value
	}
}

func (t *tensor) fillRandNorm(mean, std float64, rng *rand.Rand) {
	for i := range t.data {
		t.data[i] = rng.NormFloat64()*std + mean
	}
}

func (t *tensor) fillRandUniform(low, high float64, rng *rand.Rand) {
	for i := range t.data {
		t.data[i] = rng.Float64()*(high-low) + low
	}
}

func (t *tensor) clone() *tensor {
	nt := newTensor(t.shape...)
	copy(nt.data, t.data)
	return nt
}

// asDense views a 2D tensor as a gonum matrix sharing the same backing
// slice; mutations through the view write into the tensor.
func (t *tensor) asDense() *mat.Dense {
	return mat.NewDense(t.shape[0], t.shape[1], t.data)
}

// Matrix products are delegated to gonum. All three write into out,
// which must already have the result shape.

func matmul(a, b, out *tensor) {
	out.asDense().Mul(a.asDense(), b.asDense())
}

func matmulTransA(a, b, out *tensor) {
	out.asDense().Mul(a.asDense().T(), b.asDense())
}

func matmulTransB(a, b, out *tensor) {
	out.asDense().Mul(a.asDense(), b.asDense().T())
}

// addVec adds a length-[cols] vector to every row of a.
func addVec(a *tensor, b *tensor) {
	for i := range a.data {
		a.data[i] += b.data[i%len(b.data)]
	}
}

func mulScalar(a *tensor, s float64) {
	floats.Scale(s, a.data)
}

func elemAdd(a, b, out *tensor) {
	copy(out.data, a.data)
	floats.Add(out.data, b.data)
}

// sumAxis0 sums a [rows, cols] tensor over rows into a length-[cols] out.
func sumAxis0(a *tensor, out *tensor) {
	rows := a.shape[0]
	cols := a.shape[1]
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += a.data[i*cols+j]
		}
		out.data[j] = sum
	}
}

func clipValues(a *tensor, min, max float64) {
	for i := range a.data {
		if a.data[i] < min {
			a.data[i] = min
		} else if a.data[i] > max {
			a.data[i] = max
		}
	}
}

func l2Norm(a *tensor) float64 {
	return floats.Norm(a.data, 2)
}
