package bvae

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatmul(t *testing.T) {
	a := newTensor(2, 3)
	copy(a.data, []float64{1, 2, 3, 4, 5, 6})
	b := newTensor(3, 2)
	copy(b.data, []float64{7, 8, 9, 10, 11, 12})

	out := newTensor(2, 2)
	matmul(a, b, out)

	assert.Equal(t, []float64{58, 64, 139, 154}, out.data)
}

func TestMatmulTransA(t *testing.T) {
	a := newTensor(3, 2)
	copy(a.data, []float64{1, 4, 2, 5, 3, 6})
	b := newTensor(3, 2)
	copy(b.data, []float64{7, 8, 9, 10, 11, 12})

	out := newTensor(2, 2)
	matmulTransA(a, b, out)

	// a^T = [[1,2,3],[4,5,6]]
	assert.Equal(t, []float64{58, 64, 139, 154}, out.data)
}

func TestMatmulTransB(t *testing.T) {
	a := newTensor(2, 3)
	copy(a.data, []float64{1, 2, 3, 4, 5, 6})
	b := newTensor(2, 3)
	copy(b.data, []float64{7, 9, 11, 8, 10, 12})

	out := newTensor(2, 2)
	matmulTransB(a, b, out)

	assert.Equal(t, []float64{58, 64, 139, 154}, out.data)
}

func TestAddVecBroadcastsOverRows(t *testing.T) {
	a := newTensor(2, 3)
	copy(a.data, []float64{1, 2, 3, 4, 5, 6})
	b := newTensor(3)
	copy(b.data, []float64{10, 20, 30})

	addVec(a, b)

	assert.Equal(t, []float64{11, 22, 33, 14, 25, 36}, a.data)
}

func TestSumAxis0(t *testing.T) {
	a := newTensor(3, 2)
	copy(a.data, []float64{1, 2, 3, 4, 5, 6})
	out := newTensor(2)

	sumAxis0(a, out)

	assert.Equal(t, []float64{9, 12}, out.data)
}

func TestClipValues(t *testing.T) {
	a := newTensor(4)
	copy(a.data, []float64{-10, -0.5, 0.5, 10})

	clipValues(a, -1, 1)

	assert.Equal(t, []float64{-1, -0.5, 0.5, 1}, a.data)
}

func TestL2Norm(t *testing.T) {
	a := newTensor(2)
	copy(a.data, []float64{3, 4})
	assert.InDelta(t, 5.0, l2Norm(a), 1e-12)
}

func TestToTensorRoundTrip(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {4, 5, 6}}

	tt, err := toTensor(rows)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, tt.shape)

	back := fromTensor(tt)
	assert.Equal(t, rows, back)
}

func TestToTensorRejectsRaggedInput(t *testing.T) {
	_, err := toTensor([][]float64{{1, 2}, {3}})
	require.Error(t, err)

	_, err = toTensor(nil)
	require.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	a := newTensor(2, 2)
	a.fill(1)
	b := a.clone()
	b.data[0] = 99

	assert.Equal(t, 1.0, a.data[0])
}
