package bvae

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDense(t *testing.T, units, fanIn int, act Activation) *DenseLayer {
	t.Helper()
	layer := Dense(units).
		WithActivation(act).
		WithInitializer(XavierUniform(1.0)).
		WithBiasInitializer(Zeros()).
		Build()
	require.NoError(t, layer.build(fanIn, rand.New(rand.NewSource(21))))
	return layer
}

func TestDenseBuildValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	err := Dense(4).Build().build(3, rng)
	require.Error(t, err) // missing initializer and activation

	err = Dense(0).
		WithActivation(Linear()).
		WithInitializer(XavierUniform(1.0)).
		WithBiasInitializer(Zeros()).
		Build().build(3, rng)
	require.Error(t, err)

	err = Dense(4).
		WithActivation(Linear()).
		WithInitializer(XavierUniform(1.0)).
		WithBiasInitializer(Zeros()).
		Build().build(0, rng)
	require.Error(t, err)
}

func TestDenseForwardLinear(t *testing.T) {
	layer := buildDense(t, 2, 3, Linear())
	copy(layer.weights.data, []float64{1, 0, 0, 1, 1, 1})
	copy(layer.bias.data, []float64{0.5, -0.5})

	x := newTensor(1, 3)
	copy(x.data, []float64{1, 2, 3})

	out, err := layer.forward(x)
	require.NoError(t, err)

	// [1*1+2*0+3*1, 1*0+2*1+3*1] + bias
	assert.InDelta(t, 4.5, out.data[0], 1e-12)
	assert.InDelta(t, 4.5, out.data[1], 1e-12)
}

func TestDenseForwardShapeMismatch(t *testing.T) {
	layer := buildDense(t, 2, 3, Linear())

	x := newTensor(1, 4)
	_, err := layer.forward(x)
	require.Error(t, err)

	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "shape mismatch", me.ErrorType)
}

// sumForward runs the layer on x and reduces the output to a scalar so
// parameter gradients can be checked against finite differences.
func sumForward(t *testing.T, layer *DenseLayer, x *tensor) float64 {
	t.Helper()
	out, err := layer.forward(x)
	require.NoError(t, err)
	sum := 0.0
	for _, v := range out.data {
		sum += v
	}
	return sum
}

func TestDenseBackwardFiniteDifference(t *testing.T) {
	layer := buildDense(t, 3, 2, ReLU())

	x := newTensor(4, 2)
	x.fillRandNorm(0, 1, rand.New(rand.NewSource(33)))

	out, err := layer.forward(x)
	require.NoError(t, err)

	gradOut := newTensor(out.shape...)
	gradOut.fill(1) // d(sum)/d(out) = 1

	gradIn, err := layer.backward(gradOut)
	require.NoError(t, err)

	const h = 1e-6
	for j := range layer.weights.data {
		layer.weights.data[j] += h
		up := sumForward(t, layer, x)
		layer.weights.data[j] -= 2 * h
		down := sumForward(t, layer, x)
		layer.weights.data[j] += h
		assert.InDelta(t, (up-down)/(2*h), layer.gradW.data[j], 1e-4)
	}
	for j := range layer.bias.data {
		layer.bias.data[j] += h
		up := sumForward(t, layer, x)
		layer.bias.data[j] -= 2 * h
		down := sumForward(t, layer, x)
		layer.bias.data[j] += h
		assert.InDelta(t, (up-down)/(2*h), layer.gradB.data[j], 1e-4)
	}
	for j := range x.data {
		x.data[j] += h
		up := sumForward(t, layer, x)
		x.data[j] -= 2 * h
		down := sumForward(t, layer, x)
		x.data[j] += h
		assert.InDelta(t, (up-down)/(2*h), gradIn.data[j], 1e-4)
	}
}

func TestDenseBackwardBeforeForwardFails(t *testing.T) {
	layer := buildDense(t, 2, 2, Linear())
	_, err := layer.backward(newTensor(1, 2))
	require.Error(t, err)
}
