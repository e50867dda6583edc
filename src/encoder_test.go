package bvae

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderForwardShapes(t *testing.T) {
	arch := validArch()
	encoder, err := NewEncoder(arch, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	x := newTensor(7, arch.NInput)
	x.fillRandNorm(0, 1, rand.New(rand.NewSource(2)))

	zMean, zLogVar, z, err := encoder.forward(x)
	require.NoError(t, err)

	assert.Equal(t, []int{7, arch.NZ}, zMean.shape)
	assert.Equal(t, []int{7, arch.NZ}, zLogVar.shape)
	assert.Equal(t, []int{7, arch.NZ}, z.shape)
}

func TestEncoderRejectsBadArchitecture(t *testing.T) {
	arch := validArch()
	arch.NHiddenRecog1 = 0
	_, err := NewEncoder(arch, rand.New(rand.NewSource(1)))
	require.Error(t, err)
}

func TestDecoderForwardShapesByKind(t *testing.T) {
	arch := validArch()
	rng := rand.New(rand.NewSource(1))

	basic, err := NewDecoder(arch, DecoderBasic, rng)
	require.NoError(t, err)

	z := newTensor(5, arch.NZ)
	z.fillRandNorm(0, 1, rng)

	mean, logVar, err := basic.forward(z)
	require.NoError(t, err)
	assert.Equal(t, []int{5, arch.NInput}, mean.shape)
	assert.Nil(t, logVar)

	proba, err := NewDecoder(arch, DecoderProbabilistic, rng)
	require.NoError(t, err)

	mean, logVar, err = proba.forward(z)
	require.NoError(t, err)
	assert.Equal(t, []int{5, arch.NInput}, mean.shape)
	assert.Equal(t, []int{5, arch.NInput}, logVar.shape)
}

func TestDecoderHiddenWidths(t *testing.T) {
	arch := validArch()
	arch.NHiddenGener1 = 6
	arch.NHiddenGener2 = 10

	decoder, err := NewDecoder(arch, DecoderProbabilistic, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// second hidden layer uses NHiddenGener2, not NHiddenGener1
	assert.Equal(t, []int{arch.NZ, 6}, decoder.h1.weights.shape)
	assert.Equal(t, []int{6, 10}, decoder.h2.weights.shape)
	assert.Equal(t, []int{10, arch.NInput}, decoder.meanHead.weights.shape)
}

func TestDecoderParameterCountByKind(t *testing.T) {
	arch := validArch()
	rng := rand.New(rand.NewSource(1))

	basic, err := NewDecoder(arch, DecoderBasic, rng)
	require.NoError(t, err)
	proba, err := NewDecoder(arch, DecoderProbabilistic, rng)
	require.NoError(t, err)

	// the probabilistic variant carries one extra head (weights + bias)
	assert.Equal(t, len(basic.parameters())+2, len(proba.parameters()))
}
