package bvae

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArch() NetworkArchitecture {
	return NetworkArchitecture{
		NInput:        4,
		NZ:            2,
		NHiddenRecog1: 8,
		NHiddenRecog2: 8,
		NHiddenGener1: 8,
		NHiddenGener2: 8,
	}
}

func TestValidateArchitecture(t *testing.T) {
	require.NoError(t, ValidateArchitecture(validArch()))

	for _, mutate := range []func(*NetworkArchitecture){
		func(a *NetworkArchitecture) { a.NInput = 0 },
		func(a *NetworkArchitecture) { a.NZ = -1 },
		func(a *NetworkArchitecture) { a.NHiddenRecog1 = 0 },
		func(a *NetworkArchitecture) { a.NHiddenRecog2 = 0 },
		func(a *NetworkArchitecture) { a.NHiddenGener1 = 0 },
		func(a *NetworkArchitecture) { a.NHiddenGener2 = 0 },
	} {
		arch := validArch()
		mutate(&arch)
		assert.Error(t, ValidateArchitecture(arch))
	}
}

func TestValidateTrainConfig(t *testing.T) {
	require.NoError(t, ValidateTrainConfig(TrainConfig{Epochs: 1, BatchSize: 1}))
	assert.Error(t, ValidateTrainConfig(TrainConfig{Epochs: 0, BatchSize: 1}))
	assert.Error(t, ValidateTrainConfig(TrainConfig{Epochs: 1, BatchSize: 0}))
}

func TestValidateGradientClip(t *testing.T) {
	require.NoError(t, validateGradientClip(GradientClipConfig{Mode: "none"}))
	require.NoError(t, validateGradientClip(GradientClipConfig{}))
	require.NoError(t, validateGradientClip(GradientClipConfig{Mode: "norm", MaxNorm: 1}))
	require.NoError(t, validateGradientClip(GradientClipConfig{Mode: "value", MaxValue: 5}))

	assert.Error(t, validateGradientClip(GradientClipConfig{Mode: "norm"}))
	assert.Error(t, validateGradientClip(GradientClipConfig{Mode: "value"}))
	assert.Error(t, validateGradientClip(GradientClipConfig{Mode: "clipnorm"}))
}
