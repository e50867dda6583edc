// Package bvae is a beta-weighted variational autoencoder for Go.
//
// The model pairs a dense recognition network with one of two generative
// networks: a basic decoder producing a point-estimate reconstruction, or
// a probabilistic decoder producing a per-feature mean and log-variance
// (a diagonal-covariance Gaussian over the reconstruction). Training
// minimizes reconstruction loss plus beta times the KL divergence between
// the latent posterior and a unit Gaussian prior.
//
// Every hyperparameter is explicit; there are no hidden defaults.
//
// Basic usage:
//
//	model, err := bvae.New(bvae.Config{
//		Architecture: bvae.NetworkArchitecture{
//			NInput:        28,
//			NZ:            4,
//			NHiddenRecog1: 64,
//			NHiddenRecog2: 32,
//			NHiddenGener1: 32,
//			NHiddenGener2: 64,
//		},
//		ProbaOutput: true,
//		Beta:        1.0,
//		Optimizer: bvae.Adam(bvae.AdamConfig{
//			LR:      0.0001,
//			Beta1:   0.9,
//			Beta2:   0.999,
//			Epsilon: 1e-8,
//		}),
//		GradientClip: bvae.GradientClipConfig{Mode: "norm", MaxNorm: 1.0},
//		Seed:         42,
//	})
//
//	_, err = model.Fit(corrupted, clean, bvae.TrainConfig{
//		Epochs:    100,
//		BatchSize: 256,
//		Shuffle:   true,
//		Verbose:   1,
//	}, nil)
//
//	reconstruction, err := model.Predict(corrupted)
package bvae

// Version of the bvae library
const Version = "1.0.0"
