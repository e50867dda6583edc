package bvae

import "math"

// ReconstructionLoss computes the reconstruction term and its gradients
// w.r.t. the decoder head outputs. logVar is nil on the basic path and
// gradLogVar is left untouched there. Gradients include the batch-mean
// factor, so layer backward passes apply no further scaling.
type ReconstructionLoss interface {
	compute(target, mean, logVar *tensor) float64
	gradient(target, mean, logVar, gradMean, gradLogVar *tensor)
	name() string
}

// GaussianNLLLoss - negative log-likelihood of a diagonal-covariance
// multivariate Gaussian, averaged over the batch:
//
//	ll = -0.5*sum_d((y_d - mu_d)/sigma_d)^2 - sum_d(log sigma_d)
//	     - 0.5*n*log(2*pi)
//	loss = mean_batch(-ll),  sigma = sqrt(exp(log_sigma_sq))
//
// Dividing by sigma inside the square is equivalent to dividing by
// sigma^2 outside it. A log-variance that exp-underflows gives sigma=0
// and a division by zero; the resulting non-finite loss propagates
// unhandled.
type GaussianNLLLoss struct{}

func GaussianNLL() ReconstructionLoss { return &GaussianNLLLoss{} }

func (g *GaussianNLLLoss) compute(target, mean, logVar *tensor) float64 {
	batch := target.shape[0]
	dims := target.shape[1]
	log2pi := 0.5 * float64(dims) * math.Log(2*math.Pi)

	total := 0.0
	for i := 0; i < batch; i++ {
		sse := 0.0
		sigmaTrace := 0.0
		for j := 0; j < dims; j++ {
			idx := i*dims + j
			sigma := math.Sqrt(math.Exp(logVar.data[idx]))
			diff := (target.data[idx] - mean.data[idx]) / sigma
			sse += diff * diff
			sigmaTrace += math.Log(sigma)
		}
		total += 0.5*sse + sigmaTrace + log2pi
	}
	return total / float64(batch)
}

func (g *GaussianNLLLoss) gradient(target, mean, logVar, gradMean, gradLogVar *tensor) {
	batch := float64(target.shape[0])
	for i := range target.data {
		invVar := math.Exp(-logVar.data[i])
		diff := target.data[i] - mean.data[i]
		gradMean.data[i] = -diff * invVar / batch
		gradLogVar.data[i] = (0.5 - 0.5*diff*diff*invVar) / batch
	}
}

func (g *GaussianNLLLoss) name() string { return "gaussian_nll" }

// SquaredErrorLoss - mean squared error over batch and features, the
// reconstruction term for the basic decoder (an implicit fixed-variance
// Gaussian).
type SquaredErrorLoss struct{}

func SquaredError() ReconstructionLoss { return &SquaredErrorLoss{} }

func (s *SquaredErrorLoss) compute(target, mean, logVar *tensor) float64 {
	sum := 0.0
	for i := range target.data {
		diff := mean.data[i] - target.data[i]
		sum += diff * diff
	}
	return sum / float64(len(target.data))
}

func (s *SquaredErrorLoss) gradient(target, mean, logVar, gradMean, gradLogVar *tensor) {
	scale := 2.0 / float64(len(target.data))
	for i := range target.data {
		gradMean.data[i] = scale * (mean.data[i] - target.data[i])
	}
}

func (s *SquaredErrorLoss) name() string { return "squared_error" }

// klDivergence is the closed-form KL divergence between the latent
// posterior N(z_mean, diag(exp(z_log_var))) and the unit Gaussian
// prior, summed over latent dimensions and averaged over the batch:
//
//	KL = -0.5 * sum_k(1 + z_log_var_k - z_mean_k^2 - exp(z_log_var_k))
func klDivergence(zMean, zLogVar *tensor) float64 {
	batch := zMean.shape[0]
	total := 0.0
	for i := range zMean.data {
		m := zMean.data[i]
		lv := zLogVar.data[i]
		total += -0.5 * (1 + lv - m*m - math.Exp(lv))
	}
	return total / float64(batch)
}

// klGradient writes the batch-averaged KL gradients, pre-scaled by the
// objective weight beta:
//
//	dKL/dz_mean    = z_mean
//	dKL/dz_log_var = 0.5 * (exp(z_log_var) - 1)
func klGradient(zMean, zLogVar *tensor, beta float64, gradMean, gradLogVar *tensor) {
	batch := float64(zMean.shape[0])
	for i := range zMean.data {
		gradMean.data[i] = beta * zMean.data[i] / batch
		gradLogVar.data[i] = beta * 0.5 * (math.Exp(zLogVar.data[i]) - 1) / batch
	}
}
