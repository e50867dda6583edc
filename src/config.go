package bvae

// NetworkArchitecture fixes the layer widths of a model instance - ALL
// fields required. NZ < NInput is the expected regime but is not
// enforced.
type NetworkArchitecture struct {
	NInput        int // input/output feature count
	NZ            int // latent dimensionality
	NHiddenRecog1 int // 1st encoder hidden width
	NHiddenRecog2 int // 2nd encoder hidden width
	NHiddenGener1 int // 1st decoder hidden width
	NHiddenGener2 int // 2nd decoder hidden width
}

// TrainConfig holds all training configuration - ALL fields required
type TrainConfig struct {
	Epochs    int
	BatchSize int
	Shuffle   bool
	Verbose   int // 0 silent, >=1 per-epoch log lines
}

// GradientClipConfig for gradient clipping applied between backprop and
// the optimizer step
type GradientClipConfig struct {
	Mode     string // "norm", "value", or "none"
	MaxNorm  float64
	MaxValue float64
}

// ValidateArchitecture checks all widths are positive
func ValidateArchitecture(arch NetworkArchitecture) error {
	fields := []struct {
		label string
		value int
	}{
		{"NInput", arch.NInput},
		{"NZ", arch.NZ},
		{"NHiddenRecog1", arch.NHiddenRecog1},
		{"NHiddenRecog2", arch.NHiddenRecog2},
		{"NHiddenGener1", arch.NHiddenGener1},
		{"NHiddenGener2", arch.NHiddenGener2},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return errorf("%s must be > 0, got %d", f.label, f.value)
		}
	}
	return nil
}

// ValidateTrainConfig checks all required fields are set
func ValidateTrainConfig(cfg TrainConfig) error {
	if cfg.Epochs <= 0 {
		return errorf("Epochs must be > 0, got %d", cfg.Epochs)
	}
	if cfg.BatchSize <= 0 {
		return errorf("BatchSize must be > 0, got %d", cfg.BatchSize)
	}
	return nil
}

func validateGradientClip(cfg GradientClipConfig) error {
	switch cfg.Mode {
	case "none", "":
		return nil
	case "norm":
		if cfg.MaxNorm <= 0 {
			return errorf("GradientClip.MaxNorm must be > 0 in norm mode, got %f", cfg.MaxNorm)
		}
	case "value":
		if cfg.MaxValue <= 0 {
			return errorf("GradientClip.MaxValue must be > 0 in value mode, got %f", cfg.MaxValue)
		}
	default:
		return errorf("GradientClip.Mode must be one of none, norm, value; got %q", cfg.Mode)
	}
	return nil
}
