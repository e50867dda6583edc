package bvae

import (
	"fmt"
	"math"
	"strings"
)

// TensorInfo captures tensor state for error reporting and for
// diagnosing non-finite losses.
type TensorInfo struct {
	Shape    []int
	Size     int
	NaNCount int
	InfCount int
	MinValue float64
	MaxValue float64
}

// Format returns a compact string representation
func (t *TensorInfo) Format() string {
	s := fmt.Sprintf("%v size=%d", t.Shape, t.Size)
	if t.NaNCount > 0 || t.InfCount > 0 {
		s += fmt.Sprintf(" (corrupt: %d NaN, %d Inf)", t.NaNCount, t.InfCount)
	} else {
		s += fmt.Sprintf(" range=[%.4f, %.4f]", t.MinValue, t.MaxValue)
	}
	return s
}

// ModelError is the structured error type for bvae
type ModelError struct {
	Component    string      // "DenseLayer", "VAE", ...
	ErrorType    string      // "shape mismatch", ...
	Phase        string      // "forward", "backward", "build"
	InputInfo    *TensorInfo // nil if not relevant
	ExpectedInfo string      // what was expected
	Cause        string      // human-readable cause
}

// Error implements the error interface
func (e *ModelError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "bvae: %s %s", e.Component, e.ErrorType)
	if e.Phase != "" {
		fmt.Fprintf(&b, " in %s", e.Phase)
	}
	b.WriteString("\n")

	if e.InputInfo != nil {
		fmt.Fprintf(&b, "  input:    %s\n", e.InputInfo.Format())
	}
	if e.ExpectedInfo != "" {
		fmt.Fprintf(&b, "  expected: %s\n", e.ExpectedInfo)
	}
	fmt.Fprintf(&b, "  cause:    %s", e.Cause)

	return b.String()
}

// ScanTensor collects shape, range and NaN/Inf counts
func ScanTensor(t *tensor) *TensorInfo {
	if t == nil {
		return nil
	}

	info := &TensorInfo{
		Shape:    t.shape,
		Size:     len(t.data),
		MinValue: math.Inf(1),
		MaxValue: math.Inf(-1),
	}

	for _, v := range t.data {
		switch {
		case math.IsNaN(v):
			info.NaNCount++
		case math.IsInf(v, 0):
			info.InfCount++
		default:
			if v < info.MinValue {
				info.MinValue = v
			}
			if v > info.MaxValue {
				info.MaxValue = v
			}
		}
	}

	if math.IsInf(info.MinValue, 1) {
		info.MinValue = 0
	}
	if math.IsInf(info.MaxValue, -1) {
		info.MaxValue = 0
	}

	return info
}
