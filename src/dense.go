package bvae

import (
	"fmt"
	"math/rand"
)

// DenseLayer - fully connected layer. The encoder and both decoder
// variants are assembled from these.
type DenseLayer struct {
	units       int
	activation  Activation
	initializer Initializer
	biasInit    Initializer
	weights     *tensor
	bias        *tensor
	input       *tensor
	preAct      *tensor
	output      *tensor
	gradW       *tensor
	gradB       *tensor
	built       bool
}

// DenseBuilder for fluent API
type DenseBuilder struct {
	layer *DenseLayer
}

func Dense(units int) *DenseBuilder {
	return &DenseBuilder{
		layer: &DenseLayer{
			units: units,
		},
	}
}

func (b *DenseBuilder) WithActivation(act Activation) *DenseBuilder {
	b.layer.activation = act
	return b
}

func (b *DenseBuilder) WithInitializer(init Initializer) *DenseBuilder {
	b.layer.initializer = init
	return b
}

func (b *DenseBuilder) WithBiasInitializer(init Initializer) *DenseBuilder {
	b.layer.biasInit = init
	return b
}

func (b *DenseBuilder) Build() *DenseLayer {
	return b.layer
}

func (d *DenseLayer) build(fanIn int, rng *rand.Rand) error {
	if fanIn <= 0 {
		return errorf("DenseLayer requires positive input width, got %d", fanIn)
	}
	if d.units <= 0 {
		return errorf("DenseLayer requires positive units, got %d", d.units)
	}
	if d.initializer == nil {
		return errorf("DenseLayer requires initializer - use WithInitializer()")
	}
	if d.activation == nil {
		return errorf("DenseLayer requires activation - use WithActivation()")
	}
	if d.biasInit == nil {
		return errorf("DenseLayer requires bias initializer - use WithBiasInitializer()")
	}

	d.weights = newTensor(fanIn, d.units)
	d.initializer.initialize(d.weights, fanIn, d.units, rng)
	d.gradW = newTensor(fanIn, d.units)

	d.bias = newTensor(d.units)
	d.biasInit.initialize(d.bias, fanIn, d.units, rng)
	d.gradB = newTensor(d.units)

	d.built = true
	return nil
}

func (d *DenseLayer) forward(input *tensor) (*tensor, error) {
	if !d.built {
		return nil, errorf("layer not built")
	}
	batchSize := input.shape[0]
	inputDim := input.shape[1]

	if inputDim != d.weights.shape[0] {
		return nil, &ModelError{
			Component:    "DenseLayer",
			ErrorType:    "shape mismatch",
			Phase:        "forward",
			InputInfo:    ScanTensor(input),
			ExpectedInfo: fmt.Sprintf("input width %d", d.weights.shape[0]),
			Cause:        fmt.Sprintf("input has %d features, layer expects %d", inputDim, d.weights.shape[0]),
		}
	}

	d.input = input
	d.preAct = newTensor(batchSize, d.units)
	d.output = newTensor(batchSize, d.units)

	// Y = activation(X @ W + b)
	matmul(input, d.weights, d.preAct)
	addVec(d.preAct, d.bias)
	d.activation.forward(d.preAct, d.output)

	return d.output, nil
}

// backward consumes the gradient of the loss w.r.t. this layer's output
// and returns the gradient w.r.t. its input. The loss gradient already
// carries any batch-mean factor, so parameter gradients are plain sums.
func (d *DenseLayer) backward(gradOutput *tensor) (*tensor, error) {
	if d.input == nil {
		return nil, errorf("backward called before forward")
	}

	// Gradient through activation
	gradPreAct := newTensor(gradOutput.shape...)
	d.activation.backward(d.preAct, gradOutput, gradPreAct)

	// dL/dW = X^T @ dL/dY
	matmulTransA(d.input, gradPreAct, d.gradW)

	// dL/db = sum(dL/dY, axis=0)
	sumAxis0(gradPreAct, d.gradB)

	// dL/dX = dL/dY @ W^T
	gradInput := newTensor(d.input.shape...)
	matmulTransB(gradPreAct, d.weights, gradInput)

	return gradInput, nil
}

func (d *DenseLayer) parameters() []*tensor {
	return []*tensor{d.weights, d.bias}
}

func (d *DenseLayer) gradients() []*tensor {
	return []*tensor{d.gradW, d.gradB}
}
