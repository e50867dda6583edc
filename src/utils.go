package bvae

import (
	"fmt"
	"math/rand"
)

// shuffleData shuffles input and target data in-place, keeping rows
// aligned
func shuffleData(inputs, targets *tensor, rng *rand.Rand) {
	n := inputs.shape[0]
	inputCols := inputs.size() / n
	targetCols := targets.size() / n

	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		for k := 0; k < inputCols; k++ {
			inputs.data[i*inputCols+k], inputs.data[j*inputCols+k] =
				inputs.data[j*inputCols+k], inputs.data[i*inputCols+k]
		}
		for k := 0; k < targetCols; k++ {
			targets.data[i*targetCols+k], targets.data[j*targetCols+k] =
				targets.data[j*targetCols+k], targets.data[i*targetCols+k]
		}
	}
}

// getBatch extracts rows [start, start+batchSize) from data; the last
// batch may be short
func getBatch(data *tensor, start, batchSize int) *tensor {
	totalSamples := data.shape[0]
	end := start + batchSize
	if end > totalSamples {
		end = totalSamples
	}
	actualBatch := end - start

	cols := data.shape[1]
	batch := newTensor(actualBatch, cols)
	copy(batch.data, data.data[start*cols:end*cols])
	return batch
}

// toTensor converts a row-major [][]float64 matrix
func toTensor(rows [][]float64) (*tensor, error) {
	if len(rows) == 0 {
		return nil, errorf("empty matrix")
	}
	cols := len(rows[0])
	t := newTensor(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errorf("ragged matrix: row %d has %d values, expected %d", i, len(row), cols)
		}
		copy(t.data[i*cols:(i+1)*cols], row)
	}
	return t, nil
}

// fromTensor converts back to [][]float64
func fromTensor(t *tensor) [][]float64 {
	rows := t.shape[0]
	cols := t.shape[1]
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		copy(out[i], t.data[i*cols:(i+1)*cols])
	}
	return out
}

// errorf creates a formatted error
func errorf(format string, args ...interface{}) error {
	return fmt.Errorf("bvae: "+format, args...)
}
