package nn

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoLayers  = errors.New("at least one layer is required")
	ErrInputSize = errors.New("input size does not match layer")
)

// Forward folds input through layers in order, computing W·v at each
// step. When activation is non-empty it is applied elementwise after
// every layer, including the last.
func Forward(layers []*mat.Dense, input []float64, activation string) ([]float64, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInputSize)
	}

	var squash ActivationFunc
	if activation != "" {
		fn, err := GetActivation(activation)
		if err != nil {
			return nil, err
		}
		squash = fn
	}

	current := mat.NewVecDense(len(input), append([]float64(nil), input...))
	for i, layer := range layers {
		rows, cols := layer.Dims()
		if current.Len() != cols {
			return nil, fmt.Errorf("%w: layer %d got=%d want=%d", ErrInputSize, i, current.Len(), cols)
		}
		next := mat.NewVecDense(rows, nil)
		next.MulVec(layer, current)
		if squash != nil {
			for j := 0; j < rows; j++ {
				next.SetVec(j, squash(next.AtVec(j)))
			}
		}
		current = next
	}
	return mat.Col(nil, 0, current), nil
}
