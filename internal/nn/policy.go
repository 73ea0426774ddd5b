package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Policy selects an action index from a layer stack.
type Policy struct {
	Name       string
	Activation string
}

var (
	// LinearPolicy takes the argmax of the raw product, with no squashing.
	LinearPolicy = Policy{Name: "linear"}
	// LayeredPolicy squashes every layer output through the logistic function.
	LayeredPolicy = Policy{Name: "layered", Activation: DefaultActivation}
)

// Layered returns a layered policy squashing through the named activation.
// An empty name selects DefaultActivation.
func Layered(activation string) (Policy, error) {
	if activation == "" {
		return LayeredPolicy, nil
	}
	if _, err := GetActivation(activation); err != nil {
		return Policy{}, fmt.Errorf("layered policy: %w", err)
	}
	return Policy{Name: LayeredPolicy.Name, Activation: activation}, nil
}

// Outputs runs the layer stack on input and returns the final layer values.
func (p Policy) Outputs(layers []*mat.Dense, input []float64) ([]float64, error) {
	return Forward(layers, input, p.Activation)
}

// Select returns the index of the largest output, first index on ties.
func (p Policy) Select(layers []*mat.Dense, input []float64) (int, error) {
	outputs, err := p.Outputs(layers, input)
	if err != nil {
		return 0, err
	}
	return Argmax(outputs), nil
}
