package agent

import (
	"fmt"

	"genactor/internal/genotype"
	"genactor/internal/model"
	"genactor/internal/nn"
	"genactor/internal/space"
)

const KindPerceptron = "perceptron"

// PerceptronActor selects the argmax of a single linear layer applied to the
// normalized observation. No squashing is applied.
type PerceptronActor struct {
	*parametric
}

func NewPerceptronActor(obs space.Box, act space.Discrete, opts ...Option) (*PerceptronActor, error) {
	o := buildOptions(opts)
	params, err := genotype.NewPerceptron(space.Product(obs.Shape()), act.N(), o.rng)
	if err != nil {
		return nil, err
	}
	return newPerceptron(obs, act, params, o)
}

// PerceptronFromParams wraps existing single-layer parameters.
func PerceptronFromParams(obs space.Box, act space.Discrete, params genotype.Params, opts ...Option) (*PerceptronActor, error) {
	return newPerceptron(obs, act, params, buildOptions(opts))
}

func newPerceptron(obs space.Box, act space.Discrete, params genotype.Params, o options) (*PerceptronActor, error) {
	if o.activation != "" {
		return nil, fmt.Errorf("%w: perceptron is linear, got activation %q", ErrInvalidSpec, o.activation)
	}
	if params.NumLayers() != 1 {
		return nil, fmt.Errorf("%w: perceptron needs 1 layer, got %d", ErrSpaceMismatch, params.NumLayers())
	}
	p, err := newParametric(KindPerceptron, obs, act, params, nn.LinearPolicy, o)
	if err != nil {
		return nil, err
	}
	return &PerceptronActor{parametric: p}, nil
}

func (a *PerceptronActor) FromGenome(genome []float64) (Genetic, error) {
	params, err := a.decode(genome)
	if err != nil {
		return nil, err
	}
	return newPerceptron(a.obs, a.act, params, a.child())
}

func (a *PerceptronActor) FromRecord(rec model.GenomeRecord) (Genetic, error) {
	params, err := a.decodeRecord(rec)
	if err != nil {
		return nil, err
	}
	return newPerceptron(a.obs, a.act, params, a.child())
}
