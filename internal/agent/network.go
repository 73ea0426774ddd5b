package agent

import (
	"fmt"

	"genactor/internal/genotype"
	"genactor/internal/model"
	"genactor/internal/nn"
	"genactor/internal/space"
)

const KindNetwork = "network"

// NetworkActor runs a feed-forward stack and squashes every layer output,
// including when there are no hidden layers. The squashing function is the
// logistic function unless WithActivation names another one.
type NetworkActor struct {
	*parametric
	hidden []int
}

func NewNetworkActor(obs space.Box, act space.Discrete, hidden []int, opts ...Option) (*NetworkActor, error) {
	o := buildOptions(opts)
	params, err := genotype.NewNetwork(space.Product(obs.Shape()), hidden, act.N(), o.rng)
	if err != nil {
		return nil, err
	}
	return newNetwork(obs, act, params, o)
}

// NetworkFromParams wraps an existing layer stack.
func NetworkFromParams(obs space.Box, act space.Discrete, params genotype.Params, opts ...Option) (*NetworkActor, error) {
	return newNetwork(obs, act, params, buildOptions(opts))
}

func newNetwork(obs space.Box, act space.Discrete, params genotype.Params, o options) (*NetworkActor, error) {
	policy, err := nn.Layered(o.activation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	p, err := newParametric(KindNetwork, obs, act, params, policy, o)
	if err != nil {
		return nil, err
	}
	shapes := params.Shapes()
	hidden := make([]int, 0, len(shapes)-1)
	for _, s := range shapes[:len(shapes)-1] {
		hidden = append(hidden, s.Out)
	}
	return &NetworkActor{parametric: p, hidden: hidden}, nil
}

// HiddenLayers returns the hidden layer sizes in forward order.
func (a *NetworkActor) HiddenLayers() []int {
	return append([]int(nil), a.hidden...)
}

// Activation names the function applied after every layer.
func (a *NetworkActor) Activation() string {
	return a.policy.Activation
}

func (a *NetworkActor) FromGenome(genome []float64) (Genetic, error) {
	params, err := a.decode(genome)
	if err != nil {
		return nil, err
	}
	return newNetwork(a.obs, a.act, params, a.child())
}

func (a *NetworkActor) FromRecord(rec model.GenomeRecord) (Genetic, error) {
	params, err := a.decodeRecord(rec)
	if err != nil {
		return nil, err
	}
	return newNetwork(a.obs, a.act, params, a.child())
}
