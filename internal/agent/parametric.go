package agent

import (
	"fmt"
	"log/slog"

	"genactor/internal/genotype"
	"genactor/internal/model"
	"genactor/internal/nn"
	"genactor/internal/space"
)

// parametric holds what the perceptron and network actors share: the
// spaces, a weight stack and the policy that evaluates it.
type parametric struct {
	id     string
	kind   string
	obs    space.Box
	act    space.Discrete
	low    []float64
	high   []float64
	params genotype.Params
	policy nn.Policy
	logger *slog.Logger
}

func newParametric(kind string, obs space.Box, act space.Discrete, params genotype.Params, policy nn.Policy, o options) (*parametric, error) {
	shapes := params.Shapes()
	if len(shapes) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrSpaceMismatch)
	}
	nObs := space.Product(obs.Shape())
	if shapes[0].In != nObs {
		return nil, fmt.Errorf("%w: first layer takes %d inputs, observation has %d", ErrSpaceMismatch, shapes[0].In, nObs)
	}
	if last := shapes[len(shapes)-1]; last.Out != act.N() {
		return nil, fmt.Errorf("%w: last layer gives %d outputs, action space has %d", ErrSpaceMismatch, last.Out, act.N())
	}
	p := &parametric{
		id:     o.id,
		kind:   kind,
		obs:    obs,
		act:    act,
		low:    obs.Low(),
		high:   obs.High(),
		params: params,
		policy: policy,
		logger: o.logger,
	}
	p.logger.Debug("actor created", "kind", kind, "id", p.id, "layers", len(shapes), "weights", params.Count())
	return p, nil
}

func (p *parametric) ID() string {
	return p.id
}

func (p *parametric) Kind() string {
	return p.kind
}

func (p *parametric) ReactTo(observation []float64) (int, error) {
	if len(observation) != len(p.low) {
		return 0, fmt.Errorf("%w: got=%d want=%d", ErrObservationSize, len(observation), len(p.low))
	}
	return p.params.Select(p.policy, nn.Normalize(observation, p.low, p.high))
}

// Outputs exposes the final layer values the action is selected from.
func (p *parametric) Outputs(observation []float64) ([]float64, error) {
	if len(observation) != len(p.low) {
		return nil, fmt.Errorf("%w: got=%d want=%d", ErrObservationSize, len(observation), len(p.low))
	}
	return p.params.Outputs(p.policy, nn.Normalize(observation, p.low, p.high))
}

func (p *parametric) Params() genotype.Params {
	return p.params
}

func (p *parametric) Shapes() []genotype.Shape {
	return p.params.Shapes()
}

func (p *parametric) Genome() []float64 {
	return genotype.Encode(p.params)
}

func (p *parametric) Record() model.GenomeRecord {
	return genotype.NewRecord(p.id, p.params)
}

func (p *parametric) decode(genome []float64) (genotype.Params, error) {
	params, err := genotype.Decode(genome, p.params.Shapes())
	if err != nil {
		return genotype.Params{}, fmt.Errorf("%s actor %s: %w", p.kind, p.id, err)
	}
	p.logger.Debug("genome decoded", "kind", p.kind, "template", p.id, "length", len(genome))
	return params, nil
}

func (p *parametric) decodeRecord(rec model.GenomeRecord) (genotype.Params, error) {
	params, err := genotype.DecodeRecord(rec, p.params.Shapes())
	if err != nil {
		return genotype.Params{}, fmt.Errorf("%s actor %s: %w", p.kind, p.id, err)
	}
	p.logger.Debug("genome record decoded", "kind", p.kind, "template", p.id, "source", rec.ActorID)
	return params, nil
}

// child options give a decoded actor a fresh ID, the receiver's logger and
// the receiver's activation.
func (p *parametric) child() options {
	return buildOptions([]Option{WithLogger(p.logger), WithActivation(p.policy.Activation)})
}
