package agent

import (
	"errors"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"genactor/internal/genotype"
	"genactor/internal/model"
)

var (
	ErrObservationSize = errors.New("observation size does not match space")
	ErrSpaceMismatch   = errors.New("parameters do not fit spaces")
	ErrInvalidSpec     = errors.New("invalid actor spec")
)

// Actor maps an observation to an action index.
type Actor interface {
	ID() string
	ReactTo(observation []float64) (int, error)
}

// Genetic is an actor whose parameters round-trip through a flat genome in
// [0, 1]. FromGenome never modifies the receiver; it uses the receiver's
// shapes as the decoding template and returns a new actor.
type Genetic interface {
	Actor
	Kind() string
	Shapes() []genotype.Shape
	Genome() []float64
	FromGenome(genome []float64) (Genetic, error)
	Record() model.GenomeRecord
	FromRecord(rec model.GenomeRecord) (Genetic, error)
}

type options struct {
	id         string
	rng        *rand.Rand
	activation string
	logger     *slog.Logger
}

type Option func(*options)

// WithID overrides the generated actor ID.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithRand sets the source used for initial weights.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSeed seeds the source used for initial weights.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

// WithActivation picks the squashing function of a network actor. The
// perceptron rejects any non-empty name.
func WithActivation(name string) Option {
	return func(o *options) { o.activation = name }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

var (
	_ Genetic = (*PerceptronActor)(nil)
	_ Genetic = (*NetworkActor)(nil)
	_ Actor   = (*RandomActor)(nil)
)
