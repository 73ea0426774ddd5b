package genactor

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"genactor/internal/agent"
	"genactor/internal/config"
	"genactor/internal/genotype"
	"genactor/internal/model"
	"genactor/internal/population"
	"genactor/internal/space"
	"genactor/internal/stats"
)

type (
	Actor        = agent.Actor
	Genetic      = agent.Genetic
	Box          = space.Box
	Discrete     = space.Discrete
	Shape        = genotype.Shape
	ActorSpec    = model.ActorSpec
	GenomeRecord = model.GenomeRecord
)

const (
	KindRandom     = agent.KindRandom
	KindPerceptron = agent.KindPerceptron
	KindNetwork    = agent.KindNetwork
)

var (
	ErrObservationSize = agent.ErrObservationSize
	ErrGenomeLength    = genotype.ErrGenomeLength
	ErrShapeMismatch   = genotype.ErrShapeMismatch
	ErrKindNotFound    = agent.ErrKindNotFound
)

// NewBox builds an observation space from a shape and flattened bounds.
func NewBox(shape []int, low, high []float64) (Box, error) {
	box, err := space.NewBox(shape, low, high)
	if err != nil {
		return nil, err
	}
	return box, nil
}

// NewDiscrete builds an n-action space seeded for sampling.
func NewDiscrete(n int, seed int64) (Discrete, error) {
	d, err := space.NewDiscrete(n, newRand(seed))
	if err != nil {
		return nil, err
	}
	return d, nil
}

// NewSpec is an actor spec at the current record version.
func NewSpec(kind string, hidden ...int) ActorSpec {
	return model.ActorSpec{VersionedRecord: model.CurrentVersion(), Kind: kind, HiddenLayers: hidden}
}

type Options struct {
	// ConfigPath is a YAML actor spec; empty means the default perceptron.
	ConfigPath string
	EnvFile    string
	// Registerer receives actor metrics when set.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
	Workers    int
}

// Client builds actors from one resolved spec and decodes genome batches.
// A seeded spec seeds the client once: successive actors get different
// weights, and two clients with the same seed build the same sequence.
type Client struct {
	spec      model.ActorSpec
	collector *stats.Collector
	logger    *slog.Logger
	workers   int

	mu  sync.Mutex
	rng *rand.Rand
}

func New(opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfgOpts := []config.Option{config.WithLogger(logger)}
	if opts.EnvFile != "" {
		cfgOpts = append(cfgOpts, config.WithEnvFile(opts.EnvFile))
	}
	spec, err := config.Load(opts.ConfigPath, cfgOpts...)
	if err != nil {
		return nil, err
	}
	return NewWithSpec(spec, opts)
}

// NewWithSpec skips config loading and uses spec directly.
func NewWithSpec(spec model.ActorSpec, opts Options) (*Client, error) {
	if err := config.Validate(spec); err != nil {
		return nil, err
	}
	if _, err := agent.ResolveKind(spec.Kind); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{spec: spec, logger: logger, workers: opts.Workers}
	if spec.Seed != 0 {
		c.rng = rand.New(rand.NewSource(spec.Seed))
	}
	if opts.Registerer != nil {
		collector, err := stats.NewCollector(opts.Registerer)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		c.collector = collector
	}
	return c, nil
}

func (c *Client) Spec() model.ActorSpec {
	return c.spec
}

// NewActor builds an actor of the configured kind for the given spaces.
func (c *Client) NewActor(obs Box, act Discrete) (Actor, error) {
	opts := []agent.Option{agent.WithLogger(c.logger)}
	if c.rng != nil {
		opts = append(opts, agent.WithSeed(c.nextSeed()))
	}
	a, err := agent.New(c.spec, obs, act, opts...)
	if err != nil {
		return nil, err
	}
	if c.collector != nil {
		return stats.Instrument(a, c.collector), nil
	}
	return a, nil
}

func (c *Client) nextSeed() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Int63()
}

// NewGenetic is NewActor for kinds that expose a genome.
func (c *Client) NewGenetic(obs Box, act Discrete) (Genetic, error) {
	a, err := c.NewActor(obs, act)
	if err != nil {
		return nil, err
	}
	g, ok := a.(Genetic)
	if !ok {
		return nil, fmt.Errorf("actor kind %q has no genome", c.spec.Kind)
	}
	return g, nil
}

// DecodeAll rebuilds one actor per genome with template's shapes.
func (c *Client) DecodeAll(ctx context.Context, template Genetic, genomes [][]float64) ([]Genetic, error) {
	return population.DecodeAll(ctx, template, genomes,
		population.WithWorkers(c.workers),
		population.WithLogger(c.logger),
	)
}
