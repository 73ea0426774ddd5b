package stats

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"genactor/internal/agent"
	"genactor/internal/genotype"
	"genactor/internal/model"
)

const (
	resultOK    = "ok"
	resultError = "error"
	kindUnknown = "unknown"
)

// Collector holds the actor metrics. Register it once per registry.
type Collector struct {
	reactions *prometheus.CounterVec
	failures  *prometheus.CounterVec
	decodes   *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewCollector creates the metrics and registers them on reg. A nil reg
// leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genactor_reactions_total",
			Help: "Observations reacted to, by actor kind and selected action",
		}, []string{"kind", "action"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genactor_react_errors_total",
			Help: "Observations an actor failed to react to, by actor kind",
		}, []string{"kind"}),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genactor_genome_decodes_total",
			Help: "Genome decodes, by actor kind and result",
		}, []string{"kind", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "genactor_react_duration_seconds",
			Help:    "ReactTo latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1us to ~0.26s
		}, []string{"kind"}),
	}
	if reg == nil {
		return c, nil
	}
	for _, collector := range []prometheus.Collector{c.reactions, c.failures, c.decodes, c.latency} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Instrument wraps a so that reactions and decodes are counted. Genetic
// actors stay genetic, and actors they decode are instrumented as well.
// A nil c counts into an unregistered collector.
func Instrument(a agent.Actor, c *Collector) agent.Actor {
	if g, ok := a.(agent.Genetic); ok {
		return InstrumentGenetic(g, c)
	}
	return &InstrumentedActor{inner: a, kind: kindOf(a), collector: orUnregistered(c)}
}

// InstrumentGenetic is Instrument for genetic actors. A nil c counts into
// an unregistered collector.
func InstrumentGenetic(g agent.Genetic, c *Collector) *InstrumentedGenetic {
	c = orUnregistered(c)
	return &InstrumentedGenetic{
		InstrumentedActor: InstrumentedActor{inner: g, kind: g.Kind(), collector: c},
		genetic:           g,
	}
}

type InstrumentedActor struct {
	inner     agent.Actor
	kind      string
	collector *Collector
}

func (a *InstrumentedActor) ID() string {
	return a.inner.ID()
}

func (a *InstrumentedActor) Kind() string {
	return a.kind
}

func (a *InstrumentedActor) ReactTo(observation []float64) (int, error) {
	start := time.Now()
	action, err := a.inner.ReactTo(observation)
	a.collector.latency.WithLabelValues(a.kind).Observe(time.Since(start).Seconds())
	if err != nil {
		a.collector.failures.WithLabelValues(a.kind).Inc()
		return action, err
	}
	a.collector.reactions.WithLabelValues(a.kind, strconv.Itoa(action)).Inc()
	return action, nil
}

// Unwrap returns the wrapped actor.
func (a *InstrumentedActor) Unwrap() agent.Actor {
	return a.inner
}

type InstrumentedGenetic struct {
	InstrumentedActor
	genetic agent.Genetic
}

func (g *InstrumentedGenetic) Shapes() []genotype.Shape {
	return g.genetic.Shapes()
}

func (g *InstrumentedGenetic) Genome() []float64 {
	return g.genetic.Genome()
}

func (g *InstrumentedGenetic) Record() model.GenomeRecord {
	return g.genetic.Record()
}

func (g *InstrumentedGenetic) FromGenome(genome []float64) (agent.Genetic, error) {
	return g.wrapDecoded(g.genetic.FromGenome(genome))
}

func (g *InstrumentedGenetic) FromRecord(rec model.GenomeRecord) (agent.Genetic, error) {
	return g.wrapDecoded(g.genetic.FromRecord(rec))
}

func (g *InstrumentedGenetic) wrapDecoded(child agent.Genetic, err error) (agent.Genetic, error) {
	if err != nil {
		g.collector.decodes.WithLabelValues(g.kind, resultError).Inc()
		return nil, err
	}
	g.collector.decodes.WithLabelValues(g.kind, resultOK).Inc()
	return InstrumentGenetic(child, g.collector), nil
}

func orUnregistered(c *Collector) *Collector {
	if c != nil {
		return c
	}
	c, _ = NewCollector(nil)
	return c
}

func kindOf(a agent.Actor) string {
	if k, ok := a.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return kindUnknown
}

var _ agent.Genetic = (*InstrumentedGenetic)(nil)
