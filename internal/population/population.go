package population

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"genactor/internal/agent"
)

const tracerName = "genactor/internal/population"

type options struct {
	workers int
	logger  *slog.Logger
}

type Option func(*options)

// WithWorkers bounds concurrent decodes. Non-positive means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// DecodeAll rebuilds one actor per genome using template's shapes. Results
// keep the input order. The template is only read, so it may keep serving
// ReactTo calls meanwhile. The first decode error cancels the rest.
func DecodeAll(ctx context.Context, template agent.Genetic, genomes [][]float64, opts ...Option) ([]agent.Genetic, error) {
	o := buildOptions(opts)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "population.DecodeAll")
	defer span.End()
	span.SetAttributes(
		attribute.String("actor.kind", template.Kind()),
		attribute.String("actor.template", template.ID()),
		attribute.Int("genomes", len(genomes)),
		attribute.Int("workers", o.workers),
	)
	o.logger.Debug("batch decode started", "template", template.ID(), "genomes", len(genomes), "workers", o.workers)

	out := make([]agent.Genetic, len(genomes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, genome := range genomes {
		if gctx.Err() != nil {
			break
		}
		i, genome := i, genome
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			child, err := template.FromGenome(genome)
			if err != nil {
				return fmt.Errorf("genome %d: %w", i, err)
			}
			out[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Debug("batch decode failed", "template", template.ID(), "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	o.logger.Debug("batch decode finished", "template", template.ID(), "actors", len(out))
	return out, nil
}

// Genomes extracts the genome of every actor, in order.
func Genomes(actors []agent.Genetic) [][]float64 {
	out := make([][]float64, len(actors))
	for i, a := range actors {
		out[i] = a.Genome()
	}
	return out
}
