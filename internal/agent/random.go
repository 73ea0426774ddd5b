package agent

import (
	"log/slog"

	"genactor/internal/space"
)

const KindRandom = "random"

// RandomActor ignores observations and samples a legal action.
type RandomActor struct {
	id     string
	obs    space.Box
	act    space.Discrete
	logger *slog.Logger
}

func NewRandomActor(obs space.Box, act space.Discrete, opts ...Option) *RandomActor {
	o := buildOptions(opts)
	o.logger.Debug("actor created", "kind", KindRandom, "id", o.id)
	return &RandomActor{id: o.id, obs: obs, act: act, logger: o.logger}
}

func (a *RandomActor) ID() string {
	return a.id
}

func (a *RandomActor) Kind() string {
	return KindRandom
}

func (a *RandomActor) ReactTo(_ []float64) (int, error) {
	return a.act.Sample(), nil
}
