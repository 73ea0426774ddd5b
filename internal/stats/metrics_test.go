package stats

import (
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genactor/internal/agent"
	"genactor/internal/genotype"
	"genactor/internal/space"
)

func testSpaces(t *testing.T) (*space.BoxSpace, *space.DiscreteSpace) {
	t.Helper()
	obs, err := space.NewUniformBox([]int{3}, -1, 1)
	require.NoError(t, err)
	act, err := space.NewDiscrete(2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return obs, act
}

func TestNewCollectorRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err, "second registration on the same registry must fail")

	_, err = NewCollector(nil)
	assert.NoError(t, err)
}

func TestInstrumentCountsReactions(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	obs, act := testSpaces(t)

	inner, err := agent.NewPerceptronActor(obs, act, agent.WithSeed(4))
	require.NoError(t, err)
	wrapped := Instrument(inner, c)
	require.IsType(t, &InstrumentedGenetic{}, wrapped)
	assert.Equal(t, inner.ID(), wrapped.ID())

	observation := []float64{0.2, -0.4, 0.6}
	want, err := inner.ReactTo(observation)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		got, err := wrapped.ReactTo(observation)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	label := []string{"perceptron", "0"}
	if want == 1 {
		label[1] = "1"
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(c.reactions.WithLabelValues(label...)))

	_, err = wrapped.ReactTo([]float64{1})
	assert.ErrorIs(t, err, agent.ErrObservationSize)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues("perceptron")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.reactions), "failures must not add an action series")
	assert.Equal(t, 1, testutil.CollectAndCount(c.latency))
}

func TestInstrumentNilCollector(t *testing.T) {
	obs, act := testSpaces(t)

	network, err := agent.NewNetworkActor(obs, act, []int{2}, agent.WithSeed(6))
	require.NoError(t, err)
	wrapped := Instrument(network, nil)
	require.IsType(t, &InstrumentedGenetic{}, wrapped)

	require.NotPanics(t, func() {
		_, err = wrapped.ReactTo([]float64{0.1, 0.2, 0.3})
	})
	require.NoError(t, err)
	require.NotPanics(t, func() {
		_, err = wrapped.ReactTo(nil)
	})
	assert.ErrorIs(t, err, agent.ErrObservationSize)
	require.NotPanics(t, func() {
		_, err = wrapped.(agent.Genetic).FromGenome(network.Genome())
	})
	require.NoError(t, err)

	random := Instrument(agent.NewRandomActor(obs, act), nil)
	require.NotPanics(t, func() {
		_, err = random.ReactTo(nil)
	})
	assert.NoError(t, err)
}

func TestInstrumentCountsDecodes(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	obs, act := testSpaces(t)

	inner, err := agent.NewNetworkActor(obs, act, []int{2}, agent.WithSeed(5))
	require.NoError(t, err)
	wrapped := InstrumentGenetic(inner, c)

	assert.Equal(t, inner.Shapes(), wrapped.Shapes())
	assert.Equal(t, inner.Genome(), wrapped.Genome())

	child, err := wrapped.FromGenome(inner.Genome())
	require.NoError(t, err)
	assert.IsType(t, &InstrumentedGenetic{}, child)

	_, err = wrapped.FromRecord(wrapped.Record())
	require.NoError(t, err)

	_, err = wrapped.FromGenome([]float64{0.5})
	assert.ErrorIs(t, err, genotype.ErrGenomeLength)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.decodes.WithLabelValues("network", resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decodes.WithLabelValues("network", resultError)))

	// decoded children report into the same collector
	_, err = child.FromGenome(inner.Genome())
	require.NoError(t, err)
	assert.Equal(t, 3.0, testutil.ToFloat64(c.decodes.WithLabelValues("network", resultOK)))
}

func TestInstrumentRandomActor(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	obs, act := testSpaces(t)

	wrapped := Instrument(agent.NewRandomActor(obs, act), c)
	require.IsType(t, &InstrumentedActor{}, wrapped)

	for i := 0; i < 10; i++ {
		_, err := wrapped.ReactTo(nil)
		require.NoError(t, err)
	}
	total := testutil.ToFloat64(c.reactions.WithLabelValues(agent.KindRandom, "0")) +
		testutil.ToFloat64(c.reactions.WithLabelValues(agent.KindRandom, "1"))
	assert.Equal(t, 10.0, total)
}
