package genactor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpaces(t *testing.T) (Box, Discrete) {
	t.Helper()
	obs, err := NewBox([]int{5}, []float64{0, 0, 0, 0, 0}, []float64{1, 1, 1, 1, 1})
	require.NoError(t, err)
	act, err := NewDiscrete(2, 3)
	require.NoError(t, err)
	return obs, act
}

func TestClientFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_version: 1\ncodec_version: 1\nkind: network\nhidden_layers: [4, 3]\nseed: 5\n"), 0o644))

	reg := prometheus.NewRegistry()
	client, err := New(Options{ConfigPath: path, Registerer: reg, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, KindNetwork, client.Spec().Kind)

	obs, act := testSpaces(t)
	template, err := client.NewGenetic(obs, act)
	require.NoError(t, err)
	assert.Equal(t, []Shape{{Out: 4, In: 5}, {Out: 3, In: 4}, {Out: 2, In: 3}}, template.Shapes())

	genome := template.Genome()
	require.Len(t, genome, 38)

	actors, err := client.DecodeAll(context.Background(), template, [][]float64{genome, genome})
	require.NoError(t, err)
	require.Len(t, actors, 2)
	for _, a := range actors {
		assert.InDeltaSlice(t, genome, a.Genome(), 1e-12)
	}

	action, err := actors[0].ReactTo([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
	require.NoError(t, err)
	assert.Contains(t, []int{0, 1}, action)

	count, err := testutil.GatherAndCount(reg, "genactor_genome_decodes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClientDefaultIsPerceptron(t *testing.T) {
	client, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, KindPerceptron, client.Spec().Kind)

	obs, act := testSpaces(t)
	a, err := client.NewGenetic(obs, act)
	require.NoError(t, err)
	assert.Len(t, a.Genome(), 10)

	_, err = a.ReactTo([]float64{1})
	assert.ErrorIs(t, err, ErrObservationSize)
}

func TestClientRandomKindHasNoGenome(t *testing.T) {
	client, err := NewWithSpec(NewSpec(KindRandom), Options{})
	require.NoError(t, err)

	obs, act := testSpaces(t)
	a, err := client.NewActor(obs, act)
	require.NoError(t, err)
	action, err := a.ReactTo(nil)
	require.NoError(t, err)
	assert.Contains(t, []int{0, 1}, action)

	_, err = client.NewGenetic(obs, act)
	assert.Error(t, err)
}

func TestClientUnknownKind(t *testing.T) {
	_, err := NewWithSpec(NewSpec("lstm"), Options{})
	assert.ErrorIs(t, err, ErrKindNotFound)
}

func TestSeededClientDrawsDistinctActors(t *testing.T) {
	spec := NewSpec(KindNetwork, 3)
	spec.Seed = 11
	obs, act := testSpaces(t)

	build := func() [][]float64 {
		client, err := NewWithSpec(spec, Options{})
		require.NoError(t, err)
		genomes := make([][]float64, 0, 3)
		for i := 0; i < 3; i++ {
			g, err := client.NewGenetic(obs, act)
			require.NoError(t, err)
			genomes = append(genomes, g.Genome())
		}
		return genomes
	}

	first := build()
	assert.NotEqual(t, first[0], first[1])
	assert.NotEqual(t, first[1], first[2])
	assert.Equal(t, first, build(), "same seed must give the same actor sequence")
}

func TestClientNetworkActivation(t *testing.T) {
	spec := NewSpec(KindNetwork, 2)
	spec.Activation = "tanh"
	client, err := NewWithSpec(spec, Options{})
	require.NoError(t, err)

	obs, act := testSpaces(t)
	a, err := client.NewActor(obs, act)
	require.NoError(t, err)
	_, err = a.ReactTo([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
	require.NoError(t, err)

	spec.Activation = "softsign"
	_, err = NewWithSpec(spec, Options{})
	assert.Error(t, err)
}
