package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGetActivation(t *testing.T) {
	resetActivationRegistryForTests()
	t.Cleanup(resetActivationRegistryForTests)

	require.NoError(t, RegisterActivation("quad", func(x float64) float64 { return x * x }))
	fn, err := GetActivation("quad")
	require.NoError(t, err)
	assert.Equal(t, 9.0, fn(3))
}

func TestRegisterActivationValidation(t *testing.T) {
	resetActivationRegistryForTests()
	t.Cleanup(resetActivationRegistryForTests)

	assert.Error(t, RegisterActivation("", func(x float64) float64 { return x }))
	assert.Error(t, RegisterActivation("nil", nil))

	err := RegisterActivationWithSpec(ActivationSpec{
		Name:          "bad-version",
		Func:          func(x float64) float64 { return x },
		SchemaVersion: 99,
		CodecVersion:  1,
	})
	assert.ErrorIs(t, err, ErrActivationVersion)
}

func TestRegisterActivationDuplicate(t *testing.T) {
	resetActivationRegistryForTests()
	t.Cleanup(resetActivationRegistryForTests)

	require.NoError(t, RegisterActivation("dup", func(x float64) float64 { return x }))
	assert.ErrorIs(t, RegisterActivation("dup", func(x float64) float64 { return x }), ErrActivationExists)
}

func TestGetActivationNotFound(t *testing.T) {
	_, err := GetActivation("missing")
	assert.ErrorIs(t, err, ErrActivationNotFound)
}

func TestListActivationsSorted(t *testing.T) {
	names := ListActivations()
	assert.Equal(t, []string{ActivationIdentity, ActivationReLU, ActivationSigmoid, ActivationTanh}, names)
}

func TestBuiltInActivations(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{name: ActivationIdentity, x: 2.5, want: 2.5},
		{name: ActivationReLU, x: -1, want: 0},
		{name: ActivationReLU, x: 3, want: 3},
		{name: ActivationTanh, x: 0, want: 0},
		{name: ActivationSigmoid, x: 0, want: 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fn, err := GetActivation(tc.name)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, fn(tc.x), 1e-9)
		})
	}
}
