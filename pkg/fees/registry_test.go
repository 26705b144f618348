package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DefaultIsNoFee(t *testing.T) {
	r := NewRegistry()
	s, err := r.Resolve("")
	require.NoError(t, err)
	assert.IsType(t, NoFee{}, s)
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	flat, err := NewFlat(d("1"))
	require.NoError(t, err)
	r.Register(StrategyFlat, flat)

	s, err := r.Resolve(StrategyFlat)
	require.NoError(t, err)
	assert.Same(t, flat, s)

	require.NoError(t, r.SetDefault(StrategyFlat))
	s, err = r.Resolve("")
	require.NoError(t, err)
	assert.Same(t, flat, s)

	assert.Equal(t, []string{StrategyFlat, StrategyNone}, r.Names())
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("bogus")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.ErrorIs(t, r.SetDefault("bogus"), ErrUnknownStrategy)
}
