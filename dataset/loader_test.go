package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdash/config"
	"bizdash/datagen"
)

func newTestGenerator(t *testing.T) *datagen.Generator {
	t.Helper()
	gen, err := datagen.New(datagen.DefaultOptions())
	require.NoError(t, err)
	return gen
}

func TestSyntheticLoaderFixedSeedIsReproducible(t *testing.T) {
	gen := newTestGenerator(t)
	loader := NewSyntheticLoader(gen, 50, 6, 42, true)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Customers, second.Customers)
	assert.Equal(t, first.Revenue, second.Revenue)
}

func TestSyntheticLoaderUnpinnedSeedVaries(t *testing.T) {
	gen := newTestGenerator(t)
	loader := NewSyntheticLoader(gen, 50, 6, 0, false)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Seed, second.Seed)
}

func TestForSource(t *testing.T) {
	gen := newTestGenerator(t)

	t.Run("synthetic", func(t *testing.T) {
		cfg := &config.Config{DataSource: config.DataSourceSynthetic, CustomerRows: 10, RevenueMonths: 3}
		loader, err := ForSource(cfg, gen, nil)
		require.NoError(t, err)
		assert.IsType(t, &SyntheticLoader{}, loader)
	})

	t.Run("database without connection", func(t *testing.T) {
		cfg := &config.Config{DataSource: config.DataSourceDatabase}
		_, err := ForSource(cfg, gen, nil)
		assert.Error(t, err)
	})

	t.Run("unknown source", func(t *testing.T) {
		cfg := &config.Config{DataSource: config.DataSource("csv")}
		_, err := ForSource(cfg, gen, nil)
		assert.Error(t, err)
	})
}
