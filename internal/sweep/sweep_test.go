package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandpile/internal/core"
	"sandpile/internal/sims/sandpile"
)

func smallConfig() sandpile.Config {
	cfg := sandpile.DefaultConfig()
	cfg.Width = 12
	cfg.Height = 10
	return cfg
}

func TestRunMatchesSequentialSimulations(t *testing.T) {
	cfg := smallConfig()
	seeds := Seeds(100, 6)

	results, err := Run(context.Background(), cfg, seeds, Options{Steps: 2500, Workers: 3, KeepHistory: true})
	require.NoError(t, err)
	require.Len(t, results, len(seeds))

	for i, res := range results {
		assert.Equal(t, seeds[i], res.Seed)

		c := cfg
		c.Seed = res.Seed
		sim, err := sandpile.NewSimulation(c)
		require.NoError(t, err)
		records, err := sim.Run(2500)
		require.NoError(t, err)

		assert.Equal(t, records, res.History, "seed %d", res.Seed)
		assert.Equal(t, sim.Grid.Total(), res.Grains)
		assert.Equal(t, sim.Recorder.Summary(), res.Summary)
	}
}

func TestRunPropagatesInvariantFailure(t *testing.T) {
	cfg := smallConfig()
	cfg.Capacity = 1
	_, err := Run(context.Background(), cfg, Seeds(1, 4), Options{Steps: 500})
	assert.ErrorIs(t, err, core.ErrInvariant)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, smallConfig(), Seeds(1, 2), Options{Steps: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunValidatesInput(t *testing.T) {
	_, err := Run(context.Background(), smallConfig(), Seeds(1, 1), Options{Steps: -1})
	assert.ErrorIs(t, err, core.ErrConfig)

	bad := smallConfig()
	bad.Width = 0
	_, err = Run(context.Background(), bad, Seeds(1, 1), Options{Steps: 1})
	assert.ErrorIs(t, err, core.ErrConfig)

	results, err := Run(context.Background(), smallConfig(), nil, Options{Steps: 1})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSeeds(t *testing.T) {
	assert.Equal(t, []int64{5, 6, 7}, Seeds(5, 3))
	assert.Nil(t, Seeds(5, 0))
}
