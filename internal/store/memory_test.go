package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrontRowWithJ/WeatherBot/internal/interaction"
	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
)

func stateUpdatedAt(ts time.Time) interaction.State {
	return interaction.State{
		Day:        0,
		View:       weather.ViewTemperature,
		Days:       5,
		Location:   "Paris",
		LastUpdate: ts.Unix(),
	}
}

func TestCommitLoadDiscard(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	key := interaction.Key{ChannelID: "c1", MessageID: "m1"}

	_, ok, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	st := stateUpdatedAt(time.Now())
	require.NoError(t, s.Commit(ctx, key, st))

	got, ok, err := s.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, got)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Discard(ctx, key))
	_, ok, err = s.Load(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Discarding again is a no-op.
	require.NoError(t, s.Discard(ctx, key))
}

func TestCommitReplacesState(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	key := interaction.Key{ChannelID: "c1", MessageID: "m1"}

	st := stateUpdatedAt(time.Now())
	require.NoError(t, s.Commit(ctx, key, st))
	st.Day = 3
	require.NoError(t, s.Commit(ctx, key, st))

	got, _, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Day)
	assert.Equal(t, 1, s.Len())
}

func TestSweepExpiredDropsOnlyStaleStates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2024, 8, 26, 12, 0, 0, 0, time.UTC)

	fresh := interaction.Key{ChannelID: "c1", MessageID: "fresh"}
	stale := interaction.Key{ChannelID: "c1", MessageID: "stale"}
	require.NoError(t, s.Commit(ctx, fresh, stateUpdatedAt(now.Add(-10*time.Second))))
	require.NoError(t, s.Commit(ctx, stale, stateUpdatedAt(now.Add(-interaction.MaxIdle))))

	assert.Equal(t, 1, s.SweepExpired(now))
	assert.Equal(t, 1, s.Len())

	_, ok, err := s.Load(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, ok)

	// Nothing left to sweep.
	assert.Equal(t, 0, s.SweepExpired(now))
}
