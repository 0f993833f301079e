package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrontRowWithJ/WeatherBot/internal/interaction"
	"github.com/FrontRowWithJ/WeatherBot/internal/store"
	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
)

func TestJanitorSweepsExpiredStates(t *testing.T) {
	s := store.NewMemoryStore()
	key := interaction.Key{ChannelID: "c1", MessageID: "stale"}
	require.NoError(t, s.Commit(context.Background(), key, interaction.State{
		View:       weather.ViewTemperature,
		Days:       5,
		LastUpdate: time.Now().Add(-2 * interaction.MaxIdle).Unix(),
	}))

	j := New(s, 10*time.Millisecond)
	require.NoError(t, j.Start())
	defer j.Stop()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestJanitorKeepsFreshStates(t *testing.T) {
	s := store.NewMemoryStore()
	key := interaction.Key{ChannelID: "c1", MessageID: "fresh"}
	require.NoError(t, s.Commit(context.Background(), key, interaction.State{
		View:       weather.ViewTemperature,
		Days:       5,
		LastUpdate: time.Now().Unix(),
	}))

	j := New(s, 10*time.Millisecond)
	require.NoError(t, j.Start())
	defer j.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, s.Len())
}
