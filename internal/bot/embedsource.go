package bot

import (
	"context"
	"log"

	"github.com/FrontRowWithJ/WeatherBot/internal/interaction"
)

// embedSource re-derives interaction state from the footer of the posted
// message itself. The message is the source of truth, so the bot stays
// stateless across restarts at the cost of one message fetch per event.
type embedSource struct {
	platform Platform
}

func (s *embedSource) Load(ctx context.Context, key interaction.Key) (interaction.State, bool, error) {
	footer, err := s.platform.MessageFooter(ctx, key.ChannelID, key.MessageID)
	if err != nil {
		// Deleted or unreadable message: nothing to track.
		return interaction.State{}, false, nil
	}
	if footer == "" {
		return interaction.State{}, false, nil
	}
	st, err := interaction.DecodeState(footer)
	if err != nil {
		log.Printf("ERROR: undecodable state on %s/%s: %v", key.ChannelID, key.MessageID, err)
		return interaction.State{}, false, nil
	}
	return st, true, nil
}

// Commit is a no-op: the updated state travels inside the footer written
// by the message edit.
func (s *embedSource) Commit(ctx context.Context, key interaction.Key, st interaction.State) error {
	return nil
}

// Discard is a no-op: closing deletes the message, and expired state on a
// surviving message stays inert.
func (s *embedSource) Discard(ctx context.Context, key interaction.Key) error {
	return nil
}
