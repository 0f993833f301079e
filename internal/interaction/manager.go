package interaction

import (
	"context"
	"log"
	"sync"
	"time"
)

// Source owns the interaction state behind rendered messages. The
// in-memory store keeps it keyed by message; the stateless variant
// re-derives it from the message itself.
type Source interface {
	Load(ctx context.Context, key Key) (State, bool, error)
	Commit(ctx context.Context, key Key, st State) error
	Discard(ctx context.Context, key Key) error
}

// Presenter applies the visible side effects of a transition on the chat
// platform. Every call is fallible network I/O.
type Presenter interface {
	// Update re-renders the chart for st and edits the backing message.
	Update(ctx context.Context, key Key, st State) error
	// Close deletes the backing message.
	Close(ctx context.Context, key Key) error
	// Ack removes the triggering reaction mark so the control stays
	// reusable.
	Ack(ctx context.Context, key Key, sym Symbol, userID string) error
}

// Manager serializes transitions per message key. Reactions on the same
// message apply atomically in arrival order; unrelated messages proceed in
// parallel.
type Manager struct {
	source    Source
	presenter Presenter
	now       func() time.Time

	mu    sync.Mutex
	locks map[Key]*sync.Mutex
}

func NewManager(source Source, presenter Presenter) *Manager {
	return &Manager{
		source:    source,
		presenter: presenter,
		now:       time.Now,
		locks:     make(map[Key]*sync.Mutex),
	}
}

func (m *Manager) keyLock(key Key) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

func (m *Manager) dropLock(key Key) {
	m.mu.Lock()
	delete(m.locks, key)
	m.mu.Unlock()
}

// HandleReaction applies one reaction event end to end: load state, apply
// the transition, perform the side effects, commit. The per-key mutex is
// held across the whole sequence so a concurrent reaction on the same
// message observes the post-transition state, never a stale snapshot.
func (m *Manager) HandleReaction(ctx context.Context, key Key, sym Symbol, userID string) error {
	if !sym.Known() {
		return nil
	}

	l := m.keyLock(key)
	l.Lock()
	defer l.Unlock()

	st, ok, err := m.source.Load(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		// Not a message we track (or already closed).
		return nil
	}

	next, decision := Transition(st, sym, m.now())
	switch decision {
	case DecisionExpire:
		if err := m.source.Discard(ctx, key); err != nil {
			return err
		}
		m.dropLock(key)
	case DecisionClose:
		if err := m.presenter.Close(ctx, key); err != nil {
			// The message survived; keep the state so a later cross can
			// retry.
			log.Printf("ERROR: close %s/%s: %v", key.ChannelID, key.MessageID, err)
			return err
		}
		if err := m.source.Discard(ctx, key); err != nil {
			return err
		}
		m.dropLock(key)
		// The message is gone; there is no reaction left to clear.
		return nil
	case DecisionUpdate:
		if err := m.presenter.Update(ctx, key, next); err != nil {
			// Leave the committed state untouched: the next reaction
			// retries the edit implicitly.
			log.Printf("ERROR: update %s/%s: %v", key.ChannelID, key.MessageID, err)
		} else if err := m.source.Commit(ctx, key, next); err != nil {
			return err
		}
	}

	return m.presenter.Ack(ctx, key, sym, userID)
}

// Track registers freshly created state for a newly posted message.
func (m *Manager) Track(ctx context.Context, key Key, st State) error {
	l := m.keyLock(key)
	l.Lock()
	defer l.Unlock()
	return m.source.Commit(ctx, key, st)
}
