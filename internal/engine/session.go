package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/talgya/tribelands/internal/game"
)

// Session serializes access to a live game: action submission between turns
// and the turn resolution itself. One Session owns one game's state; all
// mutation goes through it.
type Session struct {
	mu      sync.Mutex
	state   *game.GameState
	env     *Env
	pending map[string][]game.GameAction
}

func NewSession(state *game.GameState, env *Env) *Session {
	return &Session{
		state:   state,
		env:     env,
		pending: make(map[string][]game.GameAction),
	}
}

// State returns a deep copy of the committed state. Callers may inspect or
// serialize it freely without racing resolution.
func (s *Session) State() *game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Turn returns the committed turn number.
func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Turn
}

// SubmitActions queues a tribe's orders for the next resolution, replacing
// any queue the tribe submitted earlier this turn.
func (s *Session) SubmitActions(tribeID string, actions []game.GameAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Tribe(tribeID) == nil {
		return fmt.Errorf("no such tribe %q", tribeID)
	}
	s.pending[tribeID] = actions
	return nil
}

// HasSubmitted reports whether a tribe has queued orders this turn.
func (s *Session) HasSubmitted(tribeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[tribeID]
	return ok
}

// ResolveTurn commits one turn using the queued submissions. Resolution runs
// off the calling goroutine so a deadline on ctx can abandon a wedged turn;
// an abandoned turn commits nothing and leaves the queues intact for retry.
func (s *Session) ResolveTurn(ctx context.Context) (*game.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	submitted := s.pending

	type outcome struct {
		next *game.GameState
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		next, err := ResolveTurn(prev, submitted, s.env)
		ch <- outcome{next, err}
	}()

	select {
	case <-ctx.Done():
		return prev.Clone(), fmt.Errorf("turn resolution abandoned: %w", ctx.Err())
	case out := <-ch:
		if out.err != nil {
			return prev.Clone(), out.err
		}
		s.state = out.next
		s.pending = make(map[string][]game.GameAction)
		return out.next.Clone(), nil
	}
}
