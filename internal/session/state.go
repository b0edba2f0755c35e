// Package session owns the authenticated identity and the bootstrap state
// machine that gates every other component. Nothing renders and nothing
// talks to the network here beyond the interfaces it is handed.
package session

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/model"
)

// Phase represents a session bootstrap phase.
type Phase string

const (
	Unresolved        Phase = "UNRESOLVED"
	Unauthenticated   Phase = "UNAUTHENTICATED"
	Authenticating    Phase = "AUTHENTICATING"
	NeedsProfileSetup Phase = "NEEDS_PROFILE_SETUP"
	Ready             Phase = "READY"
)

// validTransitions defines allowed phase transitions. Logout is legal from
// every phase, so Unauthenticated appears everywhere.
var validTransitions = map[Phase][]Phase{
	Unresolved:        {Unauthenticated, NeedsProfileSetup, Ready},
	Unauthenticated:   {Authenticating},
	Authenticating:    {Unauthenticated, NeedsProfileSetup, Ready},
	NeedsProfileSetup: {Ready, Unauthenticated},
	Ready:             {Unauthenticated},
}

// PhaseChange is the payload for "session.changed" events.
type PhaseChange struct {
	From Phase
	To   Phase
}

// Store tracks the session phase and the authenticated user record.
type Store struct {
	mu     sync.RWMutex
	phase  Phase
	user   *model.User
	bus    *bus.Bus
}

// NewStore creates a session store starting in the Unresolved phase.
func NewStore(b *bus.Bus) *Store {
	return &Store{
		phase: Unresolved,
		bus:   b,
	}
}

// Phase returns the current phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// User returns the authenticated (or partial, during profile setup) user
// record, or nil.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser attaches the user record to the session.
func (s *Store) SetUser(u *model.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// UserID returns the authenticated user's id, or 0 when none is attached.
func (s *Store) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// Transition attempts to move to a new phase. Returns an error if the
// transition is invalid; publishes "session.changed" otherwise.
func (s *Store) Transition(to Phase) error {
	s.mu.Lock()
	allowed := validTransitions[s.phase]
	if !slices.Contains(allowed, to) {
		from := s.phase
		s.mu.Unlock()
		return fmt.Errorf("invalid session transition from %s to %s", from, to)
	}
	from := s.phase
	s.phase = to
	if to == Unauthenticated {
		s.user = nil
	}
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(bus.KindSessionChanged, PhaseChange{From: from, To: to})
	}
	return nil
}

// Logout forces the session to Unauthenticated from any phase and drops the
// user record. A logout while already unauthenticated is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.phase == Unauthenticated {
		s.mu.Unlock()
		return
	}
	from := s.phase
	s.phase = Unauthenticated
	s.user = nil
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(bus.KindSessionChanged, PhaseChange{From: from, To: Unauthenticated})
	}
}
