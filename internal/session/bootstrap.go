package session

import (
	"context"
	"fmt"

	"github.com/nikzart/HTLY/internal/model"
	"go.uber.org/zap"
)

// Prober reports the backend's view of the authenticated account.
type Prober interface {
	Me(ctx context.Context) (*model.User, error)
}

// Bootstrap resolves the Unresolved phase at startup. It checks the cached
// identity marker, asks the backend who the caller is and lands on exactly
// one of Unauthenticated, NeedsProfileSetup or Ready. The store is never
// left Unresolved: any failure forces Unauthenticated so the login flow can
// take over.
func (s *Store) Bootstrap(ctx context.Context, creds *Credentials, probe Prober, logger *zap.Logger) error {
	if s.Phase() != Unresolved {
		return fmt.Errorf("bootstrap from phase %s", s.Phase())
	}

	if !creds.HasIdentity() {
		return s.Transition(Unauthenticated)
	}

	user, err := probe.Me(ctx)
	if err != nil {
		logger.Warn("cached identity rejected", zap.Error(err))
		_ = creds.Clear()
		// The client's auth-failure hook may already have forced the
		// phase; Logout tolerates that where Transition would not.
		s.Logout()
		return nil
	}

	s.SetUser(user)
	if !user.ProfileCompleted {
		return s.Transition(NeedsProfileSetup)
	}
	return s.Transition(Ready)
}

// CompleteProfile records a finished profile setup and unlocks the primary
// views.
func (s *Store) CompleteProfile(user *model.User) error {
	s.SetUser(user)
	return s.Transition(Ready)
}
