package session

import (
	"testing"
	"time"

	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/stretchr/testify/require"
)

func TestInitialPhase(t *testing.T) {
	s := NewStore(nil)
	require.Equal(t, Unresolved, s.Phase())
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from Phase
		to   Phase
	}{
		{Unresolved, Unauthenticated},
		{Unresolved, Ready},
		{Unresolved, NeedsProfileSetup},
		{Unauthenticated, Authenticating},
		{Authenticating, NeedsProfileSetup},
		{Authenticating, Ready},
		{Authenticating, Unauthenticated},
		{NeedsProfileSetup, Ready},
		{NeedsProfileSetup, Unauthenticated},
		{Ready, Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			s := NewStore(nil)
			walkTo(t, s, tt.from)
			require.NoError(t, s.Transition(tt.to))
			require.Equal(t, tt.to, s.Phase())
		})
	}
}

func TestInvalidTransition(t *testing.T) {
	s := NewStore(nil)
	walkTo(t, s, Unauthenticated)
	require.Error(t, s.Transition(Ready), "UNAUTHENTICATED must not jump straight to READY")
	require.Equal(t, Unauthenticated, s.Phase())
}

// TestFirstRunLifecycle simulates a fresh account: no cached identity, the
// provider authenticates, but the backend reports an incomplete profile.
// Completing setup unlocks the main views.
func TestFirstRunLifecycle(t *testing.T) {
	s := NewStore(nil)

	require.NoError(t, s.Transition(Unauthenticated))
	require.NoError(t, s.Transition(Authenticating))
	require.NoError(t, s.Transition(NeedsProfileSetup))
	require.Equal(t, NeedsProfileSetup, s.Phase())

	require.NoError(t, s.CompleteProfile(&model.User{ID: 1, Username: "ada", ProfileCompleted: true}))
	require.Equal(t, Ready, s.Phase())
	require.Equal(t, int64(1), s.UserID())
}

// TestReturningUserLifecycle simulates a cached identity with a completed
// profile resolving straight to READY.
func TestReturningUserLifecycle(t *testing.T) {
	s := NewStore(nil)
	s.SetUser(&model.User{ID: 4, ProfileCompleted: true})
	require.NoError(t, s.Transition(Ready))
	require.Equal(t, Ready, s.Phase())
}

func TestLogoutFromAnyPhase(t *testing.T) {
	for _, from := range []Phase{Unresolved, Authenticating, NeedsProfileSetup, Ready} {
		t.Run(string(from), func(t *testing.T) {
			s := NewStore(nil)
			walkTo(t, s, from)
			s.SetUser(&model.User{ID: 9})
			s.Logout()
			require.Equal(t, Unauthenticated, s.Phase())
			require.Nil(t, s.User(), "logout must drop the user record")
		})
	}
}

func TestLogoutWhileUnauthenticatedIsNoop(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(10, "session.")
	defer unsub()

	s := NewStore(b)
	walkTo(t, s, Unauthenticated)
	drain(ch)

	s.Logout()
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(10, "session.")
	defer unsub()

	s := NewStore(b)
	require.NoError(t, s.Transition(Unauthenticated))

	evt := <-ch
	require.Equal(t, bus.KindSessionChanged, evt.Kind)
	change, ok := evt.Payload.(PhaseChange)
	require.True(t, ok, "payload type = %T", evt.Payload)
	require.Equal(t, PhaseChange{From: Unresolved, To: Unauthenticated}, change)
}

// walkTo is a helper that transitions the store to a target phase.
func walkTo(t *testing.T, s *Store, target Phase) {
	t.Helper()
	paths := map[Phase][]Phase{
		Unresolved:        {},
		Unauthenticated:   {Unauthenticated},
		Authenticating:    {Unauthenticated, Authenticating},
		NeedsProfileSetup: {Unauthenticated, Authenticating, NeedsProfileSetup},
		Ready:             {Ready},
	}
	for _, p := range paths[target] {
		require.NoError(t, s.Transition(p), "walkTo(%s)", target)
	}
}

func drain(ch <-chan bus.Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
