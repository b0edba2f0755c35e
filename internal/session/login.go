package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DeviceAuthorization is the identity provider's answer to a device-flow
// start: the user visits the verification URL (rendered as a QR code in the
// TUI) and enters the user code.
type DeviceAuthorization struct {
	DeviceCode      string
	UserCode        string
	VerificationURL string
	Interval        time.Duration
	ExpiresIn       time.Duration
}

// TokenGrant is the token pair issued once the user approves the device.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
}

// ErrAuthorizationPending is returned by PollDeviceToken while the user has
// not yet approved the device.
var ErrAuthorizationPending = errors.New("authorization pending")

// Authenticator is the identity provider's device-flow surface.
type Authenticator interface {
	StartDeviceAuth(ctx context.Context) (*DeviceAuthorization, error)
	PollDeviceToken(ctx context.Context, deviceCode string) (*TokenGrant, error)
}

// AuthEventType enumerates login flow event types.
type AuthEventType string

const (
	AuthEventVerification  AuthEventType = "verification"
	AuthEventAuthenticated AuthEventType = "authenticated"
	AuthEventNeedsSetup    AuthEventType = "needs_setup"
	AuthEventFailed        AuthEventType = "auth_failed"
	AuthEventTimeout       AuthEventType = "timeout"
)

// AuthEvent represents a login flow lifecycle event.
type AuthEvent struct {
	Type            AuthEventType
	VerificationURL string
	UserCode        string
	Message         string
}

// StartLogin begins the device-authorization login flow and streams events
// until it terminates. The caller should read until the channel closes.
// On success the identity marker is persisted and the store lands on
// NeedsProfileSetup or Ready; on any failure it returns to Unauthenticated.
func (s *Store) StartLogin(ctx context.Context, auth Authenticator, creds *Credentials, probe Prober, logger *zap.Logger) (<-chan AuthEvent, error) {
	if err := s.Transition(Authenticating); err != nil {
		return nil, err
	}

	out := make(chan AuthEvent, 10)

	go func() {
		defer close(out)

		fail := func(t AuthEventType, msg string) {
			logger.Warn("login failed", zap.String("reason", msg))
			_ = s.Transition(Unauthenticated)
			out <- AuthEvent{Type: t, Message: msg}
		}

		da, err := auth.StartDeviceAuth(ctx)
		if err != nil {
			fail(AuthEventFailed, err.Error())
			return
		}
		out <- AuthEvent{
			Type:            AuthEventVerification,
			VerificationURL: da.VerificationURL,
			UserCode:        da.UserCode,
		}

		interval := da.Interval
		if interval <= 0 {
			interval = 3 * time.Second
		}
		deadline := time.Now().Add(da.ExpiresIn)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				fail(AuthEventFailed, "login cancelled")
				return
			case <-ticker.C:
			}
			if da.ExpiresIn > 0 && time.Now().After(deadline) {
				fail(AuthEventTimeout, "device authorization expired")
				return
			}

			grant, err := auth.PollDeviceToken(ctx, da.DeviceCode)
			if errors.Is(err, ErrAuthorizationPending) {
				continue
			}
			if err != nil {
				fail(AuthEventFailed, err.Error())
				return
			}

			if err := creds.SetIdentity(&Identity{
				UserID:       grant.UserID,
				AccessToken:  grant.AccessToken,
				RefreshToken: grant.RefreshToken,
			}); err != nil {
				logger.Warn("persist identity", zap.Error(err))
			}

			user, err := probe.Me(ctx)
			if err != nil {
				_ = creds.Clear()
				fail(AuthEventFailed, err.Error())
				return
			}
			s.SetUser(user)

			if !user.ProfileCompleted {
				_ = s.Transition(NeedsProfileSetup)
				out <- AuthEvent{Type: AuthEventNeedsSetup}
				return
			}
			_ = s.Transition(Ready)
			out <- AuthEvent{Type: AuthEventAuthenticated}
			return
		}
	}()

	return out, nil
}
