package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRefresher struct {
	access  string
	refresh string
	err     error
	calls   int
}

func (f *fakeRefresher) RefreshToken(_ context.Context, _ string) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return f.access, f.refresh, nil
}

// signToken mints an unvalidated HS256 token with the given expiry; only
// the exp claim matters to the client.
func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
		"sub": "7",
	})
	signed, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func newCreds(t *testing.T, ident *Identity) *Credentials {
	t.Helper()
	path := filepath.Join(t.TempDir(), "identity.json")
	if ident != nil {
		require.NoError(t, SaveIdentity(path, ident))
	}
	creds, err := NewCredentials(path, zap.NewNop())
	require.NoError(t, err)
	return creds
}

func TestTokenNoIdentity(t *testing.T) {
	creds := newCreds(t, nil)
	_, err := creds.Token(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestTokenFreshPassthrough(t *testing.T) {
	access := signToken(t, time.Now().Add(time.Hour))
	creds := newCreds(t, &Identity{UserID: 7, AccessToken: access, RefreshToken: "rt"})
	ref := &fakeRefresher{}
	creds.SetRefresher(ref)

	got, err := creds.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, access, got)
	require.Zero(t, ref.calls, "a fresh token must not trigger a refresh")
}

func TestTokenRefreshesExpired(t *testing.T) {
	expired := signToken(t, time.Now().Add(-time.Minute))
	fresh := signToken(t, time.Now().Add(time.Hour))
	creds := newCreds(t, &Identity{UserID: 7, AccessToken: expired, RefreshToken: "rt"})
	creds.SetRefresher(&fakeRefresher{access: fresh, refresh: "rt2"})

	got, err := creds.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)

	// The refreshed pair must survive a restart.
	reloaded, err := LoadIdentity(creds.path)
	require.NoError(t, err)
	require.Equal(t, fresh, reloaded.AccessToken)
	require.Equal(t, "rt2", reloaded.RefreshToken)
}

func TestTokenRefreshesInsideSkew(t *testing.T) {
	almost := signToken(t, time.Now().Add(10*time.Second))
	fresh := signToken(t, time.Now().Add(time.Hour))
	creds := newCreds(t, &Identity{UserID: 7, AccessToken: almost, RefreshToken: "rt"})
	ref := &fakeRefresher{access: fresh}
	creds.SetRefresher(ref)

	got, err := creds.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)
	require.Equal(t, 1, ref.calls)
}

func TestTokenRefreshRejected(t *testing.T) {
	expired := signToken(t, time.Now().Add(-time.Minute))
	creds := newCreds(t, &Identity{UserID: 7, AccessToken: expired, RefreshToken: "rt"})
	creds.SetRefresher(&fakeRefresher{err: errors.New("revoked")})

	_, err := creds.Token(context.Background())
	require.ErrorIs(t, err, ErrNoCredential, "a rejected refresh must fail closed")
}

func TestTokenExpiredNoRefresher(t *testing.T) {
	expired := signToken(t, time.Now().Add(-time.Minute))
	creds := newCreds(t, &Identity{UserID: 7, AccessToken: expired})

	_, err := creds.Token(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestClearDropsCredential(t *testing.T) {
	access := signToken(t, time.Now().Add(time.Hour))
	creds := newCreds(t, &Identity{UserID: 7, AccessToken: access})
	require.True(t, creds.HasIdentity())

	require.NoError(t, creds.Clear())
	require.False(t, creds.HasIdentity())
	_, err := creds.Token(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}
