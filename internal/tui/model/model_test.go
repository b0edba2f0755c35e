package model

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nikzart/HTLY/internal/api"
	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/session"
	"go.uber.org/zap"
)

type staticTokens struct{}

func (staticTokens) Token(_ context.Context) (string, error) {
	return "test-token", nil
}

// env wires a fake backend, a bus and a signed-in session for model tests.
type env struct {
	api     *api.Client
	bus     *bus.Bus
	session *session.Store
	refresh *Refresh
	flash   *Flash
	logger  *zap.Logger
}

func newEnv(t *testing.T, handler http.Handler) *env {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := session.NewStore(nil)
	sess.SetUser(&model.User{ID: 7, Username: "ada", ProfileCompleted: true})
	if err := sess.Transition(session.Ready); err != nil {
		t.Fatal(err)
	}

	client := api.New(srv.URL+"/api", staticTokens{}, zap.NewNop())
	client.OnAuthFailure(sess.Logout)

	return &env{
		api:     client,
		bus:     bus.New(),
		session: sess,
		refresh: NewRefresh(),
		flash:   &Flash{},
		logger:  zap.NewNop(),
	}
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
