package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTokens string

func (s staticTokens) Token(_ context.Context) (string, error) {
	return string(s), nil
}

// pushServer is a fake backend socket endpoint that records handshakes and
// pushes canned frames.
type pushServer struct {
	t        *testing.T
	upgrader websocket.Upgrader
	frames   []string
	auths    atomic.Int32
	gotAuth  atomic.Value
}

func (s *pushServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.auths.Add(1)
	s.gotAuth.Store(r.Header.Get("Authorization"))

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.t.Errorf("upgrade: %v", err)
		return
	}
	defer ws.Close()

	for _, f := range s.frames {
		if err := ws.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			return
		}
	}
	// Hold the connection open until the client goes away.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, ch <-chan bus.Event, kind string) bus.Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == kind {
				return evt
			}
		case <-deadline:
			t.Fatalf("no %s event", kind)
		}
	}
}

func TestChannelDeliversPushEvents(t *testing.T) {
	server := &pushServer{
		t: t,
		frames: []string{
			`{"event":"thought_created","data":{"thought":{"id":42,"user_id":7,"content":"hi"}}}`,
			`{"event":"server_maintenance","data":{}}`,
			`{"event":"message_sent","data":{"conversation_id":3,"message":{"id":11,"conversation_id":3,"sender_id":8,"content":"hey"}}}`,
		},
	}
	srv := httptest.NewServer(server)
	defer srv.Close()

	b := bus.New()
	ch, unsub := b.Subscribe(32, "realtime.", "thought.", "message.")
	defer unsub()

	c := NewChannel(wsURL(srv), staticTokens("tok-1"), b, zap.NewNop())
	c.Open(context.Background())
	defer c.Close()

	waitFor(t, ch, bus.KindRealtimeConnected)

	evt := waitFor(t, ch, bus.KindThoughtCreated)
	created := evt.Payload.(model.ThoughtCreated)
	require.Equal(t, int64(42), created.Thought.ID)

	evt = waitFor(t, ch, bus.KindMessageSent)
	sent := evt.Payload.(model.MessageSent)
	require.Equal(t, int64(3), sent.ConversationID)

	require.Equal(t, "Bearer tok-1", server.gotAuth.Load())
}

func TestChannelReconnects(t *testing.T) {
	server := &pushServer{t: t}
	var drops atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Kill the first connection right after the upgrade.
		if drops.Add(1) == 1 {
			ws, err := server.upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			ws.Close()
			return
		}
		server.ServeHTTP(w, r)
	}))
	defer srv.Close()

	b := bus.New()
	ch, unsub := b.Subscribe(32, "realtime.")
	defer unsub()

	c := NewChannel(wsURL(srv), staticTokens("tok"), b, zap.NewNop())
	c.Open(context.Background())
	defer c.Close()

	waitFor(t, ch, bus.KindRealtimeConnected)
	evt := waitFor(t, ch, bus.KindRealtimeDisconnected)
	require.False(t, evt.Payload.(Disconnected).Final)
	waitFor(t, ch, bus.KindRealtimeConnected)
	require.GreaterOrEqual(t, drops.Load(), int32(2))
}

func TestChannelGivesUpAfterBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := bus.New()
	ch, unsub := b.Subscribe(32, "realtime.")
	defer unsub()

	c := NewChannel(wsURL(srv), staticTokens("tok"), b, zap.NewNop())
	c.Open(context.Background())
	defer c.Close()

	deadline := time.After(60 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == bus.KindRealtimeDisconnected && evt.Payload.(Disconnected).Final {
				return
			}
		case <-deadline:
			t.Fatal("channel never gave up")
		}
	}
}

func TestCloseIdempotent(t *testing.T) {
	server := &pushServer{t: t}
	srv := httptest.NewServer(server)
	defer srv.Close()

	b := bus.New()
	ch, unsub := b.Subscribe(8, "realtime.")
	defer unsub()

	c := NewChannel(wsURL(srv), staticTokens("tok"), b, zap.NewNop())
	c.Close() // never opened

	c.Open(context.Background())
	c.Open(context.Background()) // second open is a no-op
	waitFor(t, ch, bus.KindRealtimeConnected)
	c.Close()
	c.Close()
	require.EqualValues(t, 1, server.auths.Load())
}
