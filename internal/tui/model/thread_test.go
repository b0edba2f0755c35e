package model

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/stretchr/testify/require"
)

func TestThreadLoadsOnOpen(t *testing.T) {
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/conversations/3/messages", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("user_id"))
		msgs := []model.Message{{ID: 1, ConversationID: 3, SenderID: 9, Content: "hi"}}
		data, _ := json.Marshal(msgs)
		w.Write(data)
	}))

	m := NewThreadModel(e.api, e.bus, e.session, e.refresh, e.flash, e.logger)
	m.Open(context.Background(), 3, time.Hour)
	defer m.Close()

	waitUntil(t, func() bool { return len(m.Messages()) == 1 }, "messages never loaded")
}

// A sent message must appear exactly once even when both the write
// response and the push event for the same id arrive.
func TestSendDedupesWriteResponseAndPush(t *testing.T) {
	var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":50,"conversation_id":3,"sender_id":7,"content":"hey"}`))
			return
		}
		w.Write([]byte(`[]`))
	}
	e := newEnv(t, handler)

	m := NewThreadModel(e.api, e.bus, e.session, e.refresh, e.flash, e.logger)
	m.Open(context.Background(), 3, time.Hour)
	defer m.Close()

	require.NoError(t, m.Send(context.Background(), "hey"))
	require.Len(t, m.Messages(), 1)

	// The push for the same message arrives after the write response.
	e.bus.Publish(bus.KindMessageSent, model.MessageSent{
		ConversationID: 3,
		Message:        model.Message{ID: 50, ConversationID: 3, SenderID: 7, Content: "hey"},
	})
	time.Sleep(50 * time.Millisecond)
	require.Len(t, m.Messages(), 1, "the same message id landed twice")
}

func TestPushBeforeWriteResponseAlsoDedupes(t *testing.T) {
	release := make(chan struct{})
	var releaseOnce sync.Once
	unblock := func() { releaseOnce.Do(func() { close(release) }) }

	var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			<-release
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":50,"conversation_id":3,"sender_id":7,"content":"hey"}`))
			return
		}
		w.Write([]byte(`[]`))
	}
	e := newEnv(t, handler)
	// A failed assertion must still unblock the handler or the server
	// cannot shut down. Registered after newEnv so it runs before the
	// server's Close cleanup (cleanups run last-in-first-out).
	t.Cleanup(unblock)

	m := NewThreadModel(e.api, e.bus, e.session, e.refresh, e.flash, e.logger)
	m.Open(context.Background(), 3, time.Hour)
	defer m.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- m.Send(context.Background(), "hey") }()

	// Push lands while the write is still in flight. Even if the initial
	// message load resolves afterwards, its snapshot must not wipe it.
	e.bus.Publish(bus.KindMessageSent, model.MessageSent{
		ConversationID: 3,
		Message:        model.Message{ID: 50, ConversationID: 3, SenderID: 7, Content: "hey"},
	})
	waitUntil(t, func() bool { return len(m.Messages()) == 1 }, "push never landed")

	unblock()
	require.NoError(t, <-errCh)
	require.Len(t, m.Messages(), 1, "the same message id landed twice")
}

func TestSendFailureReturnsError(t *testing.T) {
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))

	m := NewThreadModel(e.api, e.bus, e.session, e.refresh, e.flash, e.logger)
	m.Open(context.Background(), 3, time.Hour)
	defer m.Close()

	require.Error(t, m.Send(context.Background(), "hey"), "the view restores the composer text on error")
	require.Empty(t, m.Messages())
}

func TestOtherConversationPushIgnored(t *testing.T) {
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))

	m := NewThreadModel(e.api, e.bus, e.session, e.refresh, e.flash, e.logger)
	m.Open(context.Background(), 3, time.Hour)
	defer m.Close()

	e.bus.Publish(bus.KindMessageSent, model.MessageSent{
		ConversationID: 9,
		Message:        model.Message{ID: 50, ConversationID: 9, SenderID: 8, Content: "elsewhere"},
	})
	time.Sleep(50 * time.Millisecond)
	require.Empty(t, m.Messages())
}

// Switching conversations must not show the previous partner's messages
// while the new load is still in flight.
func TestOpenNewConversationClearsOldMessages(t *testing.T) {
	release := make(chan struct{})
	var releaseOnce sync.Once
	unblock := func() { releaseOnce.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/conversations/4/") {
			<-release
			w.Write([]byte(`[{"id":9,"conversation_id":4,"sender_id":8,"content":"new"}]`))
			return
		}
		msgs := []model.Message{{ID: 1, ConversationID: 3, SenderID: 9, Content: "old"}}
		data, _ := json.Marshal(msgs)
		w.Write(data)
	}))

	m := NewThreadModel(e.api, e.bus, e.session, e.refresh, e.flash, e.logger)
	m.Open(context.Background(), 3, time.Hour)
	defer m.Close()
	waitUntil(t, func() bool { return len(m.Messages()) == 1 }, "first thread never loaded")

	m.Open(context.Background(), 4, time.Hour)
	require.Empty(t, m.Messages(), "the previous conversation's messages leaked into the new one")

	unblock()
	waitUntil(t, func() bool { return len(m.Messages()) == 1 }, "second thread never loaded")
	require.Equal(t, int64(9), m.Messages()[0].ID)
}

func TestCloseForgetsMessages(t *testing.T) {
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id":1,"conversation_id":3,"sender_id":9,"content":"hi"}]`))
	}))

	m := NewThreadModel(e.api, e.bus, e.session, e.refresh, e.flash, e.logger)
	m.Open(context.Background(), 3, time.Hour)
	waitUntil(t, func() bool { return len(m.Messages()) == 1 }, "messages never loaded")

	m.Close()
	require.Empty(t, m.Messages())
}
