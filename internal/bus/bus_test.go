package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "session.")
	defer unsub()

	b.Publish(KindSessionChanged, "test")

	select {
	case evt := <-ch:
		require.Equal(t, KindSessionChanged, evt.Kind)
		require.Equal(t, "test", evt.Payload)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "realtime.")
	defer unsub()

	b.Publish(KindSessionChanged, nil)
	b.Publish(KindRealtimeConnected, nil)

	select {
	case evt := <-ch:
		require.Equal(t, KindRealtimeConnected, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// The session event must not have been delivered.
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMultipleNamespaces(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "thought.", "comment.")
	defer unsub()

	b.Publish(KindThoughtCreated, nil)
	b.Publish(KindMessageSent, nil)
	b.Publish(KindCommentPosted, nil)

	var kinds []string
	for len(kinds) < 2 {
		select {
		case evt := <-ch:
			kinds = append(kinds, evt.Kind)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for events")
		}
	}
	require.Equal(t, []string{KindThoughtCreated, KindCommentPosted}, kinds)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "session.")
	unsub()

	b.Publish(KindSessionChanged, nil)

	select {
	case evt := <-ch:
		t.Fatalf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(1, "thought.")
	defer unsub()

	// Fill the buffer, then publish one more that must be dropped.
	b.Publish(KindThoughtLiked, 1)
	b.Publish(KindThoughtLiked, 2)

	evt := <-ch
	require.Equal(t, 1, evt.Payload)

	select {
	case evt := <-ch:
		t.Fatalf("expected drop, got %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}
