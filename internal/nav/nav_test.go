package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartsOnFeed(t *testing.T) {
	n := New()
	require.Equal(t, ViewFeed, n.Active())
	require.Zero(t, n.ThreadID())
}

func TestSelectDirection(t *testing.T) {
	tests := []struct {
		from View
		to   View
		want Direction
	}{
		{ViewFeed, ViewChats, DirForward},
		{ViewChats, ViewFeed, DirBackward},
		{ViewFeed, ViewProfile, DirForward},
		{ViewProfile, ViewThoughtmates, DirBackward},
		{ViewFeed, ViewFeed, DirNone},
	}
	for _, tt := range tests {
		n := New()
		n.Select(tt.from)
		got := n.Select(tt.to)
		require.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
		if tt.want != DirNone {
			require.Equal(t, tt.to, n.Active())
		}
	}
}

func TestOpenConversationFromAnyView(t *testing.T) {
	for _, from := range Order {
		n := New()
		n.Select(from)
		n.OpenConversation(3)
		require.Equal(t, ViewChats, n.Active(), "from %s", from)
		require.Equal(t, int64(3), n.ThreadID())
	}
}

func TestOpenConversationReplacesSelection(t *testing.T) {
	n := New()
	n.OpenConversation(3)
	n.OpenConversation(5)
	require.Equal(t, int64(5), n.ThreadID())

	// One Back returns to the list, never to the previous thread.
	require.True(t, n.Back())
	require.Zero(t, n.ThreadID())
	require.Equal(t, ViewChats, n.Active())
	require.False(t, n.Back())
}

func TestSelectDropsThread(t *testing.T) {
	n := New()
	n.OpenConversation(3)
	n.Select(ViewFeed)
	require.Zero(t, n.ThreadID())
	require.False(t, n.Back())
}
