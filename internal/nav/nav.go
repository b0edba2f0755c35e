// Package nav tracks which primary view is active. It is pure state; the
// TUI shell reads it and renders, nothing here touches the screen.
package nav

import "sync"

// View identifies a primary view.
type View string

const (
	ViewFeed         View = "feed"
	ViewThoughtmates View = "thoughtmates"
	ViewChats        View = "chats"
	ViewProfile      View = "profile"
)

// Order is the fixed left-to-right view order.
var Order = []View{ViewFeed, ViewThoughtmates, ViewChats, ViewProfile}

// Direction is the transition direction between two views, derived from
// their ordinal distance.
type Direction int

const (
	DirNone Direction = iota
	DirForward
	DirBackward
)

// Navigator holds the active view and the chat-thread selection.
type Navigator struct {
	mu       sync.Mutex
	active   View
	threadID int64
}

// New creates a navigator starting on the feed.
func New() *Navigator {
	return &Navigator{active: ViewFeed}
}

// Active returns the current view.
func (n *Navigator) Active() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// ThreadID returns the selected conversation id, or 0 when no thread is
// open.
func (n *Navigator) ThreadID() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.threadID
}

// Select activates a primary view and reports the transition direction.
// Selecting the active view is a no-op. Any thread selection and back state
// is dropped; the primary views are peers, not a stack.
func (n *Navigator) Select(v View) Direction {
	n.mu.Lock()
	defer n.mu.Unlock()
	if v == n.active {
		return DirNone
	}

	dir := DirForward
	if ordinal(v) < ordinal(n.active) {
		dir = DirBackward
	}
	n.active = v
	n.threadID = 0
	return dir
}

// OpenConversation jumps to the chats view with a thread selected. It works
// from every view and always lands in the same place, so prior back state
// is cleared rather than accumulated.
func (n *Navigator) OpenConversation(conversationID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = ViewChats
	n.threadID = conversationID
}

// Back closes an open thread and returns to the conversation list. Reports
// whether there was anything to go back from.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.threadID == 0 {
		return false
	}
	n.threadID = 0
	return true
}

func ordinal(v View) int {
	for i, o := range Order {
		if o == v {
			return i
		}
	}
	return -1
}
