package model

// ThoughtPatch lists exactly the thought fields a push event may alter.
// A nil field leaves the cached value untouched, so a counter update can
// never clobber the caller's own is_liked/is_saved flags.
type ThoughtPatch struct {
	LikeCount    *int
	CommentCount *int
	IsLiked      *bool
	IsSaved      *bool
}

// Apply merges the patch into a copy of t and returns it.
func (p ThoughtPatch) Apply(t Thought) Thought {
	if p.LikeCount != nil {
		t.LikeCount = *p.LikeCount
	}
	if p.CommentCount != nil {
		t.CommentCount = *p.CommentCount
	}
	if p.IsLiked != nil {
		t.IsLiked = *p.IsLiked
	}
	if p.IsSaved != nil {
		t.IsSaved = *p.IsSaved
	}
	return t
}

// ConversationPatch lists the conversation fields updated when a message
// arrives for a closed conversation.
type ConversationPatch struct {
	LastMessage   *string
	LastMessageAt *string
	UnreadDelta   int
}

// Apply merges the patch into a copy of c and returns it. The unread count
// never goes below zero.
func (p ConversationPatch) Apply(c Conversation) Conversation {
	if p.LastMessage != nil {
		c.LastMessage = *p.LastMessage
	}
	if p.LastMessageAt != nil {
		c.LastMessageAt = *p.LastMessageAt
	}
	c.UnreadCount += p.UnreadDelta
	if c.UnreadCount < 0 {
		c.UnreadCount = 0
	}
	return c
}

// IntPtr is a convenience for building patches.
func IntPtr(v int) *int { return &v }

// BoolPtr is a convenience for building patches.
func BoolPtr(v bool) *bool { return &v }

// StringPtr is a convenience for building patches.
func StringPtr(v string) *string { return &v }
