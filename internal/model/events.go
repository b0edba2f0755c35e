package model

// Push-event payloads. Each carries enough of the affected entity for a
// cache to patch itself without a re-fetch.

// ThoughtCreated is the payload for "thought.created".
type ThoughtCreated struct {
	Thought Thought `json:"thought"`
}

// ThoughtDeleted is the payload for "thought.deleted".
type ThoughtDeleted struct {
	ThoughtID int64 `json:"thought_id"`
}

// ThoughtsBulkDeleted is the payload for "thought.bulk_deleted". All thoughts
// authored by UserID are gone.
type ThoughtsBulkDeleted struct {
	UserID int64 `json:"user_id"`
	Count  int   `json:"count"`
}

// ThoughtReaction is the payload for "thought.liked" and "thought.unliked".
// The embedded thought carries the new counters as the backend sees them.
type ThoughtReaction struct {
	ThoughtID int64   `json:"thought_id"`
	Thought   Thought `json:"thought"`
}

// CommentPosted is the payload for "comment.posted".
type CommentPosted struct {
	ThoughtID int64   `json:"thought_id"`
	Comment   Comment `json:"comment"`
}

// MessageSent is the payload for "message.sent".
type MessageSent struct {
	ConversationID int64   `json:"conversation_id"`
	Message        Message `json:"message"`
}
