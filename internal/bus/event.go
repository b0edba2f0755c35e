package bus

import "time"

// Event kinds delivered on the bus. Kinds are dot-namespaced so a view can
// subscribe to a whole family ("thought.") or a single kind.
const (
	KindSessionChanged       = "session.changed"
	KindRealtimeConnected    = "realtime.connected"
	KindRealtimeDisconnected = "realtime.disconnected"
	KindThoughtCreated       = "thought.created"
	KindThoughtDeleted       = "thought.deleted"
	KindThoughtsBulkDeleted  = "thought.bulk_deleted"
	KindThoughtLiked         = "thought.liked"
	KindThoughtUnliked       = "thought.unliked"
	KindCommentPosted        = "comment.posted"
	KindMessageSent          = "message.sent"
)

// Event is a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
