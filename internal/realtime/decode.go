package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/model"
)

// frame is the wire envelope for push events.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// errUnknownEvent marks wire events this client version does not know;
// the read loop skips them instead of dropping the connection.
var errUnknownEvent = fmt.Errorf("unknown event")

// decodeFrame maps a wire frame onto a bus kind and its typed payload.
func decodeFrame(raw []byte) (string, any, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", nil, fmt.Errorf("decode frame: %w", err)
	}

	switch f.Event {
	case "thought_created":
		var p model.ThoughtCreated
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return "", nil, fmt.Errorf("decode %s data: %w", f.Event, err)
		}
		return bus.KindThoughtCreated, p, nil
	case "thought_deleted":
		var p model.ThoughtDeleted
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return "", nil, fmt.Errorf("decode %s data: %w", f.Event, err)
		}
		return bus.KindThoughtDeleted, p, nil
	case "thoughts_bulk_deleted":
		var p model.ThoughtsBulkDeleted
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return "", nil, fmt.Errorf("decode %s data: %w", f.Event, err)
		}
		return bus.KindThoughtsBulkDeleted, p, nil
	case "thought_liked":
		var p model.ThoughtReaction
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return "", nil, fmt.Errorf("decode %s data: %w", f.Event, err)
		}
		return bus.KindThoughtLiked, p, nil
	case "thought_unliked":
		var p model.ThoughtReaction
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return "", nil, fmt.Errorf("decode %s data: %w", f.Event, err)
		}
		return bus.KindThoughtUnliked, p, nil
	case "comment_posted":
		var p model.CommentPosted
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return "", nil, fmt.Errorf("decode %s data: %w", f.Event, err)
		}
		return bus.KindCommentPosted, p, nil
	case "message_sent":
		var p model.MessageSent
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return "", nil, fmt.Errorf("decode %s data: %w", f.Event, err)
		}
		return bus.KindMessageSent, p, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", errUnknownEvent, f.Event)
	}
}
