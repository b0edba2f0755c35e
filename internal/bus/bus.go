// Package bus is the in-process fan-out point between the realtime channel,
// the session store and the view models. Both producers (push events and
// local mutations) and all consumers meet here.
package bus

import (
	"strings"
	"sync"
	"time"
)

// Bus is an in-process publish/subscribe event bus with namespace filtering.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]*subscription
	next int
}

type subscription struct {
	namespaces []string
	ch         chan Event
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		subs: make(map[int]*subscription),
	}
}

// Publish sends an event with the given kind and payload to every subscriber
// whose namespace is a prefix of kind. Delivery is non-blocking: a subscriber
// that has fallen behind loses the event, which is safe because every
// consumer is backstopped by polling.
func (b *Bus) Publish(kind string, payload any) {
	evt := Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		for _, ns := range sub.namespaces {
			if strings.HasPrefix(evt.Kind, ns) {
				select {
				case sub.ch <- evt:
				default:
				}
				break
			}
		}
	}
}

// Subscribe returns a channel that receives events matching any of the given
// namespace prefixes, and an unsubscribe function. Callers must unsubscribe
// on teardown so a dismissed view never patches a cache it no longer owns.
func (b *Bus) Subscribe(bufSize int, namespaces ...string) (<-chan Event, func()) {
	ch := make(chan Event, bufSize)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = &subscription{namespaces: namespaces, ch: ch}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
