// Package cache implements the id-keyed, order-preserving list cache every
// view materializes a server-owned collection into. Two producers feed it:
// on-demand/periodic loads replacing the whole list, and push-event patches
// applied entry by entry. All patch operations are idempotent so duplicate
// or re-ordered push delivery is harmless.
package cache

import (
	"context"
	"reflect"
	"sync"
)

// Direction controls where ApplyCreate inserts new entries.
type Direction int

const (
	// Head inserts new entries first (reverse-chronological feeds).
	Head Direction = iota
	// Tail appends new entries last (chronological message threads).
	Tail
)

// Cache holds a locally materialized view of one backend collection.
type Cache[T any] struct {
	mu        sync.RWMutex
	idOf      func(T) int64
	direction Direction

	items   []T
	index   map[int64]int
	version uint64
	loaded  bool
	loadErr error

	// loadSeq orders load initiations so a stale response can never
	// overwrite the result of a load initiated after it.
	loadSeq uint64

	// createdDuringLoad tracks ids inserted by ApplyCreate while a load is
	// in flight. The resolving snapshot merges them back in instead of
	// wiping them, since the fetch may predate the insert.
	createdDuringLoad map[int64]struct{}
}

// New creates an empty cache. idOf extracts the entity id used for
// uniqueness and patch addressing.
func New[T any](idOf func(T) int64, direction Direction) *Cache[T] {
	return &Cache[T]{
		idOf:      idOf,
		direction: direction,
		index:     make(map[int64]int),
	}
}

// Load fetches the full collection and replaces the cache with the result.
// If another Load was initiated after this one, this result is discarded
// regardless of which resolved first (last-initiated-wins). Entries created
// by patches while the fetch was in flight survive the replacement, since
// the snapshot may predate them. A failed fetch keeps the previous content
// in place and records the error.
func (c *Cache[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.createdDuringLoad = make(map[int64]struct{})
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		// A newer load was initiated while this one was in flight.
		return nil
	}
	if err != nil {
		c.createdDuringLoad = nil
		c.loadErr = err
		return err
	}
	c.loadErr = nil
	c.loaded = true
	c.replaceLocked(c.mergeInFlightCreatesLocked(items))
	c.createdDuringLoad = nil
	return nil
}

// mergeInFlightCreatesLocked folds entries created while the load was in
// flight into the fetched snapshot. The snapshot wins for ids it already
// carries; the rest keep their current value and their insert direction.
func (c *Cache[T]) mergeInFlightCreatesLocked(items []T) []T {
	if len(c.createdDuringLoad) == 0 {
		return items
	}
	fetched := make(map[int64]struct{}, len(items))
	for _, item := range items {
		fetched[c.idOf(item)] = struct{}{}
	}
	var extra []T
	for _, item := range c.items {
		id := c.idOf(item)
		if _, created := c.createdDuringLoad[id]; !created {
			continue
		}
		if _, ok := fetched[id]; ok {
			continue
		}
		extra = append(extra, item)
	}
	if len(extra) == 0 {
		return items
	}
	if c.direction == Head {
		return append(extra, items...)
	}
	merged := make([]T, 0, len(items)+len(extra))
	merged = append(merged, items...)
	return append(merged, extra...)
}

// Replace installs items as the new cache content. The visible state only
// changes when the content actually differs, so pollers that re-fetch an
// unchanged collection do not trigger downstream re-renders.
func (c *Cache[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	c.replaceLocked(items)
}

func (c *Cache[T]) replaceLocked(items []T) {
	if reflect.DeepEqual(c.items, items) {
		return
	}
	c.items = make([]T, len(items))
	copy(c.items, items)
	c.reindexLocked()
	c.version++
}

// ApplyCreate inserts the entity if its id is not present; duplicate ids
// are a no-op.
func (c *Cache[T]) ApplyCreate(item T) bool {
	id := c.idOf(item)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[id]; ok {
		return false
	}
	if c.direction == Head {
		c.items = append([]T{item}, c.items...)
	} else {
		c.items = append(c.items, item)
	}
	if c.createdDuringLoad != nil {
		c.createdDuringLoad[id] = struct{}{}
	}
	c.reindexLocked()
	c.version++
	return true
}

// ApplyCreateAt inserts the entity at the given position, clamped to the
// list bounds; duplicate ids are a no-op. Rollbacks use it to restore an
// entry where it was before an optimistic removal.
func (c *Cache[T]) ApplyCreateAt(pos int, item T) bool {
	id := c.idOf(item)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[id]; ok {
		return false
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(c.items) {
		pos = len(c.items)
	}
	c.items = append(c.items[:pos], append([]T{item}, c.items[pos:]...)...)
	if c.createdDuringLoad != nil {
		c.createdDuringLoad[id] = struct{}{}
	}
	c.reindexLocked()
	c.version++
	return true
}

// ApplyUpdate merges a patch into the entry with the given id via fn.
// An absent id is a no-op, never an error.
func (c *Cache[T]) ApplyUpdate(id int64, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return false
	}
	updated := fn(c.items[i])
	if reflect.DeepEqual(c.items[i], updated) {
		return false
	}
	c.items[i] = updated
	c.version++
	return true
}

// ApplyDelete removes the entry with the given id; absent ids are a no-op.
func (c *Cache[T]) ApplyDelete(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.createdDuringLoad, id)
	c.reindexLocked()
	c.version++
	return true
}

// ApplyDeleteWhere removes every entry matching pred, returning the number
// removed.
func (c *Cache[T]) ApplyDeleteWhere(pred func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if pred(item) {
			delete(c.createdDuringLoad, c.idOf(item))
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return 0
	}
	c.items = kept
	c.reindexLocked()
	c.version++
	return removed
}

// Items returns a snapshot copy of the cache content in order.
func (c *Cache[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the entry with the given id.
func (c *Cache[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.index[id]; ok {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// IndexOf returns the position of the entry with the given id.
func (c *Cache[T]) IndexOf(id int64) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	return i, ok
}

// Reset drops all content and load state, and invalidates any load still
// in flight so it cannot resurrect the discarded content.
func (c *Cache[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadSeq++
	c.createdDuringLoad = nil
	c.loadErr = nil
	if len(c.items) == 0 && !c.loaded {
		return
	}
	c.items = nil
	c.loaded = false
	c.reindexLocked()
	c.version++
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Version increments on every visible content change; views compare it to
// decide whether to re-render.
func (c *Cache[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Loaded reports whether at least one load has succeeded. Views use it to
// distinguish an initial load (show a spinner) from a silent refresh.
func (c *Cache[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Err returns the error from the most recent failed load, cleared by the
// next successful one.
func (c *Cache[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

func (c *Cache[T]) reindexLocked() {
	c.index = make(map[int64]int, len(c.items))
	for i, item := range c.items {
		c.index[c.idOf(item)] = i
	}
}
