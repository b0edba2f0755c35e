package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type entry struct {
	ID      int64
	Content string
	Likes   int
}

func newEntryCache(d Direction) *Cache[entry] {
	return New(func(e entry) int64 { return e.ID }, d)
}

func ids(items []entry) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestApplyCreateHead(t *testing.T) {
	c := newEntryCache(Head)
	c.ApplyCreate(entry{ID: 1})
	c.ApplyCreate(entry{ID: 2})
	require.Equal(t, []int64{2, 1}, ids(c.Items()))
}

func TestApplyCreateTail(t *testing.T) {
	c := newEntryCache(Tail)
	c.ApplyCreate(entry{ID: 1})
	c.ApplyCreate(entry{ID: 2})
	require.Equal(t, []int64{1, 2}, ids(c.Items()))
}

func TestNoDuplicateIDs(t *testing.T) {
	c := newEntryCache(Head)
	c.Replace([]entry{{ID: 1}, {ID: 2}})

	// Interleave creates, updates and deletes with a concurrent reload and
	// verify uniqueness holds throughout.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			c.ApplyCreate(entry{ID: int64(i % 5)})
			c.ApplyUpdate(int64(i%5), func(e entry) entry { e.Likes++; return e })
			c.ApplyDelete(int64(i % 3))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			c.Replace([]entry{{ID: 1}, {ID: 2}, {ID: 3}})
		}
	}()
	wg.Wait()

	seen := make(map[int64]bool)
	for _, id := range ids(c.Items()) {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestCreateIdempotent(t *testing.T) {
	c := newEntryCache(Head)
	require.True(t, c.ApplyCreate(entry{ID: 7, Content: "a"}))
	require.False(t, c.ApplyCreate(entry{ID: 7, Content: "a"}))
	require.Equal(t, 1, c.Len())
}

func TestDeleteIdempotent(t *testing.T) {
	c := newEntryCache(Head)
	c.ApplyCreate(entry{ID: 7})
	require.True(t, c.ApplyDelete(7))
	require.False(t, c.ApplyDelete(7))
	require.Equal(t, 0, c.Len())
}

func TestUpdateIdenticalPatchStable(t *testing.T) {
	c := newEntryCache(Head)
	c.ApplyCreate(entry{ID: 7, Likes: 1})

	patch := func(e entry) entry { e.Likes = 4; return e }
	require.True(t, c.ApplyUpdate(7, patch))
	v := c.Version()
	require.False(t, c.ApplyUpdate(7, patch))
	require.Equal(t, v, c.Version())

	got, ok := c.Get(7)
	require.True(t, ok)
	require.Equal(t, 4, got.Likes)
}

func TestUpdateAbsentIDNoop(t *testing.T) {
	c := newEntryCache(Head)
	require.False(t, c.ApplyUpdate(99, func(e entry) entry { e.Likes++; return e }))
}

func TestApplyDeleteWhere(t *testing.T) {
	c := newEntryCache(Head)
	c.Replace([]entry{{ID: 1, Likes: 9}, {ID: 2}, {ID: 3, Likes: 9}})
	removed := c.ApplyDeleteWhere(func(e entry) bool { return e.Likes == 9 })
	require.Equal(t, 2, removed)
	require.Equal(t, []int64{2}, ids(c.Items()))

	require.Zero(t, c.ApplyDeleteWhere(func(e entry) bool { return e.Likes == 9 }))
}

// TestStaleLoadDiscarded covers the tab-switch race: load A is initiated,
// then load B; B resolves first, then A resolves with stale content. The
// cache must retain B's result.
func TestStaleLoadDiscarded(t *testing.T) {
	c := newEntryCache(Head)

	releaseA := make(chan struct{})
	aDone := make(chan error, 1)

	go func() {
		aDone <- c.Load(context.Background(), func(context.Context) ([]entry, error) {
			<-releaseA
			return []entry{{ID: 1}, {ID: 2}}, nil
		})
	}()
	// Give A's goroutine time to initiate its load.
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, c.Load(context.Background(), func(context.Context) ([]entry, error) {
		return []entry{{ID: 1}}, nil
	}))

	close(releaseA)
	require.NoError(t, <-aDone)

	require.Equal(t, []int64{1}, ids(c.Items()))
}

func TestFailedLoadKeepsContent(t *testing.T) {
	c := newEntryCache(Head)
	require.NoError(t, c.Load(context.Background(), func(context.Context) ([]entry, error) {
		return []entry{{ID: 1}}, nil
	}))

	fetchErr := errors.New("backend down")
	err := c.Load(context.Background(), func(context.Context) ([]entry, error) {
		return nil, fetchErr
	})
	require.ErrorIs(t, err, fetchErr)
	require.ErrorIs(t, c.Err(), fetchErr)
	require.Equal(t, []int64{1}, ids(c.Items()))

	// Next successful load clears the error.
	require.NoError(t, c.Load(context.Background(), func(context.Context) ([]entry, error) {
		return []entry{{ID: 1}}, nil
	}))
	require.NoError(t, c.Err())
}

func TestReplaceEqualContentKeepsVersion(t *testing.T) {
	c := newEntryCache(Head)
	c.Replace([]entry{{ID: 1, Content: "x"}})
	v := c.Version()
	c.Replace([]entry{{ID: 1, Content: "x"}})
	require.Equal(t, v, c.Version())
	c.Replace([]entry{{ID: 1, Content: "y"}})
	require.Equal(t, v+1, c.Version())
}

func TestLoadKeepsEntriesCreatedWhileInFlight(t *testing.T) {
	c := newEntryCache(Tail)

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(), func(context.Context) ([]entry, error) {
			<-release
			return []entry{}, nil
		})
	}()
	// Give the goroutine time to initiate its load.
	time.Sleep(20 * time.Millisecond)

	// A push lands while the fetch is in flight; the pre-push snapshot
	// must not wipe it.
	require.True(t, c.ApplyCreate(entry{ID: 50, Content: "hey"}))
	close(release)
	require.NoError(t, <-done)

	require.Equal(t, []int64{50}, ids(c.Items()))
}

func TestLoadMergePrefersSnapshotForKnownIDs(t *testing.T) {
	c := newEntryCache(Tail)

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(), func(context.Context) ([]entry, error) {
			<-release
			return []entry{{ID: 1}, {ID: 50, Likes: 3}}, nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	c.ApplyCreate(entry{ID: 50})
	close(release)
	require.NoError(t, <-done)

	require.Equal(t, []int64{1, 50}, ids(c.Items()))
	got, ok := c.Get(50)
	require.True(t, ok)
	require.Equal(t, 3, got.Likes, "the fetched snapshot is authoritative for ids it carries")
}

func TestLoadDoesNotResurrectDeletedInFlightCreate(t *testing.T) {
	c := newEntryCache(Head)

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(), func(context.Context) ([]entry, error) {
			<-release
			return []entry{}, nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	c.ApplyCreate(entry{ID: 50})
	c.ApplyDelete(50)
	close(release)
	require.NoError(t, <-done)

	require.Empty(t, c.Items())
}

func TestApplyCreateAt(t *testing.T) {
	c := newEntryCache(Head)
	c.Replace([]entry{{ID: 1}, {ID: 2}, {ID: 3}})

	require.True(t, c.ApplyCreateAt(1, entry{ID: 4}))
	require.Equal(t, []int64{1, 4, 2, 3}, ids(c.Items()))

	// Duplicate ids are still a no-op.
	require.False(t, c.ApplyCreateAt(0, entry{ID: 4}))

	// Out-of-range positions clamp.
	require.True(t, c.ApplyCreateAt(99, entry{ID: 5}))
	require.Equal(t, []int64{1, 4, 2, 3, 5}, ids(c.Items()))
}

func TestResetInvalidatesInFlightLoad(t *testing.T) {
	c := newEntryCache(Tail)
	c.Replace([]entry{{ID: 1}})

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(), func(context.Context) ([]entry, error) {
			<-release
			return []entry{{ID: 1}, {ID: 2}}, nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	c.Reset()
	close(release)
	require.NoError(t, <-done)

	require.Empty(t, c.Items(), "a load initiated before the reset must not install its result")
	require.False(t, c.Loaded())
	require.NoError(t, c.Err())
}
