package model

import (
	"context"
	"sync"
	"time"

	"github.com/nikzart/HTLY/internal/api"
	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/cache"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/session"
	"go.uber.org/zap"
)

// FeedTab identifies one of the feed's four source lists.
type FeedTab string

const (
	TabForYou    FeedTab = "for_you"
	TabNews      FeedTab = "news"
	TabFollowing FeedTab = "following"
	TabSaved     FeedTab = "saved"
)

// FeedTabs is the fixed tab order.
var FeedTabs = []FeedTab{TabForYou, TabNews, TabFollowing, TabSaved}

// FeedModel drives the feed view: one thought cache fed by tab loads,
// polling and push patches, plus the write actions a thought card offers.
type FeedModel struct {
	api     *api.Client
	bus     *bus.Bus
	session *session.Store
	refresh *Refresh
	logger  *zap.Logger
	Flash   *Flash

	cache  *cache.Cache[model.Thought]
	poller *cache.Poller

	mu    sync.Mutex
	tab   FeedTab
	unsub func()
}

// NewFeedModel creates the feed model starting on the for-you tab.
func NewFeedModel(apiClient *api.Client, b *bus.Bus, sess *session.Store, refresh *Refresh, flash *Flash, logger *zap.Logger) *FeedModel {
	m := &FeedModel{
		api:     apiClient,
		bus:     b,
		session: sess,
		refresh: refresh,
		logger:  logger,
		Flash:   flash,
		cache:   cache.New(func(t model.Thought) int64 { return t.ID }, cache.Head),
		tab:     TabForYou,
	}
	m.poller = cache.NewPoller(func(ctx context.Context) {
		m.load(ctx)
		refresh.Signal()
	})
	return m
}

// Start loads the feed, begins polling and subscribes to push events.
// Stop undoes all of it.
func (m *FeedModel) Start(ctx context.Context, pollEvery time.Duration) {
	ch, unsub := m.bus.Subscribe(64, "thought.", "comment.")
	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()

	go m.consume(ctx, ch)
	go func() {
		m.load(ctx)
		m.refresh.Signal()
	}()
	m.poller.Start(ctx, pollEvery)
}

// SetPollInterval retunes the poll cadence. The shell halves it while the
// realtime channel is down.
func (m *FeedModel) SetPollInterval(d time.Duration) {
	m.poller.SetInterval(d)
}

// Stop halts polling and drops the push subscription.
func (m *FeedModel) Stop() {
	m.poller.Stop()
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Tab returns the active tab.
func (m *FeedModel) Tab() FeedTab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tab
}

// SwitchTab activates a tab and kicks off its load. The thoughts of the
// previous tab stay visible until the new list lands; a straggling response
// from the old tab can never overwrite it.
func (m *FeedModel) SwitchTab(ctx context.Context, tab FeedTab) {
	m.mu.Lock()
	if m.tab == tab {
		m.mu.Unlock()
		return
	}
	m.tab = tab
	m.mu.Unlock()

	go func() {
		m.load(ctx)
		m.refresh.Signal()
	}()
}

// Thoughts returns the current list.
func (m *FeedModel) Thoughts() []model.Thought {
	return m.cache.Items()
}

// Err returns the last load error, if the most recent load failed.
func (m *FeedModel) Err() error {
	return m.cache.Err()
}

// ToggleLike flips the like state of a thought optimistically and confirms
// with the backend, rolling the patch back when the write fails.
func (m *FeedModel) ToggleLike(ctx context.Context, thoughtID int64) {
	t, ok := m.cache.Get(thoughtID)
	if !ok {
		return
	}
	wasLiked := t.IsLiked

	delta := 1
	if wasLiked {
		delta = -1
	}
	m.cache.ApplyUpdate(thoughtID, func(t model.Thought) model.Thought {
		t.IsLiked = !wasLiked
		t.LikeCount += delta
		return t
	})
	m.refresh.Signal()

	go func() {
		var err error
		if wasLiked {
			err = m.api.UnlikeThought(ctx, thoughtID, m.session.UserID())
		} else {
			err = m.api.LikeThought(ctx, thoughtID, m.session.UserID())
		}
		if err != nil {
			m.logger.Warn("toggle like failed", zap.Int64("thought_id", thoughtID), zap.Error(err))
			m.cache.ApplyUpdate(thoughtID, func(t model.Thought) model.Thought {
				t.IsLiked = wasLiked
				t.LikeCount -= delta
				return t
			})
			m.Flash.Set("Could not update like", flashError)
			m.refresh.Signal()
		}
	}()
}

// ToggleSave flips the saved flag optimistically, rolling back on failure.
// On the saved tab an unsave also removes the entry from the list.
func (m *FeedModel) ToggleSave(ctx context.Context, thoughtID int64) {
	t, ok := m.cache.Get(thoughtID)
	if !ok {
		return
	}
	wasSaved := t.IsSaved

	m.cache.ApplyUpdate(thoughtID, func(t model.Thought) model.Thought {
		t.IsSaved = !wasSaved
		return t
	})
	pos, _ := m.cache.IndexOf(thoughtID)
	if m.Tab() == TabSaved && wasSaved {
		m.cache.ApplyDelete(thoughtID)
	}
	m.refresh.Signal()

	go func() {
		var err error
		if wasSaved {
			err = m.api.UnsaveThought(ctx, thoughtID, m.session.UserID())
		} else {
			err = m.api.SaveThought(ctx, thoughtID, m.session.UserID())
		}
		if err != nil {
			m.logger.Warn("toggle save failed", zap.Int64("thought_id", thoughtID), zap.Error(err))
			if m.Tab() == TabSaved && wasSaved {
				// Restore the row where it was, not at the head.
				t.IsSaved = wasSaved
				m.cache.ApplyCreateAt(pos, t)
			} else {
				m.cache.ApplyUpdate(thoughtID, func(t model.Thought) model.Thought {
					t.IsSaved = wasSaved
					return t
				})
			}
			m.Flash.Set("Could not update save", flashError)
			m.refresh.Signal()
		}
	}()
}

// Post publishes a new thought and refetches the list; the feed never
// inserts the HTTP response directly.
func (m *FeedModel) Post(ctx context.Context, content string) error {
	if _, err := m.api.CreateThought(ctx, m.session.UserID(), content); err != nil {
		return err
	}
	go func() {
		m.load(ctx)
		m.refresh.Signal()
	}()
	return nil
}

func (m *FeedModel) load(ctx context.Context) {
	tab := m.Tab()
	err := m.cache.Load(ctx, func(ctx context.Context) ([]model.Thought, error) {
		userID := m.session.UserID()
		switch tab {
		case TabNews:
			return m.api.ListTrendingThoughts(ctx, userID)
		case TabFollowing:
			return m.api.ListFollowingThoughts(ctx, userID)
		case TabSaved:
			return m.api.ListSavedThoughts(ctx, userID)
		default:
			return m.api.ListThoughts(ctx, userID)
		}
	})
	if err != nil && ctx.Err() == nil {
		m.logger.Warn("feed load failed", zap.String("tab", string(tab)), zap.Error(err))
	}
}

func (m *FeedModel) consume(ctx context.Context, ch <-chan bus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if m.apply(evt) {
				m.refresh.Signal()
			}
		}
	}
}

// apply patches the cache from one push event. Reports whether anything
// changed.
func (m *FeedModel) apply(evt bus.Event) bool {
	switch p := evt.Payload.(type) {
	case model.ThoughtCreated:
		// New thoughts only belong on the unfiltered tab; the filtered
		// tabs pick them up on their next poll.
		if m.Tab() != TabForYou {
			return false
		}
		return m.cache.ApplyCreate(p.Thought)
	case model.ThoughtDeleted:
		return m.cache.ApplyDelete(p.ThoughtID)
	case model.ThoughtsBulkDeleted:
		return m.cache.ApplyDeleteWhere(func(t model.Thought) bool {
			return t.UserID == p.UserID
		}) > 0
	case model.ThoughtReaction:
		// Only the count is trusted; is_liked is the viewer's own state
		// and the push payload does not know who is watching.
		patch := model.ThoughtPatch{LikeCount: model.IntPtr(p.Thought.LikeCount)}
		return m.cache.ApplyUpdate(p.ThoughtID, patch.Apply)
	case model.CommentPosted:
		return m.cache.ApplyUpdate(p.ThoughtID, func(t model.Thought) model.Thought {
			return model.ThoughtPatch{CommentCount: model.IntPtr(t.CommentCount + 1)}.Apply(t)
		})
	}
	return false
}
