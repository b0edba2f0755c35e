package model

import (
	"context"
	"sync"

	"github.com/nikzart/HTLY/internal/api"
	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/cache"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/session"
	"go.uber.org/zap"
)

// CommentsModel drives the comment panel for one thought at a time. The
// list grows through comment.posted push events; posting a comment never
// inserts the HTTP response, so the same comment cannot land twice.
type CommentsModel struct {
	api     *api.Client
	bus     *bus.Bus
	session *session.Store
	refresh *Refresh
	logger  *zap.Logger
	Flash   *Flash

	cache *cache.Cache[model.Comment]

	mu        sync.Mutex
	thoughtID int64
	unsub     func()
}

// NewCommentsModel creates the comments model with no thought open.
func NewCommentsModel(apiClient *api.Client, b *bus.Bus, sess *session.Store, refresh *Refresh, flash *Flash, logger *zap.Logger) *CommentsModel {
	return &CommentsModel{
		api:     apiClient,
		bus:     b,
		session: sess,
		refresh: refresh,
		logger:  logger,
		Flash:   flash,
		cache:   cache.New(func(c model.Comment) int64 { return c.ID }, cache.Tail),
	}
}

// Open points the panel at a thought and loads its comments.
func (m *CommentsModel) Open(ctx context.Context, thoughtID int64) {
	m.mu.Lock()
	m.thoughtID = thoughtID
	if m.unsub == nil {
		ch, unsub := m.bus.Subscribe(64, "comment.")
		m.unsub = unsub
		go m.consume(ctx, ch)
	}
	m.mu.Unlock()

	go func() {
		err := m.cache.Load(ctx, func(ctx context.Context) ([]model.Comment, error) {
			return m.api.ListComments(ctx, thoughtID)
		})
		if err != nil && ctx.Err() == nil {
			m.logger.Warn("comments load failed", zap.Int64("thought_id", thoughtID), zap.Error(err))
		}
		m.refresh.Signal()
	}()
}

// Close drops the subscription and forgets the open thought.
func (m *CommentsModel) Close() {
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.thoughtID = 0
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// ThoughtID returns the open thought id, or 0.
func (m *CommentsModel) ThoughtID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.thoughtID
}

// Comments returns the current list, oldest first.
func (m *CommentsModel) Comments() []model.Comment {
	return m.cache.Items()
}

// Err returns the last load error, if the most recent load failed.
func (m *CommentsModel) Err() error {
	return m.cache.Err()
}

// Post submits a comment. The realtime push carries the record into the
// list; nothing is inserted here.
func (m *CommentsModel) Post(ctx context.Context, content string) error {
	_, err := m.api.CreateComment(ctx, m.ThoughtID(), m.session.UserID(), content)
	return err
}

func (m *CommentsModel) consume(ctx context.Context, ch <-chan bus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			p, ok := evt.Payload.(model.CommentPosted)
			if !ok || p.ThoughtID != m.ThoughtID() {
				continue
			}
			if m.cache.ApplyCreate(p.Comment) {
				m.refresh.Signal()
			}
		}
	}
}
