package model

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikzart/HTLY/internal/api"
	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/cache"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/session"
	"go.uber.org/zap"
)

// ThreadModel drives the open conversation's message list. Messages append
// chronologically; a sent message may arrive twice (write response plus
// push event) and lands exactly once because the cache keys by id.
type ThreadModel struct {
	api     *api.Client
	bus     *bus.Bus
	session *session.Store
	refresh *Refresh
	logger  *zap.Logger
	Flash   *Flash

	cache  *cache.Cache[model.Message]
	poller *cache.Poller

	mu             sync.Mutex
	conversationID int64
	unsub          func()
}

// NewThreadModel creates the message thread model with no conversation
// open.
func NewThreadModel(apiClient *api.Client, b *bus.Bus, sess *session.Store, refresh *Refresh, flash *Flash, logger *zap.Logger) *ThreadModel {
	m := &ThreadModel{
		api:     apiClient,
		bus:     b,
		session: sess,
		refresh: refresh,
		logger:  logger,
		Flash:   flash,
		cache:   cache.New(func(msg model.Message) int64 { return msg.ID }, cache.Tail),
	}
	m.poller = cache.NewPoller(func(ctx context.Context) {
		m.load(ctx)
		refresh.Signal()
	})
	return m
}

// Open points the thread at a conversation, loads its messages and starts
// the fast poll that backstops missed pushes.
func (m *ThreadModel) Open(ctx context.Context, conversationID int64, pollEvery time.Duration) {
	m.mu.Lock()
	if m.conversationID != conversationID {
		// The previous conversation's messages must never render under
		// the new partner's title, not even until the load lands.
		m.cache.Reset()
	}
	m.conversationID = conversationID
	if m.unsub == nil {
		ch, unsub := m.bus.Subscribe(64, "message.")
		m.unsub = unsub
		go m.consume(ctx, ch)
	}
	m.mu.Unlock()

	go func() {
		m.load(ctx)
		m.refresh.Signal()
	}()
	m.poller.Start(ctx, pollEvery)
}

// SetPollInterval retunes the poll cadence of an open thread. The shell
// halves it while the realtime channel is down.
func (m *ThreadModel) SetPollInterval(d time.Duration) {
	if m.ConversationID() == 0 {
		return
	}
	m.poller.SetInterval(d)
}

// Close stops polling, drops the subscription and forgets the
// conversation.
func (m *ThreadModel) Close() {
	m.poller.Stop()
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.conversationID = 0
	m.cache.Reset()
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// ConversationID returns the open conversation id, or 0.
func (m *ThreadModel) ConversationID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conversationID
}

// Messages returns the current list, oldest first.
func (m *ThreadModel) Messages() []model.Message {
	return m.cache.Items()
}

// Err returns the last load error, if the most recent load failed.
func (m *ThreadModel) Err() error {
	return m.cache.Err()
}

// Send posts a message. The composer clears before the write settles; a
// failure returns the error so the view can restore the typed text. Every
// send carries a fresh idempotency key so a client retry cannot double-post.
func (m *ThreadModel) Send(ctx context.Context, content string) error {
	msg, err := m.api.SendMessage(ctx, m.ConversationID(), m.session.UserID(), content, uuid.NewString())
	if err != nil {
		m.logger.Warn("send message failed", zap.Error(err))
		return err
	}
	// The push event for our own message may have landed already; the
	// id-keyed create makes the second arrival a no-op.
	if m.cache.ApplyCreate(*msg) {
		m.refresh.Signal()
	}
	return nil
}

func (m *ThreadModel) load(ctx context.Context) {
	id := m.ConversationID()
	if id == 0 {
		return
	}
	err := m.cache.Load(ctx, func(ctx context.Context) ([]model.Message, error) {
		return m.api.ListMessages(ctx, id, m.session.UserID())
	})
	if err != nil && ctx.Err() == nil {
		m.logger.Warn("message load failed", zap.Int64("conversation_id", id), zap.Error(err))
	}
}

func (m *ThreadModel) consume(ctx context.Context, ch <-chan bus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			p, ok := evt.Payload.(model.MessageSent)
			if !ok || p.ConversationID != m.ConversationID() {
				continue
			}
			if m.cache.ApplyCreate(p.Message) {
				m.refresh.Signal()
			}
		}
	}
}
