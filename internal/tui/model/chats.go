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

// ChatsModel drives the conversation list and owns the aggregate unread
// counter shown in the status bar. The aggregate is recomputed from the
// list on every load and maintained incrementally between loads.
type ChatsModel struct {
	api     *api.Client
	bus     *bus.Bus
	session *session.Store
	refresh *Refresh
	logger  *zap.Logger

	cache  *cache.Cache[model.Conversation]
	poller *cache.Poller

	mu     sync.Mutex
	unread int
	openID int64
	unsub  func()
}

// NewChatsModel creates the conversation list model.
func NewChatsModel(apiClient *api.Client, b *bus.Bus, sess *session.Store, refresh *Refresh, logger *zap.Logger) *ChatsModel {
	m := &ChatsModel{
		api:     apiClient,
		bus:     b,
		session: sess,
		refresh: refresh,
		logger:  logger,
		cache:   cache.New(func(c model.Conversation) int64 { return c.ID }, cache.Head),
	}
	m.poller = cache.NewPoller(func(ctx context.Context) {
		m.load(ctx)
		refresh.Signal()
	})
	return m
}

// Start loads the list, begins polling and subscribes to message pushes.
func (m *ChatsModel) Start(ctx context.Context, pollEvery time.Duration) {
	ch, unsub := m.bus.Subscribe(64, "message.")
	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()

	go m.consume(ctx, ch)
	go func() {
		// Seed the badge from the cheap aggregate endpoint so it is
		// right before the first full list lands.
		if n, err := m.api.UnreadCount(ctx, m.session.UserID()); err == nil {
			m.mu.Lock()
			m.unread = n
			m.mu.Unlock()
			m.refresh.Signal()
		}
		m.load(ctx)
		m.refresh.Signal()
	}()
	m.poller.Start(ctx, pollEvery)
}

// SetPollInterval retunes the poll cadence. The shell halves it while the
// realtime channel is down.
func (m *ChatsModel) SetPollInterval(d time.Duration) {
	m.poller.SetInterval(d)
}

// Stop halts polling and drops the push subscription.
func (m *ChatsModel) Stop() {
	m.poller.Stop()
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Conversations returns the current list.
func (m *ChatsModel) Conversations() []model.Conversation {
	return m.cache.Items()
}

// Err returns the last load error, if the most recent load failed.
func (m *ChatsModel) Err() error {
	return m.cache.Err()
}

// Unread returns the aggregate unread message count across conversations.
func (m *ChatsModel) Unread() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unread
}

// OpenID returns the conversation currently open in the thread view, or 0.
func (m *ChatsModel) OpenID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openID
}

// Open marks a conversation as the one being read. Its unread count is
// zeroed and the aggregate drops by exactly that count, never below zero,
// even when the count was stale.
func (m *ChatsModel) Open(conversationID int64) {
	var stale int
	if conv, ok := m.cache.Get(conversationID); ok {
		stale = conv.UnreadCount
	}
	m.cache.ApplyUpdate(conversationID, model.ConversationPatch{UnreadDelta: -stale}.Apply)

	m.mu.Lock()
	m.openID = conversationID
	m.unread -= stale
	if m.unread < 0 {
		m.unread = 0
	}
	m.mu.Unlock()
	m.refresh.Signal()
}

// CloseThread clears the open-conversation mark.
func (m *ChatsModel) CloseThread() {
	m.mu.Lock()
	m.openID = 0
	m.mu.Unlock()
}

// StartConversation returns the conversation id for chatting with another
// user, creating it on the backend when none exists.
func (m *ChatsModel) StartConversation(ctx context.Context, otherUserID int64) (int64, error) {
	id, err := m.api.CreateConversation(ctx, m.session.UserID(), otherUserID)
	if err != nil {
		return 0, err
	}
	go func() {
		m.load(ctx)
		m.refresh.Signal()
	}()
	return id, nil
}

func (m *ChatsModel) load(ctx context.Context) {
	err := m.cache.Load(ctx, func(ctx context.Context) ([]model.Conversation, error) {
		return m.api.ListConversations(ctx, m.session.UserID())
	})
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Warn("conversation list load failed", zap.Error(err))
		}
		return
	}

	// The list is authoritative for the aggregate, except the open
	// conversation which is read locally as it arrives.
	open := m.OpenID()
	total := 0
	for _, c := range m.cache.Items() {
		if c.ID == open {
			continue
		}
		total += c.UnreadCount
	}
	m.mu.Lock()
	m.unread = total
	m.mu.Unlock()
}

func (m *ChatsModel) consume(ctx context.Context, ch <-chan bus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			p, ok := evt.Payload.(model.MessageSent)
			if !ok {
				continue
			}
			m.applyMessage(p)
			m.refresh.Signal()
		}
	}
}

// applyMessage folds one message push into the list: preview and timestamp
// always move, unread only bumps for someone else's message in a
// conversation that is not open on screen.
func (m *ChatsModel) applyMessage(p model.MessageSent) {
	own := p.Message.SenderID == m.session.UserID()
	open := m.OpenID() == p.ConversationID

	if _, ok := m.cache.Get(p.ConversationID); !ok {
		// First message of a brand-new conversation; the next poll
		// fills in the counterpart fields.
		conv := model.Conversation{
			ID:            p.ConversationID,
			LastMessage:   p.Message.Content,
			LastMessageAt: p.Message.SentAt,
		}
		if !own && !open {
			conv.UnreadCount = 1
		}
		m.cache.ApplyCreate(conv)
	} else {
		patch := model.ConversationPatch{
			LastMessage:   model.StringPtr(p.Message.Content),
			LastMessageAt: model.StringPtr(p.Message.SentAt),
		}
		if !own && !open {
			patch.UnreadDelta = 1
		}
		m.cache.ApplyUpdate(p.ConversationID, patch.Apply)
	}

	if !own && !open {
		m.mu.Lock()
		m.unread++
		m.mu.Unlock()
	}
}
