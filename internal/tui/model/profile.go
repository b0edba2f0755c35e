package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/nikzart/HTLY/internal/api"
	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/cache"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/session"
	"go.uber.org/zap"
)

// maxBioLen mirrors the backend's bio column limit.
const maxBioLen = 150

// ErrDeleteDeclined is returned when the user backs out of a destructive
// confirmation. The request never reached the backend.
var ErrDeleteDeclined = errors.New("deletion declined")

// Confirm asks the user a yes/no question and reports their answer. The
// TUI shows a modal; tests supply a function.
type Confirm func(prompt string) bool

// ProfileModel drives the caller's own profile view: their thought list,
// bio editing, avatar upload and the destructive deletion actions.
type ProfileModel struct {
	api     *api.Client
	bus     *bus.Bus
	session *session.Store
	refresh *Refresh
	logger  *zap.Logger
	Flash   *Flash

	cache *cache.Cache[model.Thought]

	mu    sync.Mutex
	unsub func()
}

// NewProfileModel creates the profile model.
func NewProfileModel(apiClient *api.Client, b *bus.Bus, sess *session.Store, refresh *Refresh, flash *Flash, logger *zap.Logger) *ProfileModel {
	return &ProfileModel{
		api:     apiClient,
		bus:     b,
		session: sess,
		refresh: refresh,
		logger:  logger,
		Flash:   flash,
		cache:   cache.New(func(t model.Thought) int64 { return t.ID }, cache.Head),
	}
}

// Start loads the caller's thoughts and subscribes to deletion pushes so
// the list stays honest when another device deletes.
func (m *ProfileModel) Start(ctx context.Context) {
	ch, unsub := m.bus.Subscribe(64, "thought.")
	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()

	go m.consume(ctx, ch)
	go func() {
		m.load(ctx)
		m.refresh.Signal()
	}()
}

// Stop drops the push subscription.
func (m *ProfileModel) Stop() {
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Thoughts returns the caller's thoughts, newest first.
func (m *ProfileModel) Thoughts() []model.Thought {
	return m.cache.Items()
}

// Err returns the last load error, if the most recent load failed.
func (m *ProfileModel) Err() error {
	return m.cache.Err()
}

// User returns the session's user record.
func (m *ProfileModel) User() *model.User {
	return m.session.User()
}

// UpdateBio saves a new bio and updates the session record. Bios longer
// than the backend's column limit are rejected before the request is sent.
func (m *ProfileModel) UpdateBio(ctx context.Context, bio string) error {
	if utf8.RuneCountInString(bio) > maxBioLen {
		return fmt.Errorf("bio exceeds %d characters", maxBioLen)
	}
	if err := m.api.UpdateBio(ctx, m.session.UserID(), bio); err != nil {
		return err
	}
	if u := m.session.User(); u != nil {
		updated := *u
		updated.Bio = bio
		m.session.SetUser(&updated)
	}
	m.refresh.Signal()
	return nil
}

// UploadAvatar uploads a new avatar image and updates the session record
// with the served URL.
func (m *ProfileModel) UploadAvatar(ctx context.Context, filename string, content io.Reader) error {
	url, err := m.api.UploadAvatar(ctx, filename, content)
	if err != nil {
		return err
	}
	if u := m.session.User(); u != nil {
		updated := *u
		updated.AvatarURL = url
		m.session.SetUser(&updated)
	}
	m.refresh.Signal()
	return nil
}

// DeleteThought removes one thought after a single confirmation.
func (m *ProfileModel) DeleteThought(ctx context.Context, thoughtID int64, confirm Confirm) error {
	if !confirm("Delete this thought? This cannot be undone.") {
		return ErrDeleteDeclined
	}
	if err := m.api.DeleteThought(ctx, thoughtID, m.session.UserID()); err != nil {
		return err
	}
	if m.cache.ApplyDelete(thoughtID) {
		m.refresh.Signal()
	}
	return nil
}

// DeleteAllThoughts removes every thought the caller owns. Two separate
// affirmative confirmations are required; declining either one aborts
// before anything is sent. Returns how many thoughts the backend deleted.
func (m *ProfileModel) DeleteAllThoughts(ctx context.Context, confirm Confirm) (int, error) {
	n := m.cache.Len()
	if !confirm(fmt.Sprintf("Delete ALL %d of your thoughts? This cannot be undone.", n)) {
		return 0, ErrDeleteDeclined
	}
	if !confirm("Really delete everything? This is your last chance to back out.") {
		return 0, ErrDeleteDeclined
	}

	count, err := m.api.DeleteAllThoughts(ctx, m.session.UserID())
	if err != nil {
		return 0, err
	}
	m.cache.ApplyDeleteWhere(func(model.Thought) bool { return true })
	m.Flash.Set(fmt.Sprintf("Deleted %d thoughts", count), flashInfo)
	m.refresh.Signal()
	return count, nil
}

func (m *ProfileModel) load(ctx context.Context) {
	err := m.cache.Load(ctx, func(ctx context.Context) ([]model.Thought, error) {
		return m.api.ListUserThoughts(ctx, m.session.UserID())
	})
	if err != nil && ctx.Err() == nil {
		m.logger.Warn("own thoughts load failed", zap.Error(err))
	}
}

func (m *ProfileModel) consume(ctx context.Context, ch <-chan bus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			changed := false
			switch p := evt.Payload.(type) {
			case model.ThoughtDeleted:
				changed = m.cache.ApplyDelete(p.ThoughtID)
			case model.ThoughtsBulkDeleted:
				changed = m.cache.ApplyDeleteWhere(func(t model.Thought) bool {
					return t.UserID == p.UserID
				}) > 0
			case model.ThoughtCreated:
				if p.Thought.UserID == m.session.UserID() {
					changed = m.cache.ApplyCreate(p.Thought)
				}
			}
			if changed {
				m.refresh.Signal()
			}
		}
	}
}

