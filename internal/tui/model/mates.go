package model

import (
	"context"
	"time"

	"github.com/nikzart/HTLY/internal/api"
	"github.com/nikzart/HTLY/internal/cache"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/session"
	"go.uber.org/zap"
)

const matesLimit = 50

// MatesModel drives the thoughtmates view: the similarity-ranked user list
// and the follow toggle.
type MatesModel struct {
	api     *api.Client
	session *session.Store
	refresh *Refresh
	logger  *zap.Logger
	Flash   *Flash

	cache  *cache.Cache[model.Thoughtmate]
	poller *cache.Poller
}

// NewMatesModel creates the thoughtmates model.
func NewMatesModel(apiClient *api.Client, sess *session.Store, refresh *Refresh, flash *Flash, logger *zap.Logger) *MatesModel {
	m := &MatesModel{
		api:     apiClient,
		session: sess,
		refresh: refresh,
		logger:  logger,
		Flash:   flash,
		cache:   cache.New(func(t model.Thoughtmate) int64 { return t.ID }, cache.Tail),
	}
	m.poller = cache.NewPoller(func(ctx context.Context) {
		m.load(ctx)
		refresh.Signal()
	})
	return m
}

// Start loads the list and begins polling; no push events carry similarity
// updates, so polling is the only feed.
func (m *MatesModel) Start(ctx context.Context, pollEvery time.Duration) {
	go func() {
		m.load(ctx)
		m.refresh.Signal()
	}()
	m.poller.Start(ctx, pollEvery)
}

// SetPollInterval retunes the poll cadence. The shell halves it while the
// realtime channel is down.
func (m *MatesModel) SetPollInterval(d time.Duration) {
	m.poller.SetInterval(d)
}

// Stop halts polling.
func (m *MatesModel) Stop() {
	m.poller.Stop()
}

// Mates returns the current list, best match first.
func (m *MatesModel) Mates() []model.Thoughtmate {
	return m.cache.Items()
}

// Err returns the last load error, if the most recent load failed.
func (m *MatesModel) Err() error {
	return m.cache.Err()
}

// ToggleFollow flips the follow state optimistically and confirms with the
// backend, rolling back on failure.
func (m *MatesModel) ToggleFollow(ctx context.Context, mateID int64) {
	mate, ok := m.cache.Get(mateID)
	if !ok {
		return
	}
	wasFollowing := mate.IsFollowing

	m.cache.ApplyUpdate(mateID, func(t model.Thoughtmate) model.Thoughtmate {
		t.IsFollowing = !wasFollowing
		return t
	})
	m.refresh.Signal()

	go func() {
		var err error
		if wasFollowing {
			err = m.api.UnfollowUser(ctx, mateID, m.session.UserID())
		} else {
			err = m.api.FollowUser(ctx, mateID, m.session.UserID())
		}
		if err != nil {
			m.logger.Warn("toggle follow failed", zap.Int64("mate_id", mateID), zap.Error(err))
			m.cache.ApplyUpdate(mateID, func(t model.Thoughtmate) model.Thoughtmate {
				t.IsFollowing = wasFollowing
				return t
			})
			m.Flash.Set("Could not update follow", flashError)
			m.refresh.Signal()
		}
	}()
}

func (m *MatesModel) load(ctx context.Context) {
	err := m.cache.Load(ctx, func(ctx context.Context) ([]model.Thoughtmate, error) {
		return m.api.ListThoughtmates(ctx, m.session.UserID(), matesLimit)
	})
	if err != nil && ctx.Err() == nil {
		m.logger.Warn("thoughtmates load failed", zap.Error(err))
	}
}
