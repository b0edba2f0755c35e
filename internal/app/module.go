// Package app composes the client: config, credentials, API client,
// realtime channel, view models and the TUI shell, wired through fx.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nikzart/HTLY/internal/api"
	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/config"
	"github.com/nikzart/HTLY/internal/lock"
	"github.com/nikzart/HTLY/internal/logging"
	"github.com/nikzart/HTLY/internal/nav"
	"github.com/nikzart/HTLY/internal/profile"
	"github.com/nikzart/HTLY/internal/realtime"
	"github.com/nikzart/HTLY/internal/session"
	"github.com/nikzart/HTLY/internal/tui"
	uimodel "github.com/nikzart/HTLY/internal/tui/model"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
}

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks. The fx logger is silenced because the TUI owns the
// terminal.
func Module(p Params) fx.Option {
	return fx.Module("htly",
		fx.Supply(p),
		fx.NopLogger,
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideCredentials,
			provideAPIClient,
			provideChannel,
			provideSessionStore,
			provideNavigator,
			provideRefresh,
			provideFlash,
			provideFeedModel,
			provideCommentsModel,
			provideChatsModel,
			provideThreadModel,
			provideMatesModel,
			provideProfileModel,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		return config.Default()
	}
	return cfg
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideCredentials(p Params, logger *zap.Logger) (*session.Credentials, error) {
	return session.NewCredentials(profile.IdentityPath(p.ProfileName), logger)
}

func provideAPIClient(cfg *config.Config, creds *session.Credentials, sess *session.Store, logger *zap.Logger) *api.Client {
	client := api.New(cfg.APIBaseURL, creds, logger)
	// The client refreshes the tokens it authenticates with.
	creds.SetRefresher(client)
	// A dead credential logs the session out instead of parking as a
	// per-view error.
	client.OnAuthFailure(sess.Logout)
	return client
}

func provideChannel(cfg *config.Config, creds *session.Credentials, b *bus.Bus, logger *zap.Logger) *realtime.Channel {
	return realtime.NewChannel(cfg.SocketURL, creds, b, logger)
}

func provideSessionStore(b *bus.Bus) *session.Store {
	return session.NewStore(b)
}

func provideNavigator() *nav.Navigator {
	return nav.New()
}

func provideRefresh() *uimodel.Refresh {
	return uimodel.NewRefresh()
}

func provideFlash() *uimodel.Flash {
	return &uimodel.Flash{}
}

func provideFeedModel(client *api.Client, b *bus.Bus, sess *session.Store, refresh *uimodel.Refresh, flash *uimodel.Flash, logger *zap.Logger) *uimodel.FeedModel {
	return uimodel.NewFeedModel(client, b, sess, refresh, flash, logger)
}

func provideCommentsModel(client *api.Client, b *bus.Bus, sess *session.Store, refresh *uimodel.Refresh, flash *uimodel.Flash, logger *zap.Logger) *uimodel.CommentsModel {
	return uimodel.NewCommentsModel(client, b, sess, refresh, flash, logger)
}

func provideChatsModel(client *api.Client, b *bus.Bus, sess *session.Store, refresh *uimodel.Refresh, logger *zap.Logger) *uimodel.ChatsModel {
	return uimodel.NewChatsModel(client, b, sess, refresh, logger)
}

func provideThreadModel(client *api.Client, b *bus.Bus, sess *session.Store, refresh *uimodel.Refresh, flash *uimodel.Flash, logger *zap.Logger) *uimodel.ThreadModel {
	return uimodel.NewThreadModel(client, b, sess, refresh, flash, logger)
}

func provideMatesModel(client *api.Client, sess *session.Store, refresh *uimodel.Refresh, flash *uimodel.Flash, logger *zap.Logger) *uimodel.MatesModel {
	return uimodel.NewMatesModel(client, sess, refresh, flash, logger)
}

func provideProfileModel(client *api.Client, b *bus.Bus, sess *session.Store, refresh *uimodel.Refresh, flash *uimodel.Flash, logger *zap.Logger) *uimodel.ProfileModel {
	return uimodel.NewProfileModel(client, b, sess, refresh, flash, logger)
}

func provideApp(
	p Params,
	cfg *config.Config,
	sess *session.Store,
	creds *session.Credentials,
	client *api.Client,
	channel *realtime.Channel,
	b *bus.Bus,
	navigator *nav.Navigator,
	refresh *uimodel.Refresh,
	flash *uimodel.Flash,
	feed *uimodel.FeedModel,
	comments *uimodel.CommentsModel,
	chats *uimodel.ChatsModel,
	thread *uimodel.ThreadModel,
	mates *uimodel.MatesModel,
	prof *uimodel.ProfileModel,
	logger *zap.Logger,
) *tui.App {
	return tui.NewApp(tui.Params{
		Config:      cfg,
		ProfileName: p.ProfileName,
		Session:     sess,
		Credentials: creds,
		API:         client,
		Channel:     channel,
		Bus:         b,
		Nav:         navigator,
		Refresh:     refresh,
		Flash:       flash,
		Feed:        feed,
		Comments:    comments,
		Chats:       chats,
		Thread:      thread,
		Mates:       mates,
		Profile:     prof,
		Logger:      logger,
	})
}

func registerLifecycle(lc fx.Lifecycle, sh fx.Shutdowner, a *tui.App, lk *lock.Lock, channel *realtime.Channel, logger *zap.Logger) {
	a.SetOnQuit(func() {
		_ = sh.Shutdown()
	})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := a.Run(); err != nil {
					logger.Error("tui exited", zap.Error(err))
				}
				_ = sh.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			a.Stop()
			channel.Close()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}
