// Package tui is the terminal shell: a k9s-inspired layout of header,
// crumbs, content pages and status bar. All state lives in the view models;
// the shell only renders and routes keys.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/nikzart/HTLY/internal/api"
	"github.com/nikzart/HTLY/internal/bus"
	"github.com/nikzart/HTLY/internal/config"
	mdl "github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/nav"
	"github.com/nikzart/HTLY/internal/realtime"
	"github.com/nikzart/HTLY/internal/session"
	"github.com/nikzart/HTLY/internal/tui/keys"
	uimodel "github.com/nikzart/HTLY/internal/tui/model"
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/nikzart/HTLY/internal/tui/views"
)

const (
	flashInfo  = 3 * time.Second
	flashError = 4 * time.Second
)

// viewPages maps primary views to page names.
var viewPages = map[nav.View]string{
	nav.ViewFeed:         "feed",
	nav.ViewThoughtmates: "mates",
	nav.ViewChats:        "chats",
	nav.ViewProfile:      "profile",
}

// Params collects everything the shell needs.
type Params struct {
	Config      *config.Config
	ProfileName string
	Session     *session.Store
	Credentials *session.Credentials
	API         *api.Client
	Channel     *realtime.Channel
	Bus         *bus.Bus
	Nav         *nav.Navigator
	Refresh     *uimodel.Refresh
	Flash       *uimodel.Flash
	Feed        *uimodel.FeedModel
	Comments    *uimodel.CommentsModel
	Chats       *uimodel.ChatsModel
	Thread      *uimodel.ThreadModel
	Mates       *uimodel.MatesModel
	Profile     *uimodel.ProfileModel
	Logger      *zap.Logger
}

// App is the TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	pages    *ui.Pages
	registry *keys.Registry

	logo      *ui.Logo
	menu      *ui.Menu
	crumbs    *ui.Crumbs
	prompt    *ui.Prompt
	statusBar *views.StatusBar
	root      *tview.Flex

	loginV    *views.LoginView
	setupV    *views.SetupView
	feedV     *views.FeedView
	commentsV *views.CommentsView
	chatsV    *views.ChatsView
	threadV   *views.ThreadView
	matesV    *views.MatesView
	profileV  *views.ProfileView
	helpV     *views.HelpView

	feedComposer    *views.Composer
	threadComposer  *views.Composer
	commentComposer *views.Composer

	components map[string]ui.Component

	p      Params
	onQuit func()
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(p Params) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:      tview.NewApplication(),
		theme:    theme,
		pages:    ui.NewPages(),
		registry: keys.NewRegistry(),

		logo:      ui.NewLogo(theme),
		menu:      ui.NewMenu(theme),
		crumbs:    ui.NewCrumbs(theme),
		prompt:    ui.NewPrompt(theme),
		statusBar: views.NewStatusBar(),

		loginV:    views.NewLoginView(theme),
		setupV:    views.NewSetupView(theme),
		feedV:     views.NewFeedView(theme),
		commentsV: views.NewCommentsView(theme),
		chatsV:    views.NewChatsView(theme),
		threadV:   views.NewThreadView(theme),
		matesV:    views.NewMatesView(theme),
		profileV:  views.NewProfileView(theme),
		helpV:     views.NewHelpView(theme),

		feedComposer:    views.NewComposer(theme),
		threadComposer:  views.NewComposer(theme),
		commentComposer: views.NewComposer(theme),

		p:      p,
		ctx:    ctx,
		cancel: cancel,
	}

	a.components = map[string]ui.Component{
		"login":    a.loginV,
		"setup":    a.setupV,
		"feed":     a.feedV,
		"comments": a.commentsV,
		"chats":    a.chatsV,
		"thread":   a.threadV,
		"mates":    a.matesV,
		"profile":  a.profileV,
		"help":     a.helpV,
	}

	a.statusBar.SetProfile(p.ProfileName)
	a.setupCallbacks()
	a.setupBindings()
	a.setupLayout()

	return a
}

// SetOnQuit installs the shutdown callback invoked when the user quits.
func (a *App) SetOnQuit(fn func()) { a.onQuit = fn }

func (a *App) setupLayout() {
	a.feedComposer.SetLabel(" new > ")

	feedPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.feedV, 0, 1, true).
		AddItem(a.feedComposer, 1, 0, false)

	threadPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.threadV, 0, 1, true).
		AddItem(a.threadComposer, 1, 0, false)

	commentsPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.commentsV, 0, 1, true).
		AddItem(a.commentComposer, 1, 0, false)

	a.pages.AddPage("login", a.loginV, true, false)
	a.pages.AddPage("setup", a.setupV, true, false)
	a.pages.AddPage("feed", feedPage, true, false)
	a.pages.AddPage("mates", a.matesV, true, false)
	a.pages.AddPage("chats", a.chatsV, true, false)
	a.pages.AddPage("thread", threadPage, true, false)
	a.pages.AddPage("comments", commentsPage, true, false)
	a.pages.AddPage("profile", a.profileV, true, false)
	a.pages.AddPage("help", a.helpV, true, false)

	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack)
		if len(stack) == 0 {
			return
		}
		if c, ok := a.components[stack[len(stack)-1]]; ok {
			a.menu.Update(c.Hints())
		}
	})

	header := tview.NewFlex().
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 24, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 5, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.handleKey)

	a.loginV.ShowMessage("Resolving session...")
	a.pages.Reset("login")
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "Quit", Visible: false,
		Handler: func() { a.Quit() },
	})
	a.registry.AddGlobal("help", &keys.Action{
		Rune: '?', Key: tcell.KeyRune,
		Description: "Help", Visible: false,
		Handler: func() { a.showHelp() },
	})
	a.registry.AddGlobal("next-view", &keys.Action{
		Key:         tcell.KeyTab,
		Description: "Next view", Visible: false,
		Handler: func() { a.cycleView() },
	})

	a.registry.AddView("login", "start", &keys.Action{
		Key:         tcell.KeyEnter,
		Description: "Start sign in", Visible: true,
		Handler: func() { a.startLogin() },
	})

	a.registry.AddView("feed", "tab", &keys.Action{
		Rune: 't', Key: tcell.KeyRune,
		Description: "Next tab", Visible: true,
		Handler: func() { a.cycleFeedTab() },
	})
	a.registry.AddView("feed", "like", &keys.Action{
		Rune: 'l', Key: tcell.KeyRune,
		Description: "Like", Visible: true,
		Handler: func() {
			if id := a.feedV.SelectedThought(); id != 0 {
				a.p.Feed.ToggleLike(a.ctx, id)
			}
		},
	})
	a.registry.AddView("feed", "save", &keys.Action{
		Rune: 's', Key: tcell.KeyRune,
		Description: "Save", Visible: true,
		Handler: func() {
			if id := a.feedV.SelectedThought(); id != 0 {
				a.p.Feed.ToggleSave(a.ctx, id)
			}
		},
	})
	a.registry.AddView("feed", "compose", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "New thought", Visible: true,
		Handler: func() { a.app.SetFocus(a.feedComposer.InputField) },
	})
	a.registry.AddView("feed", "comments", &keys.Action{
		Key:         tcell.KeyEnter,
		Description: "Comments", Visible: true,
		Handler: func() {
			if id := a.feedV.SelectedThought(); id != 0 {
				a.openComments(id)
			}
		},
	})

	a.registry.AddView("chats", "open", &keys.Action{
		Key:         tcell.KeyEnter,
		Description: "Open conversation", Visible: true,
		Handler: func() {
			if id := a.chatsV.SelectedConversation(); id != 0 {
				a.openThread(id)
			}
		},
	})

	a.registry.AddView("thread", "compose", &keys.Action{
		Rune: 'i', Key: tcell.KeyRune,
		Description: "Compose", Visible: true,
		Handler: func() { a.app.SetFocus(a.threadComposer.InputField) },
	})

	a.registry.AddView("comments", "compose", &keys.Action{
		Rune: 'i', Key: tcell.KeyRune,
		Description: "Comment", Visible: true,
		Handler: func() { a.app.SetFocus(a.commentComposer.InputField) },
	})

	a.registry.AddView("mates", "follow", &keys.Action{
		Rune: 'f', Key: tcell.KeyRune,
		Description: "Follow", Visible: true,
		Handler: func() {
			if id := a.matesV.SelectedMate(); id != 0 {
				a.p.Mates.ToggleFollow(a.ctx, id)
			}
		},
	})
	a.registry.AddView("mates", "message", &keys.Action{
		Key:         tcell.KeyEnter,
		Description: "Message", Visible: true,
		Handler: func() {
			if id := a.matesV.SelectedMate(); id != 0 {
				a.messageMate(id)
			}
		},
	})

	a.registry.AddView("profile", "bio", &keys.Action{
		Rune: 'b', Key: tcell.KeyRune,
		Description: "Edit bio", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand, "bio ") },
	})
	a.registry.AddView("profile", "avatar", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "Upload avatar", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand, "avatar ") },
	})
	a.registry.AddView("profile", "delete", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Description: "Delete thought", Visible: true,
		Handler: func() { a.deleteThought() },
	})
	a.registry.AddView("profile", "delete-all", &keys.Action{
		Rune: 'D', Key: tcell.KeyRune,
		Description: "Delete all", Visible: true,
		Handler: func() { a.deleteAllThoughts() },
	})
}

func (a *App) setupCallbacks() {
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnCancel(func() { a.hidePrompt() })

	a.setupV.SetOnSubmit(a.submitProfileSetup)

	a.feedComposer.SetOnSend(func(text string) {
		a.app.SetFocus(a.feedV)
		go func() {
			if err := a.p.Feed.Post(a.ctx, text); err != nil {
				a.p.Flash.Set("Post failed: "+err.Error(), flashError)
				a.p.Refresh.Signal()
			}
		}()
	})

	a.threadComposer.SetOnSend(func(text string) {
		go func() {
			if err := a.p.Thread.Send(a.ctx, text); err != nil {
				a.p.Flash.Set("Send failed: "+err.Error(), flashError)
				a.app.QueueUpdateDraw(func() {
					// Give the typed text back so it is not lost.
					a.threadComposer.SetText(text)
				})
			}
		}()
	})

	a.commentComposer.SetOnSend(func(text string) {
		a.app.SetFocus(a.commentsV)
		go func() {
			if err := a.p.Comments.Post(a.ctx, text); err != nil {
				a.p.Flash.Set("Comment failed: "+err.Error(), flashError)
				a.p.Refresh.Signal()
			}
		}()
	})
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	// A confirmation modal owns all input while it is up.
	if a.pages.HasPage("confirm") {
		return event
	}

	current := a.pages.Current()

	// Text inputs own their keys. Escape backs out to the page view.
	if focused, ok := a.app.GetFocus().(*tview.InputField); ok {
		if event.Key() == tcell.KeyEscape && focused != a.prompt.InputField {
			a.focusCurrent()
			return nil
		}
		return event
	}
	if current == "setup" {
		return event
	}

	if event.Key() == tcell.KeyEscape {
		a.closeTop()
		return nil
	}

	if event.Key() == tcell.KeyRune {
		switch r := event.Rune(); {
		case r == ':':
			a.showPrompt(ui.PromptCommand, "")
			return nil
		case r >= '1' && r <= '4':
			a.selectView(nav.Order[r-'1'])
			return nil
		}
	}

	if a.registry.HandleEvent(current, event) {
		return nil
	}
	return event
}

// Run starts the shell: it resolves the session in the background and
// hands the terminal to tview.
func (a *App) Run() error {
	ch, unsub := a.p.Bus.Subscribe(16, "session.", "realtime.")
	defer unsub()
	go a.consumeSystem(ch)

	go func() {
		if err := a.p.Session.Bootstrap(a.ctx, a.p.Credentials, a.p.API, a.p.Logger); err != nil {
			a.p.Logger.Warn("bootstrap failed", zap.Error(err))
		}
	}()

	a.startRefreshLoop()
	return a.app.Run()
}

// Quit shuts the shell down.
func (a *App) Quit() {
	if a.onQuit != nil {
		a.onQuit()
		return
	}
	a.Stop()
}

// Stop tears the shell down without going through the quit callback.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-a.p.Refresh.C():
			case <-ticker.C:
			}
			a.app.QueueUpdateDraw(a.redraw)
		}
	}()
}

// redraw repaints every visible surface from current model state. The
// models own the state; repainting is cheap and idempotent.
func (a *App) redraw() {
	a.feedV.Update(a.p.Feed.Thoughts(), a.p.Feed.Tab())
	a.chatsV.Update(a.p.Chats.Conversations())
	a.matesV.Update(a.p.Mates.Mates())
	a.profileV.Update(a.p.Profile.User(), a.p.Profile.Thoughts())

	if a.p.Thread.ConversationID() != 0 {
		a.threadV.Update(a.p.Thread.Messages(), a.p.Session.UserID())
	}
	if id := a.p.Comments.ThoughtID(); id != 0 {
		a.commentsV.Update(a.findThought(id), a.p.Comments.Comments())
	}

	a.statusBar.SetUnread(a.p.Chats.Unread())
	a.statusBar.SetFlash(a.p.Flash.Get())
}

func (a *App) findThought(id int64) *mdl.Thought {
	for _, t := range a.p.Feed.Thoughts() {
		if t.ID == id {
			return &t
		}
	}
	for _, t := range a.p.Profile.Thoughts() {
		if t.ID == id {
			return &t
		}
	}
	return nil
}

func (a *App) consumeSystem(ch <-chan bus.Event) {
	for {
		select {
		case <-a.ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			switch evt.Kind {
			case bus.KindSessionChanged:
				pc, ok := evt.Payload.(session.PhaseChange)
				if !ok {
					continue
				}
				a.app.QueueUpdateDraw(func() { a.applyPhase(pc.To) })
			case bus.KindRealtimeConnected:
				a.setPollDegraded(false)
				a.app.QueueUpdateDraw(func() { a.statusBar.SetConnection("online") })
			case bus.KindRealtimeDisconnected:
				a.setPollDegraded(true)
				a.app.QueueUpdateDraw(func() { a.statusBar.SetConnection("offline") })
			}
		}
	}
}

// applyPhase is the session phase to screen mapping. Always runs on the UI
// goroutine.
func (a *App) applyPhase(to session.Phase) {
	switch to {
	case session.Unauthenticated:
		a.stopModels()
		go a.p.Channel.Close()
		a.statusBar.SetUsername("")
		a.statusBar.SetConnection("offline")
		a.loginV.ShowMessage("Signed out.\n\nPress Enter to sign in.")
		a.pages.Reset("login")
		a.focusCurrent()

	case session.NeedsProfileSetup:
		if u := a.p.Session.User(); u != nil {
			a.setupV.Prefill(u.Username, u.Bio)
		}
		a.pages.Reset("setup")
		a.app.SetFocus(a.setupV.Form())

	case session.Ready:
		if u := a.p.Session.User(); u != nil {
			a.statusBar.SetUsername(u.Username)
		}
		a.p.Channel.Open(a.ctx)
		a.startModels()
		a.pages.Reset(viewPages[a.p.Nav.Active()])
		a.focusCurrent()
	}
}

// setPollDegraded halves every poll interval while the push channel is
// down, so polling carries the freshness load alone.
func (a *App) setPollDegraded(degraded bool) {
	if a.p.Session.Phase() != session.Ready {
		return
	}
	div := time.Duration(1)
	if degraded {
		div = 2
	}
	a.p.Feed.SetPollInterval(a.p.Config.FeedPoll() / div)
	a.p.Mates.SetPollInterval(a.p.Config.FeedPoll() / div)
	a.p.Chats.SetPollInterval(a.p.Config.ChatListPoll() / div)
	a.p.Thread.SetPollInterval(a.p.Config.MessagePoll() / div)
}

func (a *App) startModels() {
	a.p.Feed.Start(a.ctx, a.p.Config.FeedPoll())
	a.p.Chats.Start(a.ctx, a.p.Config.ChatListPoll())
	a.p.Mates.Start(a.ctx, a.p.Config.FeedPoll())
	a.p.Profile.Start(a.ctx)
}

func (a *App) stopModels() {
	a.p.Thread.Close()
	a.p.Comments.Close()
	a.p.Chats.CloseThread()
	a.p.Feed.Stop()
	a.p.Chats.Stop()
	a.p.Mates.Stop()
	a.p.Profile.Stop()
}

func (a *App) startLogin() {
	if a.p.Session.Phase() != session.Unauthenticated {
		return
	}
	events, err := a.p.Session.StartLogin(a.ctx, a.p.API, a.p.Credentials, a.p.API, a.p.Logger)
	if err != nil {
		a.loginV.ShowMessage("Sign in failed: " + err.Error() + "\n\nPress Enter to retry.")
		return
	}
	a.loginV.ShowMessage("Contacting identity provider...")

	go func() {
		for evt := range events {
			evt := evt
			a.app.QueueUpdateDraw(func() {
				switch evt.Type {
				case session.AuthEventVerification:
					a.loginV.ShowQR(evt.VerificationURL, evt.UserCode)
				case session.AuthEventFailed, session.AuthEventTimeout:
					a.loginV.ShowMessage(evt.Message + "\n\nPress Enter to retry.")
				}
			})
		}
	}()
}

func (a *App) submitProfileSetup(username, bio, avatarPath string) {
	go func() {
		avatarURL := ""
		if avatarPath != "" {
			f, err := os.Open(avatarPath)
			if err != nil {
				a.p.Flash.Set("Avatar: "+err.Error(), flashError)
				a.p.Refresh.Signal()
				return
			}
			avatarURL, err = a.p.API.UploadAvatar(a.ctx, filepath.Base(avatarPath), f)
			_ = f.Close()
			if err != nil {
				a.p.Flash.Set("Avatar upload failed: "+err.Error(), flashError)
				a.p.Refresh.Signal()
				return
			}
		}

		user, err := a.p.API.CompleteProfile(a.ctx, username, avatarURL, bio)
		if err != nil {
			a.p.Flash.Set("Profile setup failed: "+err.Error(), flashError)
			a.p.Refresh.Signal()
			return
		}
		if err := a.p.Session.CompleteProfile(user); err != nil {
			a.p.Logger.Warn("complete profile", zap.Error(err))
		}
	}()
}

// selectView switches between the primary views. Any open thread or
// comment panel is torn down; primaries are peers, not a stack.
func (a *App) selectView(v nav.View) {
	if a.p.Session.Phase() != session.Ready {
		return
	}
	a.p.Nav.Select(v)
	a.p.Thread.Close()
	a.p.Comments.Close()
	a.p.Chats.CloseThread()
	a.pages.Reset(viewPages[v])
	a.focusCurrent()
	a.redraw()
}

func (a *App) cycleView() {
	active := a.p.Nav.Active()
	for i, v := range nav.Order {
		if v == active {
			a.selectView(nav.Order[(i+1)%len(nav.Order)])
			return
		}
	}
}

func (a *App) cycleFeedTab() {
	tab := a.p.Feed.Tab()
	for i, t := range uimodel.FeedTabs {
		if t == tab {
			a.p.Feed.SwitchTab(a.ctx, uimodel.FeedTabs[(i+1)%len(uimodel.FeedTabs)])
			return
		}
	}
}

func (a *App) openThread(conversationID int64) {
	a.p.Nav.OpenConversation(conversationID)
	a.p.Chats.Open(conversationID)
	a.p.Thread.Open(a.ctx, conversationID, a.p.Config.MessagePoll())

	name := "Conversation"
	for _, c := range a.p.Chats.Conversations() {
		if c.ID == conversationID && c.OtherUsername != "" {
			name = c.OtherUsername
		}
	}
	a.threadV.SetPartner(name)
	a.pages.Push("thread")
	a.app.SetFocus(a.threadV)
}

func (a *App) openComments(thoughtID int64) {
	a.p.Comments.Open(a.ctx, thoughtID)
	a.commentsV.Update(a.findThought(thoughtID), nil)
	a.pages.Push("comments")
	a.app.SetFocus(a.commentsV)
}

// closeTop backs out of the topmost panel: thread, comments or help.
func (a *App) closeTop() {
	if a.pages.Depth() <= 1 {
		return
	}
	switch a.pages.Pop() {
	case "thread":
		a.p.Thread.Close()
		a.p.Chats.CloseThread()
		a.p.Nav.Back()
	case "comments":
		a.p.Comments.Close()
	}
	a.focusCurrent()
}

func (a *App) showHelp() {
	if a.pages.Current() != "help" {
		a.pages.Push("help")
		a.app.SetFocus(a.helpV)
	}
}

func (a *App) messageMate(mateID int64) {
	go func() {
		id, err := a.p.Chats.StartConversation(a.ctx, mateID)
		if err != nil {
			a.p.Flash.Set("Could not start conversation: "+err.Error(), flashError)
			a.p.Refresh.Signal()
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.selectView(nav.ViewChats)
			a.openThread(id)
		})
	}()
}

func (a *App) deleteThought() {
	id := a.profileV.SelectedThought()
	if id == 0 {
		return
	}
	go func() {
		err := a.p.Profile.DeleteThought(a.ctx, id, a.confirm)
		if err != nil && err != uimodel.ErrDeleteDeclined {
			a.p.Flash.Set("Delete failed: "+err.Error(), flashError)
		}
		a.p.Refresh.Signal()
	}()
}

func (a *App) deleteAllThoughts() {
	go func() {
		_, err := a.p.Profile.DeleteAllThoughts(a.ctx, a.confirm)
		if err != nil && err != uimodel.ErrDeleteDeclined {
			a.p.Flash.Set("Delete failed: "+err.Error(), flashError)
		}
		a.p.Refresh.Signal()
	}()
}

// confirm shows a modal dialog and blocks until the user answers. Must not
// be called from the UI goroutine.
func (a *App) confirm(prompt string) bool {
	answer := make(chan bool, 1)
	a.app.QueueUpdateDraw(func() {
		modal := tview.NewModal().
			SetText(prompt).
			AddButtons([]string{"Cancel", "Delete"}).
			SetDoneFunc(func(_ int, label string) {
				a.pages.RemovePage("confirm")
				a.focusCurrent()
				answer <- label == "Delete"
			})
		a.pages.AddPage("confirm", modal, true, true)
		a.app.SetFocus(modal)
	})
	return <-answer
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "quit":
		a.Quit()
	case "help":
		a.showHelp()
	case "logout":
		a.logout()
	case "feed":
		a.selectView(nav.ViewFeed)
	case "mates":
		a.selectView(nav.ViewThoughtmates)
	case "chats":
		a.selectView(nav.ViewChats)
	case "profile":
		a.selectView(nav.ViewProfile)
	case "tab":
		a.switchFeedTab(cmd.Args)
	case "bio":
		a.updateBio(cmd.Args)
	case "avatar":
		a.uploadAvatar(cmd.Args)
	default:
		a.p.Flash.Set("Unknown command: "+cmd.Name, flashInfo)
		a.p.Refresh.Signal()
	}
}

func (a *App) switchFeedTab(name string) {
	for tab, label := range tabNames() {
		if strings.EqualFold(name, label) || name == string(tab) {
			a.selectView(nav.ViewFeed)
			a.p.Feed.SwitchTab(a.ctx, tab)
			return
		}
	}
	a.p.Flash.Set("Unknown tab: "+name, flashInfo)
	a.p.Refresh.Signal()
}

func tabNames() map[uimodel.FeedTab]string {
	return map[uimodel.FeedTab]string{
		uimodel.TabForYou:    "foryou",
		uimodel.TabNews:      "news",
		uimodel.TabFollowing: "following",
		uimodel.TabSaved:     "saved",
	}
}

func (a *App) updateBio(bio string) {
	go func() {
		if err := a.p.Profile.UpdateBio(a.ctx, bio); err != nil {
			a.p.Flash.Set("Bio update failed: "+err.Error(), flashError)
		} else {
			a.p.Flash.Set("Bio updated", flashInfo)
		}
		a.p.Refresh.Signal()
	}()
}

func (a *App) uploadAvatar(path string) {
	go func() {
		f, err := os.Open(path)
		if err != nil {
			a.p.Flash.Set("Avatar: "+err.Error(), flashError)
			a.p.Refresh.Signal()
			return
		}
		defer func() { _ = f.Close() }()
		if err := a.p.Profile.UploadAvatar(a.ctx, filepath.Base(path), f); err != nil {
			a.p.Flash.Set("Avatar upload failed: "+err.Error(), flashError)
		} else {
			a.p.Flash.Set("Avatar updated", flashInfo)
		}
		a.p.Refresh.Signal()
	}()
}

func (a *App) logout() {
	go func() {
		if err := a.p.Credentials.Clear(); err != nil {
			a.p.Logger.Warn("clear identity", zap.Error(err))
		}
		a.p.Session.Logout()
	}()
}

func (a *App) showPrompt(mode ui.PromptMode, prefill string) {
	a.prompt.Activate(mode)
	if prefill != "" {
		a.prompt.SetText(prefill)
	}
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt.InputField)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.focusCurrent()
}

// focusCurrent gives focus to the primitive backing the current page.
func (a *App) focusCurrent() {
	switch a.pages.Current() {
	case "login":
		a.app.SetFocus(a.loginV)
	case "setup":
		a.app.SetFocus(a.setupV.Form())
	case "feed":
		a.app.SetFocus(a.feedV)
	case "mates":
		a.app.SetFocus(a.matesV)
	case "chats":
		a.app.SetFocus(a.chatsV)
	case "thread":
		a.app.SetFocus(a.threadV)
	case "comments":
		a.app.SetFocus(a.commentsV)
	case "profile":
		a.app.SetFocus(a.profileV.Table())
	case "help":
		a.app.SetFocus(a.helpV)
	}
}
