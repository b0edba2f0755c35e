package views

import (
	"fmt"

	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// ThreadView displays the messages of the open conversation.
type ThreadView struct {
	*tview.TextView
	theme   *ui.Theme
	partner string
}

// NewThreadView creates the message thread view.
func NewThreadView(theme *ui.Theme) *ThreadView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTitle(" Messages ")
	tv.SetTitleColor(theme.TitleColor)

	return &ThreadView{TextView: tv, theme: theme}
}

// Name implements Component.
func (tv *ThreadView) Name() string { return "Thread" }

// Init implements Component.
func (tv *ThreadView) Init() {}

// Start implements Component.
func (tv *ThreadView) Start() {}

// Stop implements Component.
func (tv *ThreadView) Stop() {}

// Hints implements Component.
func (tv *ThreadView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "Esc", Description: "Back to chats"},
	}
}

// SetPartner updates the title with the counterpart's name.
func (tv *ThreadView) SetPartner(name string) {
	tv.partner = name
	tv.SetTitle(fmt.Sprintf(" %s ", name))
}

// Update refreshes the thread, oldest message first.
func (tv *ThreadView) Update(msgs []model.Message, selfID int64) {
	tv.Clear()

	for _, m := range msgs {
		sender := tv.partner
		if m.SenderID == selfID {
			sender = "You"
		}
		ts := formatWhen(m.SentAt)
		line := fmt.Sprintf("[::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n", sender, ts, sanitizeForTerminal(m.Content))
		_, _ = fmt.Fprint(tv, line)
	}

	tv.ScrollToEnd()
}
