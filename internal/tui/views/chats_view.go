package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatsView is the conversation list table.
type ChatsView struct {
	*tview.Table
	theme *ui.Theme
	convs []model.Conversation
}

// NewChatsView creates the conversation list.
func NewChatsView(theme *ui.Theme) *ChatsView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitle(" Chats ")
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	return &ChatsView{Table: table, theme: theme}
}

// Name implements Component.
func (cv *ChatsView) Name() string { return "Chats" }

// Init implements Component.
func (cv *ChatsView) Init() {}

// Start implements Component.
func (cv *ChatsView) Start() {}

// Stop implements Component.
func (cv *ChatsView) Stop() {}

// Hints implements Component.
func (cv *ChatsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open conversation"},
	}
}

// Update refreshes the conversation list.
func (cv *ChatsView) Update(convs []model.Conversation) {
	cv.convs = convs
	cv.Clear()

	header := []string{" With", " Last Message", " Time"}
	for col, h := range header {
		cv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(cv.theme.TableHeaderFg))
	}

	for i, c := range convs {
		row := i + 1
		name := c.OtherUsername
		if name == "" {
			name = fmt.Sprintf("user %d", c.OtherUserID)
		}
		if c.UnreadCount > 0 {
			name = fmt.Sprintf("* %s (%d)", name, c.UnreadCount)
		}

		cv.SetCell(row, 0, tview.NewTableCell(" "+name).SetMaxWidth(30).SetExpansion(1))
		cv.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(truncate(c.LastMessage, 60))).SetMaxWidth(60).SetExpansion(2))
		cv.SetCell(row, 2, tview.NewTableCell(" "+formatWhen(c.LastMessageAt)).SetMaxWidth(12))
	}
}

// SelectedConversation returns the id of the selected conversation, or 0.
func (cv *ChatsView) SelectedConversation() int64 {
	row, _ := cv.GetSelection()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(cv.convs) {
		return cv.convs[idx].ID
	}
	return 0
}
