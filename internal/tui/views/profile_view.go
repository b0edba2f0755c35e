package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// ProfileView shows the caller's own account: a header with the profile
// record and a table of their thoughts.
type ProfileView struct {
	*tview.Flex
	theme    *ui.Theme
	header   *tview.TextView
	table    *tview.Table
	thoughts []model.Thought
}

// NewProfileView creates the profile view.
func NewProfileView(theme *ui.Theme) *ProfileView {
	header := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	header.SetBorder(true)
	header.SetBorderColor(theme.BorderColor)
	header.SetBackgroundColor(theme.BgColor)
	header.SetTitle(" Profile ")
	header.SetTitleColor(theme.TitleColor)

	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitle(" Your Thoughts ")
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(table, 0, 1, true)

	return &ProfileView{
		Flex:   flex,
		theme:  theme,
		header: header,
		table:  table,
	}
}

// Name implements Component.
func (pv *ProfileView) Name() string { return "Profile" }

// Init implements Component.
func (pv *ProfileView) Init() {}

// Start implements Component.
func (pv *ProfileView) Start() {}

// Stop implements Component.
func (pv *ProfileView) Stop() {}

// Hints implements Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "b", Description: "Edit bio"},
		{Key: "a", Description: "Upload avatar"},
		{Key: "d", Description: "Delete thought"},
		{Key: "D", Description: "Delete all thoughts"},
	}
}

// Update refreshes the header and the thought table.
func (pv *ProfileView) Update(user *model.User, thoughts []model.Thought) {
	pv.thoughts = thoughts

	pv.header.Clear()
	if user != nil {
		bio := user.Bio
		if bio == "" {
			bio = "[::d](no bio)[-:-:-]"
		} else {
			bio = sanitizeForTerminal(bio)
		}
		_, _ = fmt.Fprintf(pv.header,
			" [::b]@%s[-:-:-]\n %s\n\n %d thoughts · %d thoughtmates · %d followers",
			user.Username, bio, user.ThoughtsCount, user.ThoughtmatesCnt, user.FollowersCount)
	}

	pv.table.Clear()
	header := []string{" Thought", " ♥", " ⌾", " Time"}
	for col, h := range header {
		pv.table.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(pv.theme.TableHeaderFg))
	}

	for i, t := range thoughts {
		row := i + 1
		pv.table.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(truncate(t.Content, 90))).SetMaxWidth(90).SetExpansion(3))
		pv.table.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf(" %d", t.LikeCount)).SetMaxWidth(6))
		pv.table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf(" %d", t.CommentCount)).SetMaxWidth(6))
		pv.table.SetCell(row, 3, tview.NewTableCell(" "+formatWhen(t.CreatedAt)).SetMaxWidth(8))
	}
}

// SelectedThought returns the id of the selected thought, or 0.
func (pv *ProfileView) SelectedThought() int64 {
	row, _ := pv.table.GetSelection()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(pv.thoughts) {
		return pv.thoughts[idx].ID
	}
	return 0
}

// Table returns the thought table for focus handling.
func (pv *ProfileView) Table() *tview.Table { return pv.table }
