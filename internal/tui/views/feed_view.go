package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/nikzart/HTLY/internal/model"
	uimodel "github.com/nikzart/HTLY/internal/tui/model"
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

var tabLabels = map[uimodel.FeedTab]string{
	uimodel.TabForYou:    "For You",
	uimodel.TabNews:      "News",
	uimodel.TabFollowing: "Following",
	uimodel.TabSaved:     "Saved",
}

// FeedView is the thought feed table.
type FeedView struct {
	*tview.Table
	theme    *ui.Theme
	thoughts []model.Thought
}

// NewFeedView creates the feed table.
func NewFeedView(theme *ui.Theme) *FeedView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	return &FeedView{Table: table, theme: theme}
}

// Name implements Component.
func (fv *FeedView) Name() string { return "Feed" }

// Init implements Component.
func (fv *FeedView) Init() {}

// Start implements Component.
func (fv *FeedView) Start() {}

// Stop implements Component.
func (fv *FeedView) Stop() {}

// Hints implements Component.
func (fv *FeedView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "t", Description: "Next tab"},
		{Key: "l", Description: "Like"},
		{Key: "s", Description: "Save"},
		{Key: "n", Description: "New thought"},
		{Key: "Enter", Description: "Comments"},
	}
}

// Update refreshes the table with the given thoughts and tab.
func (fv *FeedView) Update(thoughts []model.Thought, tab uimodel.FeedTab) {
	fv.thoughts = thoughts
	fv.SetTitle(fv.titleFor(tab))
	fv.Clear()

	header := []string{" Author", " Thought", " ♥", " ⌾", " Time"}
	for col, h := range header {
		fv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(fv.theme.TableHeaderFg))
	}

	for i, t := range thoughts {
		row := i + 1
		marks := ""
		if t.IsLiked {
			marks += "♥"
		}
		if t.IsSaved {
			marks += "★"
		}
		author := t.Username
		if marks != "" {
			author = marks + " " + author
		}

		fv.SetCell(row, 0, tview.NewTableCell(" "+author).SetMaxWidth(20).SetExpansion(1))
		fv.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(truncate(t.Content, 80))).SetMaxWidth(80).SetExpansion(3))
		fv.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf(" %d", t.LikeCount)).SetMaxWidth(6))
		fv.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf(" %d", t.CommentCount)).SetMaxWidth(6))
		fv.SetCell(row, 4, tview.NewTableCell(" "+formatWhen(t.CreatedAt)).SetMaxWidth(8))
	}
}

// SelectedThought returns the id of the currently selected thought, or 0.
func (fv *FeedView) SelectedThought() int64 {
	row, _ := fv.GetSelection()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(fv.thoughts) {
		return fv.thoughts[idx].ID
	}
	return 0
}

func (fv *FeedView) titleFor(active uimodel.FeedTab) string {
	var parts []string
	for _, tab := range uimodel.FeedTabs {
		label := tabLabels[tab]
		if tab == active {
			label = fmt.Sprintf("[::b]%s[-:-:-]", label)
		}
		parts = append(parts, label)
	}
	return " " + strings.Join(parts, " | ") + " "
}
