package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// MatesView is the thoughtmates table: users ranked by similarity.
type MatesView struct {
	*tview.Table
	theme *ui.Theme
	mates []model.Thoughtmate
}

// NewMatesView creates the thoughtmates table.
func NewMatesView(theme *ui.Theme) *MatesView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitle(" Thoughtmates ")
	table.SetTitleColor(theme.TitleColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	return &MatesView{Table: table, theme: theme}
}

// Name implements Component.
func (mv *MatesView) Name() string { return "Thoughtmates" }

// Init implements Component.
func (mv *MatesView) Init() {}

// Start implements Component.
func (mv *MatesView) Start() {}

// Stop implements Component.
func (mv *MatesView) Stop() {}

// Hints implements Component.
func (mv *MatesView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "f", Description: "Follow / Unfollow"},
		{Key: "Enter", Description: "Message"},
	}
}

// Update refreshes the table, best match first.
func (mv *MatesView) Update(mates []model.Thoughtmate) {
	mv.mates = mates
	mv.Clear()

	header := []string{" Match", " User", " Bio", " Thoughts"}
	for col, h := range header {
		mv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(mv.theme.TableHeaderFg))
	}

	for i, m := range mates {
		row := i + 1
		name := m.Username
		if m.IsFollowing {
			name = "✓ " + name
		}

		mv.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf(" %3.0f%%", m.SimilarityScore*100)).SetMaxWidth(7))
		mv.SetCell(row, 1, tview.NewTableCell(" "+name).SetMaxWidth(24).SetExpansion(1))
		mv.SetCell(row, 2, tview.NewTableCell(" "+sanitizeForTerminal(truncate(m.Bio, 50))).SetMaxWidth(50).SetExpansion(2))
		mv.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf(" %d", m.ThoughtsCount)).SetMaxWidth(10))
	}
}

// SelectedMate returns the id of the selected thoughtmate, or 0.
func (mv *MatesView) SelectedMate() int64 {
	row, _ := mv.GetSelection()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(mv.mates) {
		return mv.mates[idx].ID
	}
	return 0
}
