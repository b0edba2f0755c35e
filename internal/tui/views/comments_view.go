package views

import (
	"fmt"

	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// CommentsView displays one thought with its comment list.
type CommentsView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewCommentsView creates the comments view.
func NewCommentsView(theme *ui.Theme) *CommentsView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTitle(" Comments ")
	tv.SetTitleColor(theme.TitleColor)

	return &CommentsView{TextView: tv, theme: theme}
}

// Name implements Component.
func (cv *CommentsView) Name() string { return "Comments" }

// Init implements Component.
func (cv *CommentsView) Init() {}

// Start implements Component.
func (cv *CommentsView) Start() {}

// Stop implements Component.
func (cv *CommentsView) Stop() {}

// Hints implements Component.
func (cv *CommentsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Comment"},
		{Key: "Esc", Description: "Back to feed"},
	}
}

// Update refreshes the view with the thought and its comments, oldest
// comment first.
func (cv *CommentsView) Update(thought *model.Thought, comments []model.Comment) {
	cv.Clear()

	if thought != nil {
		_, _ = fmt.Fprintf(cv, "[::b]@%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n[::d]%d likes · %d comments[-:-:-]\n\n",
			thought.Username, formatWhen(thought.CreatedAt),
			sanitizeForTerminal(thought.Content),
			thought.LikeCount, thought.CommentCount)
	}

	for _, c := range comments {
		_, _ = fmt.Fprintf(cv, "  [::b]@%s[-:-:-] [::d]%s[-:-:-]\n  %s\n\n",
			c.Username, formatWhen(c.CreatedAt), sanitizeForTerminal(c.Content))
	}

	cv.ScrollToEnd()
}
