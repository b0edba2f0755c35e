package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// Composer is the single-line text input shared by the thread, comment and
// new-thought flows.
type Composer struct {
	*tview.InputField
	onSend func(text string)
}

// NewComposer creates a composer.
func NewComposer(theme *ui.Theme) *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	c := &Composer{InputField: input}

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.onSend != nil {
			text := c.GetText()
			if text != "" {
				c.onSend(text)
				c.SetText("")
			}
		}
	})

	return c
}

// SetOnSend sets the callback when text is submitted.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}
