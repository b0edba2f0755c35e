package views

import (
	"fmt"

	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Init implements Component.
func (hv *HelpView) Init() {}

// Start implements Component.
func (hv *HelpView) Start() {}

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	keyColor := hv.theme.MenuKeyColor
	kc := fmt.Sprintf("#%06x", keyColor.Hex())

	help := fmt.Sprintf(`
  [::b]Global Keys[-:-:-]

  [%s]:[-:-:-]    Command mode        [%s]Esc[-:-:-]   Cancel / Go back
  [%s]1-4[-:-:-]  Jump to view        [%s]Tab[-:-:-]   Next view
  [%s]q[-:-:-]    Quit                [%s]?[-:-:-]     Help

  [::b]Feed[-:-:-]

  [%s]t[-:-:-]    Next tab            [%s]n[-:-:-]     New thought
  [%s]l[-:-:-]    Like / Unlike       [%s]s[-:-:-]     Save / Unsave
  [%s]Enter[-:-:-] Open comments      [%s]j/k[-:-:-]   Move

  [::b]Thoughtmates[-:-:-]

  [%s]f[-:-:-]    Follow / Unfollow   [%s]Enter[-:-:-] Start conversation

  [::b]Chats[-:-:-]

  [%s]Enter[-:-:-] Open conversation  [%s]i[-:-:-]     Focus composer
  [%s]Esc[-:-:-]   Back to list       [%s]Enter[-:-:-] Send (in composer)

  [::b]Profile[-:-:-]

  [%s]b[-:-:-]    Edit bio            [%s]a[-:-:-]     Upload avatar
  [%s]d[-:-:-]    Delete thought      [%s]D[-:-:-]     Delete all thoughts

  [::b]Commands (: mode)[-:-:-]

  [%s]:feed[-:-:-] [%s]:mates[-:-:-] [%s]:chats[-:-:-] [%s]:profile[-:-:-]   Switch view
  [%s]:logout[-:-:-]            Sign out
  [%s]:help[-:-:-] / [%s]:h[-:-:-]       Show this help
  [%s]:quit[-:-:-] / [%s]:q[-:-:-]       Quit application
`,
		kc, kc, kc, kc, kc, kc,
		kc, kc, kc, kc, kc, kc,
		kc, kc,
		kc, kc, kc, kc,
		kc, kc, kc, kc,
		kc, kc, kc, kc, kc, kc, kc, kc, kc,
	)

	_, _ = fmt.Fprint(hv, help)
}
