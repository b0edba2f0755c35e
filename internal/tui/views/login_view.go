package views

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView displays the device-authorization verification QR code and
// user code.
type LoginView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewLoginView creates a new login view.
func NewLoginView(theme *ui.Theme) *LoginView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Sign In ")
	tv.SetTitleColor(theme.TitleColor)

	return &LoginView{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (lv *LoginView) Name() string { return "Sign In" }

// Init implements Component.
func (lv *LoginView) Init() {}

// Start implements Component.
func (lv *LoginView) Start() {}

// Stop implements Component.
func (lv *LoginView) Stop() {}

// Hints implements Component.
func (lv *LoginView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Start sign in"},
		{Key: "q", Description: "Quit"},
	}
}

// ShowQR renders the verification URL as a scannable QR code together with
// the user code to enter on the verification page.
func (lv *LoginView) ShowQR(verificationURL, userCode string) {
	lv.Clear()

	ascii := renderQR(verificationURL)
	_, _ = fmt.Fprintf(lv,
		"\n  Scan to approve this device, or open:\n  %s\n\n%s\n  Your code: [::b]%s[-:-:-]\n\n  [::d]Waiting for approval...",
		verificationURL, ascii, userCode)
}

// ShowMessage displays a status message.
func (lv *LoginView) ShowMessage(msg string) {
	lv.Clear()
	_, _ = fmt.Fprintf(lv, "\n\n%s", msg)
}

// renderQR converts a string to a compact ASCII QR code using Unicode
// half-block characters.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder

	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('\u2588') // █
			case top && !bot:
				sb.WriteRune('\u2580') // ▀
			case !top && bot:
				sb.WriteRune('\u2584') // ▄
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}

	return sb.String()
}
