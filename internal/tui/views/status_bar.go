package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusBar displays persistent session state: profile, connection, the
// aggregate unread badge, a clock and the current flash message.
type StatusBar struct {
	*tview.TextView
	profile    string
	username   string
	connection string
	unread     int
	flash      string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv, connection: "offline"}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetUsername updates the signed-in account display.
func (sb *StatusBar) SetUsername(name string) {
	sb.username = name
	sb.render()
}

// SetConnection updates the realtime connection indicator.
func (sb *StatusBar) SetConnection(state string) {
	sb.connection = state
	sb.render()
}

// SetUnread updates the aggregate unread badge.
func (sb *StatusBar) SetUnread(n int) {
	sb.unread = n
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	conn := "[red]●[-]"
	if sb.connection == "online" {
		conn = "[green]●[-]"
	}

	who := sb.profile
	if sb.username != "" {
		who = fmt.Sprintf("%s (@%s)", sb.profile, sb.username)
	}

	badge := ""
	if sb.unread > 0 {
		badge = fmt.Sprintf(" | [::b]✉ %d[-:-:-]", sb.unread)
	}

	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s %s%s | %s", who, conn, sb.connection, badge, clock)
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}
