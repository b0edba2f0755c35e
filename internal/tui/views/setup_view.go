package views

import (
	"github.com/nikzart/HTLY/internal/tui/ui"
	"github.com/rivo/tview"
)

// SetupView is the first-run profile form: username, bio and an optional
// avatar image path.
type SetupView struct {
	*tview.Flex
	form     *tview.Form
	theme    *ui.Theme
	onSubmit func(username, bio, avatarPath string)
}

// NewSetupView creates the profile setup form.
func NewSetupView(theme *ui.Theme) *SetupView {
	sv := &SetupView{theme: theme}

	form := tview.NewForm().
		AddInputField("Username", "", 32, nil, nil).
		AddInputField("Bio", "", 0, nil, nil).
		AddInputField("Avatar image path (optional)", "", 0, nil, nil)
	form.AddButton("Save", func() {
		if sv.onSubmit != nil {
			sv.onSubmit(sv.field(0), sv.field(1), sv.field(2))
		}
	})
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetTitle(" Complete Your Profile ")
	form.SetTitleColor(theme.TitleColor)
	form.SetFieldBackgroundColor(theme.BgColor)
	form.SetFieldTextColor(theme.FgColor)
	form.SetLabelColor(theme.MenuKeyColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true)

	sv.Flex = flex
	sv.form = form
	return sv
}

// Name implements Component.
func (sv *SetupView) Name() string { return "Setup" }

// Init implements Component.
func (sv *SetupView) Init() {}

// Start implements Component.
func (sv *SetupView) Start() {}

// Stop implements Component.
func (sv *SetupView) Stop() {}

// Hints implements Component.
func (sv *SetupView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
	}
}

// SetOnSubmit sets the callback when the form is saved.
func (sv *SetupView) SetOnSubmit(fn func(username, bio, avatarPath string)) {
	sv.onSubmit = fn
}

// Form returns the underlying form for focus handling.
func (sv *SetupView) Form() *tview.Form { return sv.form }

// Prefill loads current values into the form fields.
func (sv *SetupView) Prefill(username, bio string) {
	sv.input(0).SetText(username)
	sv.input(1).SetText(bio)
}

func (sv *SetupView) field(i int) string {
	return sv.input(i).GetText()
}

func (sv *SetupView) input(i int) *tview.InputField {
	return sv.form.GetFormItem(i).(*tview.InputField)
}
