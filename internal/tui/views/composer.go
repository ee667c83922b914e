package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/ora/internal/tui/ui"
	"github.com/rivo/tview"
)

// Composer is the input line for messages and slash commands.
type Composer struct {
	*tview.InputField
	onSubmit func(line string)
}

// NewComposer creates a new message composer.
func NewComposer(theme *ui.Theme) *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0).
		SetPlaceholder("message, or /image /file /detach /search /signout /quit")
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	c := &Composer{InputField: input}

	// Empty lines are forwarded too: pending attachments can be sent alone.
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.onSubmit != nil {
			c.onSubmit(c.GetText())
		}
	})

	return c
}

// SetOnSubmit sets the callback for Enter.
func (c *Composer) SetOnSubmit(fn func(line string)) {
	c.onSubmit = fn
}
