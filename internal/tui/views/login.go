package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/ora/internal/tui/ui"
	"github.com/rivo/tview"
)

const loginHelp = `
Sign in to start chatting.

Paste the credential (JWT) issued by your identity provider
below and press Enter. Conversations are kept on this machine
until you sign out.`

// LoginView is the signed-out page: a short explanation and a credential
// input.
type LoginView struct {
	*tview.Flex
	theme   *ui.Theme
	message *tview.TextView
	input   *tview.InputField
	onLogin func(credential string)
}

// NewLoginView creates the login page.
func NewLoginView(theme *ui.Theme) *LoginView {
	message := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	message.SetBackgroundColor(theme.BgColor)
	message.SetTextColor(theme.FgColor)

	input := tview.NewInputField().
		SetLabel(" credential: ").
		SetFieldWidth(0).
		SetMaskCharacter('*')
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(message, 0, 1, false).
		AddItem(input, 3, 0, true)
	flex.SetBorder(true)
	flex.SetBorderColor(theme.BorderColor)
	flex.SetBackgroundColor(theme.BgColor)
	flex.SetTitle(" Sign in ")
	flex.SetTitleColor(theme.TitleColor)

	lv := &LoginView{
		Flex:    flex,
		theme:   theme,
		message: message,
		input:   input,
	}

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && lv.onLogin != nil {
			lv.onLogin(input.GetText())
		}
	})

	lv.ShowError("")
	return lv
}

// SetOnLogin sets the callback for a submitted credential.
func (lv *LoginView) SetOnLogin(fn func(credential string)) {
	lv.onLogin = fn
}

// ShowError renders the help text followed by msg, if any.
func (lv *LoginView) ShowError(msg string) {
	lv.message.Clear()
	_, _ = fmt.Fprint(lv.message, tview.Escape(loginHelp))
	if msg != "" {
		_, _ = fmt.Fprintf(lv.message, "\n\n%s%s[-]", ui.Tag(lv.theme.FlashErrColor), tview.Escape(msg))
	}
}

// Reset clears the input.
func (lv *LoginView) Reset() {
	lv.input.SetText("")
	lv.ShowError("")
}

// Input returns the credential field (for focus management).
func (lv *LoginView) Input() *tview.InputField {
	return lv.input
}
