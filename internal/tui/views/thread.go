package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/ora/internal/chat"
	"github.com/matheus3301/ora/internal/store"
	"github.com/matheus3301/ora/internal/tui/ui"
	"github.com/rivo/tview"
)

// ThreadView displays the conversation.
type ThreadView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewThreadView creates a new thread view.
func NewThreadView(theme *ui.Theme) *ThreadView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation ")
	tv.SetTitleColor(theme.TitleColor)

	return &ThreadView{TextView: tv, theme: theme}
}

// Update replaces the content with thread and scrolls to the newest entry.
func (v *ThreadView) Update(thread store.Thread, userName string) {
	v.Clear()
	_, _ = fmt.Fprint(v, RenderThread(v.theme, thread, userName))
	v.ScrollToEnd()
}

// RenderThread formats thread as tview markup.
func RenderThread(theme *ui.Theme, thread store.Thread, userName string) string {
	if len(thread) == 0 {
		return "[::d]Ask anything to start the conversation.[-:-:-]\n"
	}
	if userName == "" {
		userName = "You"
	}

	var b strings.Builder
	for _, m := range thread {
		if m.ID == chat.TypingIndicatorID {
			fmt.Fprintf(&b, "%s[::i]%s[-:-:-]\n\n", ui.Tag(theme.TypingColor), tview.Escape(m.Text))
			continue
		}

		who, color := "Assistant", theme.AssistantColor
		if m.Sender == store.SenderUser {
			who, color = userName, theme.UserColor
		}
		fmt.Fprintf(&b, "%s[::b]%s[-:-:-] [::d]%s[-:-:-]",
			ui.Tag(color), tview.Escape(sanitizeForTerminal(who)), m.CreatedAt.Local().Format("15:04"))
		if m.Sender == store.SenderUser && m.SearchRequested != nil && *m.SearchRequested {
			b.WriteString(" [::d](web)[-:-:-]")
		}
		b.WriteByte('\n')

		for _, a := range m.Attachments {
			fmt.Fprintf(&b, "  [::d]%s[-:-:-] %s\n", tview.Escape("["+string(a.Kind)+"]"), tview.Escape(sanitizeForTerminal(a.Name)))
		}
		if m.Text != "" {
			b.WriteString(tview.Escape(sanitizeForTerminal(m.Text)))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
