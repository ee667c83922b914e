package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/ora/internal/status"
	"github.com/matheus3301/ora/internal/tui/model"
	"github.com/matheus3301/ora/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar shows namespace, presence, search mode, pending attachments
// and the current flash message.
type StatusBar struct {
	*tview.TextView
	theme *ui.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv, theme: theme}
}

// Update redraws the bar.
func (sb *StatusBar) Update(s model.Status, flash string, level model.FlashLevel, hints []string) {
	sb.Clear()
	_, _ = fmt.Fprint(sb, RenderStatus(sb.theme, s, flash, level, hints))
}

// RenderStatus formats the status line as tview markup.
func RenderStatus(theme *ui.Theme, s model.Status, flash string, level model.FlashLevel, hints []string) string {
	parts := []string{fmt.Sprintf(" [::b]%s[-:-:-]", tview.Escape(s.Session))}

	presence := strings.ToLower(string(s.Presence))
	if s.Presence == status.Replying && s.Pending > 1 {
		presence = fmt.Sprintf("%s (%d queued)", presence, s.Pending-1)
	}
	if s.User != "" {
		presence = tview.Escape(s.User) + " " + presence
	}
	parts = append(parts, presence)

	if s.Search {
		parts = append(parts, "[green]web search on[-]")
	} else {
		parts = append(parts, "[::d]web search off[-:-:-]")
	}
	if len(s.Attachments) > 0 {
		parts = append(parts, fmt.Sprintf("%d attached: %s", len(s.Attachments), tview.Escape(strings.Join(s.Attachments, ", "))))
	}
	if len(hints) > 0 {
		parts = append(parts, ui.Tag(theme.MenuKeyColor)+tview.Escape(strings.Join(hints, " "))+"[-]")
	}
	if flash != "" {
		color := theme.FlashInfoColor
		switch level {
		case model.FlashWarn:
			color = theme.FlashWarnColor
		case model.FlashErr:
			color = theme.FlashErrColor
		}
		parts = append(parts, ui.Tag(color)+tview.Escape(flash)+"[-]")
	}
	return strings.Join(parts, " | ")
}
