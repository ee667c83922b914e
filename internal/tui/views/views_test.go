package views

import (
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/ora/internal/chat"
	"github.com/matheus3301/ora/internal/status"
	"github.com/matheus3301/ora/internal/store"
	"github.com/matheus3301/ora/internal/tui/model"
	"github.com/matheus3301/ora/internal/tui/ui"
)

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"\U0001F44D\U0001F3FB", "\U0001F44D"},
		{"a\u200Db", "ab"},
		{"\u2764\uFE0F", "\u2764"},
	}
	for _, tt := range tests {
		if got := sanitizeForTerminal(tt.in); got != tt.want {
			t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderThreadEmpty(t *testing.T) {
	got := RenderThread(ui.DefaultTheme(), nil, "Ada")
	if !strings.Contains(got, "start the conversation") {
		t.Errorf("empty render = %q", got)
	}
}

func TestRenderThread(t *testing.T) {
	search := true
	thread := store.Thread{
		{
			ID: "1", Text: "look [here]", Sender: store.SenderUser, CreatedAt: time.Now(),
			SearchRequested: &search,
			Attachments:     []store.Attachment{{ID: "a", Name: "cat.png", Kind: store.KindImage, ContentRef: "data:image/png;base64,"}},
		},
		{ID: "2", Text: "line one\nline two", Sender: store.SenderAssistant, CreatedAt: time.Now()},
		{ID: chat.TypingIndicatorID, Text: "typing", Sender: store.SenderAssistant, CreatedAt: time.Now()},
	}

	got := RenderThread(ui.DefaultTheme(), thread, "Ada")
	for _, want := range []string{"Ada", "(web)", "[image[]", "cat.png", "look [here[]", "Assistant", "line one\nline two", "[::i]typing"} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q:\n%s", want, got)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	theme := ui.DefaultTheme()
	s := model.Status{
		Session:     "work",
		Presence:    status.Replying,
		User:        "Ada",
		Search:      false,
		Attachments: []string{"a.txt", "b.png"},
		Pending:     3,
	}
	got := RenderStatus(theme, s, "oops", model.FlashErr, []string{"^Q:quit"})
	for _, want := range []string{"work", "Ada replying (2 queued)", "web search off", "2 attached: a.txt, b.png", "^Q:quit", "oops"} {
		if !strings.Contains(got, want) {
			t.Errorf("status missing %q: %s", want, got)
		}
	}
}
