package keys

import (
	"reflect"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestRegistryPageBeforeGlobal(t *testing.T) {
	r := NewRegistry()
	var hit string
	r.AddGlobal(&Action{Key: tcell.KeyCtrlQ, Description: "^Q:quit", Visible: true, Handler: func() { hit = "quit" }})
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'x', Handler: func() { hit = "global-x" }})
	r.AddPage("chat", &Action{Key: tcell.KeyRune, Rune: 'x', Description: "x:page", Visible: true, Handler: func() { hit = "page-x" }})

	if !r.HandleEvent("chat", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) || hit != "page-x" {
		t.Errorf("chat page x hit = %q", hit)
	}
	if !r.HandleEvent("login", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) || hit != "global-x" {
		t.Errorf("login page x hit = %q", hit)
	}
	if !r.HandleEvent("login", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)) || hit != "quit" {
		t.Errorf("ctrl-q hit = %q", hit)
	}
	if r.HandleEvent("chat", tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone)) {
		t.Error("y should not match")
	}

	if got, want := r.Hints("chat"), []string{"x:page", "^Q:quit"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Hints(chat) = %v, want %v", got, want)
	}
	if got, want := r.Hints("login"), []string{"^Q:quit"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Hints(login) = %v, want %v", got, want)
	}
}
