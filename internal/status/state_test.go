package status

import (
	"testing"

	"github.com/matheus3301/ora/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Booting {
		t.Errorf("initial state = %s, want BOOTING", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		path []State
	}{
		{[]State{SignedOut}},
		{[]State{Idle}},
		{[]State{SignedOut, Idle, Replying, Idle}},
		{[]State{Idle, Replying, SignedOut}},
		{[]State{Idle, SignedOut, Idle}},
	}
	for _, tt := range tests {
		m := NewMachine(nil)
		for _, to := range tt.path {
			if err := m.Transition(to); err != nil {
				t.Fatalf("path %v: Transition(%s) error = %v", tt.path, to, err)
			}
		}
		if want := tt.path[len(tt.path)-1]; m.Current() != want {
			t.Errorf("state = %s, want %s", m.Current(), want)
		}
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from []State
		to   State
	}{
		{"booting to replying", nil, Replying},
		{"signed out to replying", []State{SignedOut}, Replying},
		{"idle to idle", []State{Idle}, Idle},
		{"replying to replying", []State{Idle, Replying}, Replying},
		{"back to booting", []State{Idle}, Booting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(nil)
			for _, s := range tt.from {
				if err := m.Transition(s); err != nil {
					t.Fatal(err)
				}
			}
			before := m.Current()
			if err := m.Transition(tt.to); err == nil {
				t.Errorf("Transition(%s -> %s) should fail", before, tt.to)
			}
			if m.Current() != before {
				t.Errorf("state changed to %s after failed transition", m.Current())
			}
		})
	}
}

func TestTransitionIf(t *testing.T) {
	m := NewMachine(nil)
	if m.TransitionIf(Idle, Replying) {
		t.Error("TransitionIf should not fire from BOOTING")
	}
	_ = m.Transition(Idle)
	if !m.TransitionIf(Idle, Replying) {
		t.Error("TransitionIf(IDLE -> REPLYING) did not fire")
	}
	if m.Current() != Replying {
		t.Errorf("state = %s, want REPLYING", m.Current())
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(SignedOut); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != bus.KindStatusChanged {
		t.Errorf("event kind = %q, want %s", evt.Kind, bus.KindStatusChanged)
	}
	change, ok := evt.Payload.(StatusChange)
	if !ok {
		t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
	}
	if change.From != Booting || change.To != SignedOut {
		t.Errorf("change = %v -> %v, want BOOTING -> SIGNED_OUT", change.From, change.To)
	}
}
