package outbox

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/ora/internal/bus"
	"github.com/matheus3301/ora/internal/reply"
	"github.com/matheus3301/ora/internal/status"
	"github.com/matheus3301/ora/internal/store"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeThread records what the sender writes.
type fakeThread struct {
	mu       sync.Mutex
	messages []store.Message
	busy     []bool
}

func (f *fakeThread) AppendMessage(m store.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, m)
}

func (f *fakeThread) SetAssistantBusy(b bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = append(f.busy, b)
}

func (f *fakeThread) snapshot() ([]store.Message, []bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Message(nil), f.messages...), append([]bool(nil), f.busy...)
}

func idleMachine(t *testing.T) *status.Machine {
	t.Helper()
	m := status.NewMachine(nil)
	if err := m.Transition(status.Idle); err != nil {
		t.Fatal(err)
	}
	return m
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSenderDeliversReply(t *testing.T) {
	th := &fakeThread{}
	m := idleMachine(t)
	s := NewSender(th, reply.NewScheduler(10*time.Millisecond), m, nil, nil)
	defer s.Stop()

	s.Enqueue(reply.Submission{Text: "hello", SearchRequested: true})
	if m.Current() != status.Replying {
		t.Errorf("state = %s, want REPLYING", m.Current())
	}

	waitFor(t, func() bool { msgs, _ := th.snapshot(); return len(msgs) == 1 })

	msgs, busy := th.snapshot()
	if msgs[0].Sender != store.SenderAssistant {
		t.Errorf("sender = %q, want assistant", msgs[0].Sender)
	}
	if msgs[0].Text != reply.Compose(reply.Submission{Text: "hello", SearchRequested: true}) {
		t.Errorf("text = %q", msgs[0].Text)
	}
	if len(busy) != 2 || !busy[0] || busy[1] {
		t.Errorf("busy transitions = %v, want [true false]", busy)
	}
	waitFor(t, func() bool { return m.Current() == status.Idle })
}

func TestSenderSerializesInOrder(t *testing.T) {
	th := &fakeThread{}
	s := NewSender(th, reply.NewScheduler(15*time.Millisecond), nil, nil, nil)
	defer s.Stop()

	for _, text := range []string{"first", "second", "third"} {
		s.Enqueue(reply.Submission{Text: text})
	}
	if s.Pending() != 3 {
		t.Errorf("pending = %d, want 3", s.Pending())
	}

	waitFor(t, func() bool { msgs, _ := th.snapshot(); return len(msgs) == 3 })

	msgs, busy := th.snapshot()
	for i, want := range []string{"first", "second", "third"} {
		if !strings.HasPrefix(msgs[i].Text, `"`+want+`"`) {
			t.Errorf("reply %d = %q, want quote of %q", i, msgs[i].Text, want)
		}
	}
	// Busy is raised once and lowered once for the whole burst.
	if len(busy) != 2 || !busy[0] || busy[1] {
		t.Errorf("busy transitions = %v, want [true false]", busy)
	}
	if s.Pending() != 0 {
		t.Errorf("pending = %d after drain", s.Pending())
	}
}

func TestSenderCancelDropsPending(t *testing.T) {
	th := &fakeThread{}
	b := bus.New()
	ch, unsub := b.Subscribe("assistant.", 4)
	defer unsub()

	s := NewSender(th, reply.NewScheduler(30*time.Millisecond), nil, b, nil)
	defer s.Stop()

	s.Enqueue(reply.Submission{Text: "a"})
	s.Enqueue(reply.Submission{Text: "b"})
	s.Cancel()

	time.Sleep(100 * time.Millisecond)
	msgs, _ := th.snapshot()
	if len(msgs) != 0 {
		t.Errorf("got %d replies after cancel, want 0", len(msgs))
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindReplyDropped || evt.Payload != 2 {
			t.Errorf("event = %+v, want reply_dropped(2)", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no reply_dropped event")
	}

	// The sender is usable again after a cancel.
	s.Enqueue(reply.Submission{Text: "c"})
	waitFor(t, func() bool { msgs, _ := th.snapshot(); return len(msgs) == 1 })
}

func TestSenderStaleCallbackIgnored(t *testing.T) {
	th := &fakeThread{}
	s := NewSender(th, reply.NewScheduler(time.Hour), nil, nil, nil)
	defer s.Stop()

	s.Enqueue(reply.Submission{Text: "old"})
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	s.Cancel()
	// Simulate a timer that fired just before the cancel took the lock.
	s.deliver(gen, "stale body")

	msgs, _ := th.snapshot()
	if len(msgs) != 0 {
		t.Errorf("stale reply appended: %+v", msgs)
	}
}

func TestSenderStopRefusesWork(t *testing.T) {
	th := &fakeThread{}
	s := NewSender(th, reply.NewScheduler(5*time.Millisecond), nil, nil, nil)
	s.Stop()

	s.Enqueue(reply.Submission{Text: "late"})
	time.Sleep(30 * time.Millisecond)

	msgs, busy := th.snapshot()
	if len(msgs) != 0 || len(busy) != 0 {
		t.Errorf("stopped sender did work: msgs=%d busy=%v", len(msgs), busy)
	}
}
