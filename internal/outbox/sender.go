// Package outbox serializes assistant replies: submissions queue up and
// are answered one at a time, in order.
package outbox

import (
	"sync"
	"time"

	"github.com/matheus3301/ora/internal/bus"
	"github.com/matheus3301/ora/internal/reply"
	"github.com/matheus3301/ora/internal/status"
	"github.com/matheus3301/ora/internal/store"
	"go.uber.org/zap"
)

// Thread is the part of the session state the sender writes to.
type Thread interface {
	AppendMessage(m store.Message)
	SetAssistantBusy(busy bool)
}

// Sender drains queued submissions through the reply scheduler. Only one
// reply timer is pending at a time.
type Sender struct {
	mu        sync.Mutex
	thread    Thread
	scheduler *reply.Scheduler
	machine   *status.Machine
	bus       *bus.Bus
	logger    *zap.Logger

	queue      []reply.Submission
	current    *reply.Timer
	generation uint64
	stopped    bool
}

// NewSender creates a sender. machine may be nil.
func NewSender(thread Thread, scheduler *reply.Scheduler, machine *status.Machine, b *bus.Bus, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		thread:    thread,
		scheduler: scheduler,
		machine:   machine,
		bus:       b,
		logger:    logger,
	}
}

// Enqueue queues sub for a reply and marks the assistant busy.
func (s *Sender) Enqueue(sub reply.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn("dropping submission, sender stopped")
		return
	}
	s.queue = append(s.queue, sub)
	if s.current != nil {
		s.logger.Debug("reply queued behind pending reply", zap.Int("pending", len(s.queue)))
		return
	}
	s.thread.SetAssistantBusy(true)
	if s.machine != nil {
		s.machine.TransitionIf(status.Idle, status.Replying)
	}
	s.startNextLocked()
}

// Pending returns the number of submissions awaiting a reply, including
// the one whose timer is running.
func (s *Sender) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Cancel withdraws the pending reply and drops the queue. A timer that
// already fired is ignored when its callback runs.
func (s *Sender) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Stop cancels everything and refuses further submissions.
func (s *Sender) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.stopped = true
}

func (s *Sender) cancelLocked() {
	s.generation++
	dropped := len(s.queue)
	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
	s.queue = nil
	if dropped > 0 {
		s.logger.Info("pending replies cancelled", zap.Int("dropped", dropped))
		s.bus.Emit(bus.KindReplyDropped, dropped)
	}
}

// startNextLocked schedules the head of the queue. s.mu must be held.
func (s *Sender) startNextLocked() {
	sub := s.queue[0]
	gen := s.generation
	s.current = s.scheduler.Schedule(sub, func(body string) {
		s.deliver(gen, body)
	})
}

func (s *Sender) deliver(gen uint64, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding stale reply")
		return
	}

	now := time.Now()
	s.thread.AppendMessage(store.Message{
		ID:        store.NewMessageID(now),
		Text:      body,
		CreatedAt: now,
		Sender:    store.SenderAssistant,
	})

	s.queue = s.queue[1:]
	s.current = nil
	if len(s.queue) > 0 {
		s.startNextLocked()
		return
	}

	s.thread.SetAssistantBusy(false)
	if s.machine != nil {
		s.machine.TransitionIf(status.Replying, status.Idle)
	}
}
