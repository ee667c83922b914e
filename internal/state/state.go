// Package state holds the session state of one namespace: the signed-in
// profile, the message thread and the assistant busy flag. Profile and
// thread are mirrored to the store on every change; the busy flag is not.
package state

import (
	"slices"
	"sync"

	"github.com/matheus3301/ora/internal/bus"
	"github.com/matheus3301/ora/internal/store"
	"go.uber.org/zap"
)

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	Profile       *store.UserProfile
	Thread        store.Thread
	AssistantBusy bool
}

// State is the session context owned by the composition root.
type State struct {
	mu      sync.RWMutex
	kv      *store.KV
	bus     *bus.Bus
	logger  *zap.Logger
	profile *store.UserProfile
	thread  store.Thread
	busy    bool
}

// New creates an empty state backed by kv. Call Initialize to load what
// the store already holds.
func New(kv *store.KV, b *bus.Bus, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{kv: kv, bus: b, logger: logger}
}

// Initialize loads profile and thread from the store. Absent or corrupt
// values yield no profile and an empty thread.
func (s *State) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = nil
	if p, ok := store.Read[store.UserProfile](s.kv, store.ProfileKey); ok {
		s.profile = &p
	}
	s.thread = nil
	if t, ok := store.Read[store.Thread](s.kv, store.ThreadKey); ok {
		s.thread = t
	}
	s.busy = false

	s.logger.Info("session state loaded",
		zap.Bool("signed_in", s.profile != nil),
		zap.Int("messages", len(s.thread)))
}

// Profile returns a copy of the current profile, or nil when signed out.
func (s *State) Profile() *store.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProfile(s.profile)
}

// Thread returns a copy of the thread in append order.
func (s *State) Thread() store.Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.thread)
}

// AssistantBusy reports whether a reply is pending.
func (s *State) AssistantBusy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// Snapshot returns all three fields read under one lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Profile:       copyProfile(s.profile),
		Thread:        slices.Clone(s.thread),
		AssistantBusy: s.busy,
	}
}

// SetProfile replaces the profile and persists it. nil signs out the
// profile without touching the thread.
func (s *State) SetProfile(p *store.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = copyProfile(p)
	s.persist(store.ProfileKey, func() error { return store.Write(s.kv, store.ProfileKey, s.profile) })
	s.bus.Emit(bus.KindProfileChanged, copyProfile(p))
}

// AppendMessage adds m to the end of the thread and persists the whole
// thread. Earlier messages are never touched.
func (s *State) AppendMessage(m store.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clip capacity so the append never writes into a slice a reader still holds.
	s.thread = append(s.thread[:len(s.thread):len(s.thread)], m)
	s.persist(store.ThreadKey, func() error { return store.Write(s.kv, store.ThreadKey, &s.thread) })
	s.bus.Emit(bus.KindMessageAppend, m)
}

// Reset clears profile, thread and busy flag and removes both keys. The
// whole reset happens under the lock.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = nil
	s.thread = nil
	s.busy = false
	s.persist(store.ProfileKey, func() error { return store.Write[store.UserProfile](s.kv, store.ProfileKey, nil) })
	s.persist(store.ThreadKey, func() error { return store.Write[store.Thread](s.kv, store.ThreadKey, nil) })
	s.bus.Emit(bus.KindSessionReset, nil)
}

// SetAssistantBusy sets the ephemeral busy flag.
func (s *State) SetAssistantBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy == busy {
		return
	}
	s.busy = busy
	s.bus.Emit(bus.KindBusyChanged, busy)
}

// persist runs a store write. The store is a best-effort cache, so a
// failure is logged and memory stays authoritative.
func (s *State) persist(key string, write func() error) {
	if err := write(); err != nil {
		s.logger.Warn("failed to persist session state", zap.String("key", key), zap.Error(err))
	}
}

func copyProfile(p *store.UserProfile) *store.UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
