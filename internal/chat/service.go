// Package chat wires user actions to the session: login, submit and sign
// out.
package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/matheus3301/ora/internal/auth"
	"github.com/matheus3301/ora/internal/bus"
	"github.com/matheus3301/ora/internal/outbox"
	"github.com/matheus3301/ora/internal/reply"
	"github.com/matheus3301/ora/internal/state"
	"github.com/matheus3301/ora/internal/status"
	"github.com/matheus3301/ora/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrSignedOut is returned by Submit when nobody is signed in.
	ErrSignedOut = errors.New("not signed in")
	// ErrEmptySubmission is returned by Submit when there is nothing to send.
	ErrEmptySubmission = errors.New("nothing to send")
)

// TypingIndicatorID marks the transient entry View adds while a reply is
// pending.
const TypingIndicatorID = "typing-indicator"

const typingIndicatorText = "The assistant is preparing a reply..."

// Service is the composition of session state, reply pipeline and
// presence machine behind the user-facing actions.
type Service struct {
	state   *state.State
	sender  *outbox.Sender
	machine *status.Machine
	bus     *bus.Bus
	logger  *zap.Logger
}

// NewService creates a chat service.
func NewService(st *state.State, sender *outbox.Sender, machine *status.Machine, b *bus.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		state:   st,
		sender:  sender,
		machine: machine,
		bus:     b,
		logger:  logger,
	}
}

// Start moves the presence machine out of booting according to the loaded
// profile. State must already be initialized.
func (s *Service) Start() error {
	if s.state.Profile() != nil {
		return s.machine.Transition(status.Idle)
	}
	return s.machine.Transition(status.SignedOut)
}

// Login decodes the identity provider credential and signs the profile
// in. On failure the session is left untouched.
func (s *Service) Login(credential string) (*store.UserProfile, error) {
	profile, err := auth.Decode(credential)
	if err != nil {
		s.logger.Error("login failed", zap.Error(err))
		s.bus.Emit(bus.KindLoginFailed, err.Error())
		return nil, err
	}

	s.state.SetProfile(profile)
	s.machine.TransitionIf(status.SignedOut, status.Idle)
	s.logger.Info("signed in", zap.String("email", profile.Email))
	return profile, nil
}

// LoginFailed records the identity widget's error signal.
func (s *Service) LoginFailed(reason string) {
	s.logger.Error("identity provider reported an error", zap.String("reason", reason))
	s.bus.Emit(bus.KindLoginFailed, reason)
}

// Submit appends the user message and queues the assistant reply. It is a
// no-op returning ErrSignedOut or ErrEmptySubmission when there is nobody
// to send as or nothing to send.
func (s *Service) Submit(sub reply.Submission) (*store.Message, error) {
	if s.state.Profile() == nil {
		return nil, ErrSignedOut
	}
	sub.Text = strings.TrimSpace(sub.Text)
	if sub.Text == "" && len(sub.Attachments) == 0 {
		return nil, ErrEmptySubmission
	}

	now := time.Now()
	search := sub.SearchRequested
	msg := store.Message{
		ID:              store.NewMessageID(now),
		Text:            sub.Text,
		CreatedAt:       now,
		Sender:          store.SenderUser,
		Attachments:     append([]store.Attachment(nil), sub.Attachments...),
		SearchRequested: &search,
	}
	s.state.AppendMessage(msg)
	s.sender.Enqueue(sub)

	s.logger.Debug("message submitted",
		zap.String("id", msg.ID),
		zap.Int("attachments", len(msg.Attachments)),
		zap.Bool("search", search))
	return &msg, nil
}

// SignOut withdraws pending replies and resets the session.
func (s *Service) SignOut() {
	s.sender.Cancel()
	s.state.Reset()
	if cur := s.machine.Current(); cur == status.Idle || cur == status.Replying {
		_ = s.machine.Transition(status.SignedOut)
	}
	s.logger.Info("signed out")
}

// View returns the thread as it should be rendered: the stored messages
// plus a typing indicator while a reply is pending.
func (s *Service) View() store.Thread {
	snap := s.state.Snapshot()
	if !snap.AssistantBusy {
		return snap.Thread
	}
	return append(snap.Thread, store.Message{
		ID:        TypingIndicatorID,
		Text:      typingIndicatorText,
		CreatedAt: time.Now(),
		Sender:    store.SenderAssistant,
	})
}

// Profile returns the signed-in profile, or nil.
func (s *Service) Profile() *store.UserProfile {
	return s.state.Profile()
}

// Presence returns the current presence state.
func (s *Service) Presence() status.State {
	return s.machine.Current()
}

// Pending returns how many submissions still await a reply.
func (s *Service) Pending() int {
	return s.sender.Pending()
}
