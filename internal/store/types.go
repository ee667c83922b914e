package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage keys for the two durable slots of a namespace.
const (
	ProfileKey = "oraapp:user"
	ThreadKey  = "oraapp:messages"
)

// UserProfile is the display identity of the signed-in principal.
type UserProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// Validate reports whether a decoded profile has the expected shape.
func (p *UserProfile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is empty")
	}
	if p.Email == "" {
		return errors.New("profile email is empty")
	}
	return nil
}

// AttachmentKind tells which composer control produced an attachment.
type AttachmentKind string

const (
	KindImage AttachmentKind = "image"
	KindFile  AttachmentKind = "file"
)

// Attachment is a file embedded into a message. ContentRef is a data URI.
type Attachment struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kind       AttachmentKind `json:"type"`
	ContentRef string         `json:"url"`
}

func (a *Attachment) Validate() error {
	if a.ID == "" || a.Name == "" {
		return errors.New("attachment id or name is empty")
	}
	if a.Kind != KindImage && a.Kind != KindFile {
		return fmt.Errorf("attachment %q: unknown kind %q", a.Name, a.Kind)
	}
	if !strings.HasPrefix(a.ContentRef, "data:") {
		return fmt.Errorf("attachment %q: content is not a data URI", a.Name)
	}
	return nil
}

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one immutable entry of the thread.
type Message struct {
	ID              string       `json:"id"`
	Text            string       `json:"text"`
	CreatedAt       time.Time    `json:"createdAt"`
	Sender          Sender       `json:"from"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	SearchRequested *bool        `json:"webSearchEnabled,omitempty"`
}

func (m *Message) Validate() error {
	if m.ID == "" {
		return errors.New("message id is empty")
	}
	if m.Sender != SenderUser && m.Sender != SenderAssistant {
		return fmt.Errorf("message %s: unknown sender %q", m.ID, m.Sender)
	}
	if m.CreatedAt.IsZero() {
		return fmt.Errorf("message %s: missing createdAt", m.ID)
	}
	for i := range m.Attachments {
		if err := m.Attachments[i].Validate(); err != nil {
			return fmt.Errorf("message %s: %w", m.ID, err)
		}
	}
	return nil
}

// Thread is the ordered, append-only message sequence.
type Thread []Message

func (t *Thread) Validate() error {
	for i := range *t {
		if err := (*t)[i].Validate(); err != nil {
			return fmt.Errorf("thread[%d]: %w", i, err)
		}
	}
	return nil
}

// NewMessageID returns "<unix millis>-<random suffix>". Uniqueness is
// probabilistic, which is enough for one namespace.
func NewMessageID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}
