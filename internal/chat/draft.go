package chat

import (
	"slices"
	"strings"

	"github.com/matheus3301/ora/internal/reply"
	"github.com/matheus3301/ora/internal/store"
)

// Draft is the composer's unsent state. It is not safe for concurrent use.
type Draft struct {
	Text        string
	Attachments []store.Attachment
	Search      bool
}

// NewDraft returns an empty draft with the given web search default.
func NewDraft(search bool) *Draft {
	return &Draft{Search: search}
}

// Attach appends encoded attachments in order.
func (d *Draft) Attach(as ...store.Attachment) {
	d.Attachments = append(d.Attachments, as...)
}

// Detach removes every attachment with the given id.
func (d *Draft) Detach(id string) bool {
	n := len(d.Attachments)
	d.Attachments = slices.DeleteFunc(d.Attachments, func(a store.Attachment) bool { return a.ID == id })
	return len(d.Attachments) != n
}

// ToggleSearch flips the web search hint and returns the new value.
func (d *Draft) ToggleSearch() bool {
	d.Search = !d.Search
	return d.Search
}

// CanSend reports whether the draft has text or attachments.
func (d *Draft) CanSend() bool {
	return strings.TrimSpace(d.Text) != "" || len(d.Attachments) > 0
}

// Submission converts the draft for sending.
func (d *Draft) Submission() reply.Submission {
	return reply.Submission{
		Text:            strings.TrimSpace(d.Text),
		Attachments:     slices.Clone(d.Attachments),
		SearchRequested: d.Search,
	}
}

// Clear empties text and attachments after a send; the search hint stays.
func (d *Draft) Clear() {
	d.Text = ""
	d.Attachments = nil
}
