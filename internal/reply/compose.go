// Package reply synthesizes the assistant's reply to a submission and
// schedules its delivery after a fixed delay.
package reply

import (
	"strings"

	"github.com/matheus3301/ora/internal/store"
)

const (
	webSearchLine   = "Searching the web to back up this answer."
	localOnlyLine   = "Answering from local knowledge only."
	waitLine        = "Please wait a moment..."
	attachmentsHead = "Looking at the attached "
	imageMarker     = " (image)"
	nameSeparator   = " / "
	ackSuffix       = " - understood."

	// quoteLimit is counted in runes.
	quoteLimit = 120
)

// Submission is one compose-and-send action.
type Submission struct {
	Text            string
	Attachments     []store.Attachment
	SearchRequested bool
}

// Compose builds the reply body for sub. It is pure and never fails.
func Compose(sub Submission) string {
	lines := make([]string, 0, 4)

	text := strings.TrimSpace(sub.Text)
	if text != "" {
		lines = append(lines, `"`+truncateRunes(text, quoteLimit)+`"`+ackSuffix)
	}

	if sub.SearchRequested {
		lines = append(lines, webSearchLine)
	} else {
		lines = append(lines, localOnlyLine)
	}

	if len(sub.Attachments) > 0 {
		names := make([]string, len(sub.Attachments))
		for i, a := range sub.Attachments {
			names[i] = a.Name
			if a.Kind == store.KindImage {
				names[i] += imageMarker
			}
		}
		lines = append(lines, attachmentsHead+strings.Join(names, nameSeparator))
	}

	lines = append(lines, waitLine)
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
