package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matheus3301/ora/internal/store"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printThread(w io.Writer, asJSON bool, thread store.Thread) error {
	if asJSON {
		if thread == nil {
			thread = store.Thread{}
		}
		return printJSON(w, thread)
	}
	if len(thread) == 0 {
		fmt.Fprintln(w, "(no messages)")
		return nil
	}
	for _, m := range thread {
		fmt.Fprintf(w, "[%s] %s\n", m.CreatedAt.Local().Format("15:04"), m.Sender)
		for _, a := range m.Attachments {
			fmt.Fprintf(w, "  [%s] %s\n", a.Kind, a.Name)
		}
		for _, line := range strings.Split(m.Text, "\n") {
			if line != "" {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	return nil
}

func printStatus(w io.Writer, r statusReport) {
	fmt.Fprintf(w, "Session:    %s\n", r.Session)
	fmt.Fprintf(w, "Presence:   %s\n", r.Presence)
	if r.Profile != nil {
		fmt.Fprintf(w, "Profile:    %s <%s>\n", r.Profile.Name, r.Profile.Email)
	} else {
		fmt.Fprintln(w, "Profile:    (signed out)")
	}
	fmt.Fprintf(w, "Messages:   %d\n", r.Messages)
	fmt.Fprintf(w, "Keys:       %s\n", strings.Join(r.Keys, ", "))
	fmt.Fprintf(w, "Namespaces: %s\n", strings.Join(r.Namespaces, ", "))
}
