package model

import "strings"

// Command is a parsed composer command such as "/image cat.png".
type Command struct {
	Name string
	Args string
}

// ParseCommand recognizes lines starting with '/'. Anything else is
// message text and ok is false. "//text" escapes a leading slash.
func ParseCommand(line string) (cmd Command, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "//") || trimmed == "/" {
		return Command{}, false
	}
	parts := strings.SplitN(trimmed[1:], " ", 2)
	cmd.Name = strings.ToLower(parts[0])
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd, true
}

// Unescape drops the escaping slash of a "//" line.
func Unescape(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "//") {
		return trimmed[1:]
	}
	return line
}
