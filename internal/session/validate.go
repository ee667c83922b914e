package session

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxNameLength bounds a namespace name.
const MaxNameLength = 64

// ErrInvalidName is wrapped by ValidateName failures.
var ErrInvalidName = errors.New("invalid namespace name")

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateName checks that name can be used as a namespace directory:
// lowercase letters, digits, '-' and '_', starting with a letter or digit.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w %q: longer than %d characters", ErrInvalidName, name, MaxNameLength)
	case !namePattern.MatchString(name):
		return fmt.Errorf("%w %q: use lowercase letters, digits, '-' and '_'", ErrInvalidName, name)
	}
	return nil
}
