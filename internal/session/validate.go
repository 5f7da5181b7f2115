package session

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinDisplayNameLen = 2
	MaxDisplayNameLen = 32
)

// ValidateDisplayName trims name and checks it against the join rules.
// It returns the trimmed name.
func ValidateDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinDisplayNameLen {
		return "", fmt.Errorf("%w: %q must be at least %d characters", ErrInvalidName, name, MinDisplayNameLen)
	}
	if n > MaxDisplayNameLen {
		return "", fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidName, name, MaxDisplayNameLen)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: %q contains control characters", ErrInvalidName, name)
	}
	return name, nil
}
