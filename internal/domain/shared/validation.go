package shared

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail trims and lowercases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email looks like a deliverable address
func ValidEmail(email string) bool {
	return len(email) <= 200 && emailPattern.MatchString(email)
}

// RequireText returns an INVALID_INPUT error when value is blank or longer than max runes
func RequireText(label, value string, max int) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return NewDomainError(CodeInvalidInput, label+" cannot be empty")
	}
	return LimitText(label, v, max)
}

// LimitText returns an INVALID_INPUT error when value is longer than max runes
func LimitText(label, value string, max int) error {
	if max > 0 && len([]rune(value)) > max {
		return NewDomainError(CodeInvalidInput, label+" is too long")
	}
	return nil
}
