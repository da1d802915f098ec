package valueobject

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email format")

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NewEmail validates address and returns it lower-cased.
func NewEmail(address string) (string, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return "", ErrInvalidEmail
	}
	if !emailRegex.MatchString(address) {
		return "", ErrInvalidEmail
	}
	return address, nil
}
