package validator

import (
	"strings"
	"time"

	"github.com/empdesk/empdesk/domain/entity"
	"github.com/empdesk/empdesk/domain/valueobject"
)

// maxTokenLength bounds opaque tokens read from requests before they reach
// the stores or the JWT parser.
const maxTokenLength = 4096

// ValidateEmail checks the address shape only.
func ValidateEmail(email string) bool {
	_, err := valueobject.NewEmail(email)
	return err == nil
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidateDate accepts calendar dates in YYYY-MM-DD form.
func ValidateDate(value string) bool {
	_, err := time.Parse(entity.DateLayout, value)
	return err == nil
}

// ValidateToken rejects values that cannot be a signed token before any
// lookup is made.
func ValidateToken(token string) bool {
	return token != "" && len(token) <= maxTokenLength && !strings.ContainsAny(token, " \t\r\n")
}
