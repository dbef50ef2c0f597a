package auth

import (
	"strings"

	"golang.org/x/text/cases"
)

var emailFold = cases.Fold()

// NormalizeEmail trims and case-folds an email. Account lookups and the
// login throttle key both go through it.
func NormalizeEmail(email string) string {
	return emailFold.String(strings.TrimSpace(email))
}
