package users

import (
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
)

// NormalizeEmail folds an email the same way the login throttle does.
func NormalizeEmail(email string) string {
	return auth.NormalizeEmail(email)
}

// NormalizeUsername trims surrounding whitespace.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
