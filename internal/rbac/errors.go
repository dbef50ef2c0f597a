package rbac

import "errors"

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("no token provided")
	// ErrInvalidSignature indicates a malformed token or a bad signature.
	ErrInvalidSignature = errors.New("invalid token")
	// ErrExpired indicates the token is at or past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrPrincipalNotFound indicates the identity does not exist in the store.
	ErrPrincipalNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates a password mismatch at login.
	ErrInvalidCredentials = errors.New("wrong password")
	// ErrForbidden indicates the principal lacks the required permission.
	ErrForbidden = errors.New("forbidden")
)

// IsAuthentication reports whether err belongs to the 401 class.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrPrincipalNotFound)
}
