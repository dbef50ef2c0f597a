package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Verifier authenticates bearer tokens and resolves the subject against the
// store on every call, so role and permission edits apply to the next request.
type Verifier struct {
	tokens   *Tokens
	accounts AccountFinder
}

// NewVerifier constructs a Verifier.
func NewVerifier(tokens *Tokens, accounts AccountFinder) *Verifier {
	return &Verifier{tokens: tokens, accounts: accounts}
}

// Verify implements rbac.Verifier.
func (v *Verifier) Verify(r *http.Request) (rbac.Principal, error) {
	raw, ok := BearerToken(r)
	if !ok {
		return rbac.Principal{}, rbac.ErrMissingToken
	}
	return v.VerifyToken(r.Context(), raw)
}

// VerifyToken validates raw and loads the current principal. The permission
// snapshot inside the token is ignored.
func (v *Verifier) VerifyToken(ctx context.Context, raw string) (rbac.Principal, error) {
	claims, err := v.tokens.Parse(raw)
	if err != nil {
		return rbac.Principal{}, err
	}
	account, err := v.accounts.FindAccountByID(ctx, claims.Subject)
	if err != nil {
		return rbac.Principal{}, err
	}
	return account.Principal, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

var _ rbac.Verifier = (*Verifier)(nil)
