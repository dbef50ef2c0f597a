package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// DefaultTokenTTL is the validity window of issued tokens.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the JWT payload. Permissions is a snapshot taken at issuance for
// auditing and client display only; authorization always re-reads the store.
type Claims struct {
	Email       string   `json:"email"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Tokens mints and parses HS256 bearer tokens with a process-wide secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// TokenOption customises Tokens.
type TokenOption func(*Tokens)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TokenOption {
	return func(t *Tokens) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIssuer sets and enforces the iss claim.
func WithIssuer(issuer string) TokenOption {
	return func(t *Tokens) {
		t.issuer = issuer
	}
}

// NewTokens constructs Tokens. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration, opts ...TokenOption) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("auth: token secret must be provided")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	t := &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// TTL returns the validity window.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Mint signs a token for the principal.
func (t *Tokens) Mint(p rbac.Principal) (Token, error) {
	if p.ID == "" {
		return Token{}, errors.New("auth: principal id required")
	}
	issuedAt := t.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(t.ttl)
	claims := Claims{
		Email:       p.Email,
		Permissions: p.PermissionNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Token{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return Token{Value: signed, ID: claims.ID, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// Parse verifies the signature and expiry of raw. A token whose expiry equals
// the current time is already expired.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, rbac.ErrExpired
		}
		return nil, fmt.Errorf("%w: %w", rbac.ErrInvalidSignature, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", rbac.ErrInvalidSignature)
	}
	return claims, nil
}
