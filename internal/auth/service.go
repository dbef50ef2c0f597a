package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// LoginRecorder observes login outcomes.
type LoginRecorder interface {
	RecordLogin(outcome string)
}

// Service wraps credential issuance and registration.
type Service struct {
	accounts  AccountFinder
	registrar Registrar
	hasher    PasswordHasher
	tokens    *Tokens
	throttle  *LoginThrottle
	logger    *slog.Logger
	recorder  LoginRecorder
}

// ServiceOption customises Service.
type ServiceOption func(*Service)

// WithThrottle enables login throttling.
func WithThrottle(t *LoginThrottle) ServiceOption {
	return func(s *Service) { s.throttle = t }
}

// WithLoginRecorder reports login outcomes to rec.
func WithLoginRecorder(rec LoginRecorder) ServiceOption {
	return func(s *Service) { s.recorder = rec }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a new Service.
func NewService(accounts AccountFinder, registrar Registrar, hasher PasswordHasher, tokens *Tokens, opts ...ServiceOption) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	s := &Service{
		accounts:  accounts,
		registrar: registrar,
		hasher:    hasher,
		tokens:    tokens,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates email/password and issues a token embedding the
// flattened permission set at issuance time. Unknown email and wrong password
// are reported as distinct errors.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	allowed, err := s.throttle.Allow(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle check", slog.Any("error", err))
	}
	if !allowed {
		s.record("throttled")
		return Session{}, ErrTooManyAttempts
	}

	account, err := s.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, rbac.ErrPrincipalNotFound) {
			s.fail(ctx, email, "unknown_principal")
			return Session{}, rbac.ErrPrincipalNotFound
		}
		return Session{}, fmt.Errorf("auth: find account: %w", err)
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		s.fail(ctx, email, "invalid_credentials")
		return Session{}, rbac.ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(account.Principal)
	if err != nil {
		return Session{}, err
	}
	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn("login throttle reset", slog.Any("error", err))
	}
	s.record("success")
	return Session{
		Token:       token,
		Principal:   account.Principal,
		Permissions: account.Principal.PermissionNames(),
	}, nil
}

// Register creates an account without roles; an administrator assigns them later.
func (s *Service) Register(ctx context.Context, username, email, password string) (rbac.Principal, error) {
	if s.registrar == nil {
		return rbac.Principal{}, errors.New("auth: registration disabled")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return rbac.Principal{}, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.registrar.Register(ctx, strings.TrimSpace(username), strings.TrimSpace(email), hash)
}

func (s *Service) fail(ctx context.Context, email, outcome string) {
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.logger.Warn("login throttle record", slog.Any("error", err))
	}
	s.record(outcome)
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordLogin(outcome)
	}
}
