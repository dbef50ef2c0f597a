package rbac

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
)

// Verifier authenticates a request and resolves its principal from the store.
type Verifier interface {
	Verify(r *http.Request) (Principal, error)
}

// DecisionRecorder observes authorization outcomes.
type DecisionRecorder interface {
	RecordDecision(operation, outcome string)
}

// authenticatedOnly labels routes that skip the permission check.
const authenticatedOnly Operation = "authenticated"

// PrincipalHandlerFunc is a handler that receives the verified principal.
type PrincipalHandlerFunc func(w http.ResponseWriter, r *http.Request, principal Principal)

// Gate runs verification then authorization in front of every protected handler.
type Gate struct {
	verifier Verifier
	routes   RouteTable
	logger   *slog.Logger
	recorder DecisionRecorder
}

// GateOption customises a Gate.
type GateOption func(*Gate)

// WithDecisionRecorder reports every decision to rec.
func WithDecisionRecorder(rec DecisionRecorder) GateOption {
	return func(g *Gate) {
		g.recorder = rec
	}
}

// NewGate validates routes against reg and constructs a Gate.
func NewGate(verifier Verifier, routes RouteTable, reg *Registry, logger *slog.Logger, opts ...GateOption) (*Gate, error) {
	if verifier == nil {
		return nil, errors.New("rbac: verifier required")
	}
	if err := routes.Validate(reg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{verifier: verifier, routes: routes, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Require guards next with the permission bound to op. It panics when op has
// no binding so that a missing entry surfaces while routes are mounted.
func (g *Gate) Require(op Operation, next PrincipalHandlerFunc) http.Handler {
	perm, ok := g.routes.Permission(op)
	if !ok {
		panic(fmt.Sprintf("rbac: operation %q has no route binding", op))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := g.authenticate(w, r, op)
		if !ok {
			return
		}
		decision := Authorize(principal, perm)
		g.record(op, decision.String())
		if decision == Deny {
			g.logger.Debug("rbac forbidden",
				slog.String("operation", string(op)),
				slog.String("principal", principal.ID))
			httpx.Message(w, http.StatusForbidden, "Forbidden: You don't have permission")
			return
		}
		next(w, r, principal)
	})
}

// Authenticated guards next with verification only.
func (g *Gate) Authenticated(next PrincipalHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := g.authenticate(w, r, authenticatedOnly)
		if !ok {
			return
		}
		next(w, r, principal)
	})
}

func (g *Gate) authenticate(w http.ResponseWriter, r *http.Request, op Operation) (Principal, bool) {
	principal, err := g.verifier.Verify(r)
	if err == nil {
		return principal, true
	}
	switch {
	case errors.Is(err, ErrMissingToken):
		httpx.Message(w, http.StatusUnauthorized, "No token provided")
	case errors.Is(err, ErrExpired):
		httpx.Message(w, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, ErrPrincipalNotFound):
		httpx.Message(w, http.StatusUnauthorized, "User not found")
	case errors.Is(err, ErrInvalidSignature):
		httpx.Message(w, http.StatusUnauthorized, "Invalid token")
	default:
		g.logger.Error("rbac verify", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return Principal{}, false
	}
	g.record(op, "unauthenticated")
	return Principal{}, false
}

func (g *Gate) record(op Operation, outcome string) {
	if g.recorder == nil {
		return
	}
	g.recorder.RecordDecision(string(op), outcome)
}
