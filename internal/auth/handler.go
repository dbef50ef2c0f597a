package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *rbac.Gate
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		gate:      gate,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Method(http.MethodGet, "/me", h.gate.Authenticated(h.showMe))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type principalView struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      principalView `json:"user"`
}

func viewPrincipal(p rbac.Principal) principalView {
	return principalView{
		ID:          p.ID,
		Email:       p.Email,
		Username:    p.Username,
		Roles:       p.RoleNames(),
		Permissions: p.PermissionNames(),
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpx.Bind(w, r, h.validator, &req) {
		return
	}
	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, rbac.ErrPrincipalNotFound):
			httpx.Message(w, http.StatusNotFound, "User not found")
		case errors.Is(err, rbac.ErrInvalidCredentials):
			httpx.Message(w, http.StatusBadRequest, "Wrong password")
		case errors.Is(err, ErrTooManyAttempts):
			httpx.Message(w, http.StatusTooManyRequests, "Too many failed login attempts, try again later")
		default:
			h.logger.Error("login", slog.Any("error", err))
			httpx.Message(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     session.Token.Value,
		ExpiresAt: session.Token.ExpiresAt,
		User:      viewPrincipal(session.Principal),
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpx.Bind(w, r, h.validator, &req) {
		return
	}
	if _, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		if !errors.Is(err, httpx.ErrDuplicate) && !errors.Is(err, httpx.ErrValidation) {
			h.logger.Error("register", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.Message(w, http.StatusCreated, "User created successfully")
}

func (h *Handler) showMe(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	httpx.JSON(w, http.StatusOK, viewPrincipal(principal))
}
