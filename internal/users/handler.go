package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Handler manages user management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	gate     *rbac.Gate
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, gate: gate, validate: validator.New()}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/", h.gate.Require(rbac.OpListUsers, h.listUsers))
	r.Method(http.MethodPost, "/", h.gate.Require(rbac.OpCreateUser, h.createUser))
	r.Method(http.MethodPut, "/{id}", h.gate.Require(rbac.OpUpdateUser, h.updateUser))
	r.Method(http.MethodDelete, "/{id}", h.gate.Require(rbac.OpDeleteUser, h.deleteUser))
}

type listResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

type userResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Success: true, Users: users})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	var input CreateInput
	if !httpx.Bind(w, r, h.validate, &input) {
		return
	}
	user, err := h.service.CreateUser(r.Context(), input)
	if err != nil {
		h.logger.Warn("create user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user created", slog.String("user", user.ID), slog.String("by", principal.ID))
	httpx.JSON(w, http.StatusCreated, userResponse{Success: true, Message: "User created!", User: &user})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	var input UpdateInput
	if !httpx.Bind(w, r, h.validate, &input) {
		return
	}
	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.logger.Warn("update user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user updated", slog.String("user", user.ID), slog.String("by", principal.ID))
	httpx.JSON(w, http.StatusOK, userResponse{Success: true, Message: "User updated!", User: &user})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.logger.Warn("delete user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user deleted", slog.String("user", id), slog.String("by", principal.ID))
	httpx.JSON(w, http.StatusOK, userResponse{Success: true, Message: "User deleted!"})
}
