package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Handler manages role management endpoints.
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

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/", h.gate.Require(rbac.OpListRoles, h.listRoles))
	r.Method(http.MethodPost, "/", h.gate.Require(rbac.OpCreateRole, h.createRole))
	r.Method(http.MethodGet, "/permissions", h.gate.Require(rbac.OpListPermissions, h.listPermissions))
	r.Method(http.MethodGet, "/assignable", h.gate.Authenticated(h.listAssignable))
	r.Method(http.MethodGet, "/{id}", h.gate.Require(rbac.OpGetRole, h.getRole))
	r.Method(http.MethodPut, "/{id}", h.gate.Require(rbac.OpUpdateRole, h.updateRole))
	r.Method(http.MethodDelete, "/{id}", h.gate.Require(rbac.OpDeleteRole, h.deleteRole))
}

type roleResponse struct {
	Message string    `json:"message"`
	Role    rbac.Role `json:"role"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.fail(w, "list roles", err)
		return
	}
	httpx.JSON(w, http.StatusOK, roles)
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	role, err := h.service.GetRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get role", err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	var input RoleInput
	if !httpx.Bind(w, r, h.validate, &input) {
		return
	}
	role, err := h.service.CreateRole(r.Context(), input)
	if err != nil {
		h.fail(w, "create role", err)
		return
	}
	h.logger.Info("role created", slog.String("role", role.Name), slog.String("by", principal.ID))
	httpx.JSON(w, http.StatusCreated, roleResponse{Message: "Role created successfully", Role: role})
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	var input RoleInput
	if !httpx.Bind(w, r, h.validate, &input) {
		return
	}
	role, err := h.service.UpdateRole(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, "update role", err)
		return
	}
	h.logger.Info("role updated", slog.String("role", role.Name), slog.String("by", principal.ID))
	httpx.JSON(w, http.StatusOK, roleResponse{Message: "Role updated successfully", Role: role})
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		h.fail(w, "delete role", err)
		return
	}
	h.logger.Info("role deleted", slog.String("role", id), slog.String("by", principal.ID))
	httpx.Message(w, http.StatusOK, "Role deleted successfully")
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.fail(w, "list permissions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, perms)
}

func (h *Handler) listAssignable(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	roles, err := h.service.Assignable(r.Context())
	if err != nil {
		h.fail(w, "list assignable roles", err)
		return
	}
	httpx.JSON(w, http.StatusOK, roles)
}

func (h *Handler) fail(w http.ResponseWriter, action string, err error) {
	h.logger.Error(action, slog.Any("error", err))
	httpx.RespondError(w, err)
}
