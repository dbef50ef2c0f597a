package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Handler exposes report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *rbac.Gate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/dashboard", h.gate.Require(rbac.OpReportDashboard, h.dashboard))
	r.Method(http.MethodGet, "/users", h.gate.Require(rbac.OpReportUsers, h.users))
	r.Method(http.MethodGet, "/products", h.gate.Require(rbac.OpReportProducts, h.products))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	rows, err := h.service.Users(r.Context())
	if err != nil {
		h.logger.Error("user report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	rows, err := h.service.Products(r.Context())
	if err != nil {
		h.logger.Error("product report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
