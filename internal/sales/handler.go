package sales

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Handler exposes sales endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	gate     *rbac.Gate
	validate *validator.Validate
}

// NewHandler creates a new sales handler.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, gate: gate, validate: validator.New()}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/", h.gate.Require(rbac.OpListSales, h.list))
	r.Method(http.MethodPost, "/", h.gate.Require(rbac.OpCreateSale, h.create))
	r.Method(http.MethodGet, "/{id}", h.gate.Require(rbac.OpGetSale, h.get))
	r.Method(http.MethodDelete, "/{id}", h.gate.Require(rbac.OpDeleteSale, h.delete))
}

type saleResponse struct {
	Message string `json:"message"`
	Sale    Sale   `json:"sale"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	items, err := h.service.ListSales(r.Context())
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	item, err := h.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	var in CreateInput
	if !httpx.Bind(w, r, h.validate, &in) {
		return
	}
	item, err := h.service.CreateSale(r.Context(), in, principal.ID)
	if err != nil {
		h.logger.Warn("create sale", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("sale recorded",
		slog.String("sale", item.ID),
		slog.Float64("total", item.TotalAmount),
		slog.String("by", principal.ID))
	httpx.JSON(w, http.StatusCreated, saleResponse{Message: "Sale recorded successfully", Sale: item})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	if err := h.service.DeleteSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Sale deleted successfully")
}
