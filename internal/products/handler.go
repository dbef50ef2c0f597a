package products

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Handler exposes product endpoints.
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

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/", h.gate.Require(rbac.OpListProducts, h.list))
	r.Method(http.MethodGet, "/{id}", h.gate.Require(rbac.OpGetProduct, h.get))
	r.Method(http.MethodPost, "/", h.gate.Require(rbac.OpCreateProduct, h.create))
	r.Method(http.MethodPut, "/{id}", h.gate.Require(rbac.OpUpdateProduct, h.update))
	r.Method(http.MethodDelete, "/{id}", h.gate.Require(rbac.OpDeleteProduct, h.delete))
}

type productResponse struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	items, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	item, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, principal rbac.Principal) {
	var in Input
	if !httpx.Bind(w, r, h.validate, &in) {
		return
	}
	item, err := h.service.CreateProduct(r.Context(), in, principal.ID)
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, productResponse{Message: "Product created successfully", Product: item})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	var in Input
	if !httpx.Bind(w, r, h.validate, &in) {
		return
	}
	item, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, productResponse{Message: "Product updated successfully", Product: item})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, _ rbac.Principal) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Product deleted successfully")
}
