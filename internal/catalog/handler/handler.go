package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wavemark/commerce-service/internal/auth"
	"github.com/wavemark/commerce-service/internal/catalog"
	"github.com/wavemark/commerce-service/internal/catalog/dto"
	"github.com/wavemark/commerce-service/internal/httpapi"
	"github.com/wavemark/commerce-service/internal/store"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	stores store.UseCase
	logger *zap.Logger
}

func NewCatalogHandler(uc catalog.UseCase, stores store.UseCase, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		stores: stores,
		logger: log,
	}
}

func (h *CatalogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.UpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/stores/{id}/products", h.ListProducts).Methods(http.MethodGet)
}

// ownsStore resolves the access guard: mutating catalog routes require the
// caller's store to match before the manager is invoked.
func (h *CatalogHandler) ownsStore(r *http.Request, storeID string) (bool, error) {
	userID := auth.GetUserID(r.Context())
	if userID == "" {
		return false, nil
	}
	s, err := h.stores.GetStoreByUser(r.Context(), userID)
	if err != nil {
		return false, err
	}
	return s != nil && s.ID == storeID, nil
}

type createProductRequest struct {
	StoreID     string                   `json:"store_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Images      []string                 `json:"images"`
	Published   bool                     `json:"published"`
	Variants    []dto.CreateVariantInput `json:"variants"`
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := h.ownsStore(r, req.StoreID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if !ok {
		httpapi.WriteErrorStatus(w, http.StatusForbidden, "store does not belong to caller")
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &dto.CreateProductInput{
		StoreID:     req.StoreID,
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Published:   req.Published,
		Variants:    req.Variants,
	})
	if err != nil {
		h.logger.Error("failed to create product", zap.String("store_id", req.StoreID), zap.Error(err))
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, p)
}

type updateProductRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Images      *[]string          `json:"images"`
	Published   *bool              `json:"published"`
	Variants    []dto.VariantPatch `json:"variants"`
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if existing == nil {
		httpapi.WriteErrorStatus(w, http.StatusNotFound, "product not found")
		return
	}

	ok, err := h.ownsStore(r, existing.StoreID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if !ok {
		httpapi.WriteErrorStatus(w, http.StatusForbidden, "product does not belong to caller")
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.uc.UpdateProduct(r.Context(), &dto.UpdateProductInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Published:   req.Published,
		Variants:    req.Variants,
	})
	if err != nil {
		h.logger.Error("failed to update product", zap.String("product_id", id), zap.Error(err))
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if p == nil {
		httpapi.WriteErrorStatus(w, http.StatusNotFound, "product not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	filters := &dto.ProductFilters{
		StoreID:     mux.Vars(r)["id"],
		SearchQuery: query.Get("q"),
		Page:        page,
		PageSize:    limit,
	}

	products, count, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, dto.ProductPage{
		Products:   products,
		TotalCount: count,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
	})
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if existing == nil {
		httpapi.WriteErrorStatus(w, http.StatusNotFound, "product not found")
		return
	}

	ok, err := h.ownsStore(r, existing.StoreID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if !ok {
		httpapi.WriteErrorStatus(w, http.StatusForbidden, "product does not belong to caller")
		return
	}

	if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
