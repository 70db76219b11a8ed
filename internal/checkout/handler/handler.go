package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wavemark/commerce-service/internal/auth"
	"github.com/wavemark/commerce-service/internal/checkout"
	"github.com/wavemark/commerce-service/internal/checkout/dto"
	"github.com/wavemark/commerce-service/internal/httpapi"
	"github.com/wavemark/commerce-service/internal/store"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	uc     checkout.UseCase
	stores store.UseCase
	logger *zap.Logger
}

func NewCheckoutHandler(uc checkout.UseCase, stores store.UseCase, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		uc:     uc,
		stores: stores,
		logger: log,
	}
}

func (h *CheckoutHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/checkout", h.BuyProduct).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
}

type buyProductRequest struct {
	StoreID         string             `json:"store_id"`
	Items           []dto.PurchaseItem `json:"items"`
	ShippingAddress json.RawMessage    `json:"shipping_address"`
	BillingAddress  json.RawMessage    `json:"billing_address"`
}

func (h *CheckoutHandler) BuyProduct(w http.ResponseWriter, r *http.Request) {
	var req buyProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Guests check out without an identity header.
	buyerID := auth.GetUserID(r.Context())

	result, err := h.uc.BuyProduct(r.Context(), &dto.BuyProductInput{
		BuyerID:         buyerID,
		StoreID:         req.StoreID,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	})
	if err != nil {
		h.logger.Error("checkout failed", zap.String("store_id", req.StoreID), zap.Error(err))
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, result)
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == "" {
		httpapi.WriteErrorStatus(w, http.StatusUnauthorized, "missing identity")
		return
	}

	o, err := h.uc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if o == nil {
		httpapi.WriteErrorStatus(w, http.StatusNotFound, "order not found")
		return
	}

	// Orders are visible to their buyer and to the store owner only.
	allowed := o.BuyerID != nil && *o.BuyerID == userID
	if !allowed {
		s, err := h.stores.GetStoreByUser(r.Context(), userID)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		allowed = s != nil && s.ID == o.StoreID
	}
	if !allowed {
		httpapi.WriteErrorStatus(w, http.StatusNotFound, "order not found")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, o)
}
