package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wavemark/commerce-service/internal/auth"
	"github.com/wavemark/commerce-service/internal/httpapi"
	"github.com/wavemark/commerce-service/internal/store"
	"github.com/wavemark/commerce-service/internal/store/dto"
	"go.uber.org/zap"
)

type StoreHandler struct {
	uc     store.UseCase
	logger *zap.Logger
}

func NewStoreHandler(uc store.UseCase, log *zap.Logger) *StoreHandler {
	return &StoreHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StoreHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/stores", h.SetupStore).Methods(http.MethodPost)
	r.HandleFunc("/stores/me", h.GetMyStore).Methods(http.MethodGet)
	r.HandleFunc("/stores/{id}", h.GetStore).Methods(http.MethodGet)
	r.HandleFunc("/stores/{id}", h.UpdateStore).Methods(http.MethodPut)
}

type setupStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Currency    string `json:"currency"`
}

func (h *StoreHandler) SetupStore(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == "" {
		httpapi.WriteErrorStatus(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req setupStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.uc.SetupStore(r.Context(), &dto.SetupStoreInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Currency:    req.Currency,
	})
	if err != nil {
		h.logger.Error("failed to set up store", zap.String("user_id", userID), zap.Error(err))
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, s)
}

type updateStoreRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

func (h *StoreHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == "" {
		httpapi.WriteErrorStatus(w, http.StatusUnauthorized, "missing identity")
		return
	}
	storeID := mux.Vars(r)["id"]

	// Ownership guard: the registry itself does not re-check ownership.
	owned, err := h.uc.GetStoreByUser(r.Context(), userID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if owned == nil || owned.ID != storeID {
		httpapi.WriteErrorStatus(w, http.StatusForbidden, "store does not belong to caller")
		return
	}

	var req updateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.uc.UpdateStore(r.Context(), &dto.UpdateStoreInput{
		ID:          storeID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, s)
}

func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetStore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if s == nil {
		httpapi.WriteErrorStatus(w, http.StatusNotFound, "store not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, s)
}

func (h *StoreHandler) GetMyStore(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == "" {
		httpapi.WriteErrorStatus(w, http.StatusUnauthorized, "missing identity")
		return
	}

	s, err := h.uc.GetStoreByUser(r.Context(), userID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if s == nil {
		httpapi.WriteErrorStatus(w, http.StatusNotFound, "store not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, s)
}
