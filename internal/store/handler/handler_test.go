package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/wavemark/commerce-service/internal/auth"
	"github.com/wavemark/commerce-service/internal/model"
	"github.com/wavemark/commerce-service/internal/store/dto"
	"go.uber.org/zap"
)

type fakeUseCase struct {
	SetupStoreFn     func(ctx context.Context, input *dto.SetupStoreInput) (*model.Store, error)
	UpdateStoreFn    func(ctx context.Context, input *dto.UpdateStoreInput) (*model.Store, error)
	GetStoreFn       func(ctx context.Context, id string) (*model.Store, error)
	GetStoreByUserFn func(ctx context.Context, userID string) (*model.Store, error)
}

func (f *fakeUseCase) SetupStore(ctx context.Context, input *dto.SetupStoreInput) (*model.Store, error) {
	return f.SetupStoreFn(ctx, input)
}
func (f *fakeUseCase) UpdateStore(ctx context.Context, input *dto.UpdateStoreInput) (*model.Store, error) {
	return f.UpdateStoreFn(ctx, input)
}
func (f *fakeUseCase) GetStore(ctx context.Context, id string) (*model.Store, error) {
	return f.GetStoreFn(ctx, id)
}
func (f *fakeUseCase) GetStoreByUser(ctx context.Context, userID string) (*model.Store, error) {
	return f.GetStoreByUserFn(ctx, userID)
}

func newRouter(uc *fakeUseCase) http.Handler {
	r := mux.NewRouter()
	r.Use(auth.Middleware)
	NewStoreHandler(uc, zap.NewNop()).RegisterRoutes(r)
	return r
}

func TestSetupStore_RequiresIdentity(t *testing.T) {
	router := newRouter(&fakeUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/stores", strings.NewReader(`{"name":"Black Wax"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSetupStore_CreatedAndConflict(t *testing.T) {
	calls := 0
	router := newRouter(&fakeUseCase{
		SetupStoreFn: func(ctx context.Context, input *dto.SetupStoreInput) (*model.Store, error) {
			calls++
			if calls > 1 {
				return nil, model.ErrConflict
			}
			return &model.Store{BaseModel: model.BaseModel{ID: "s1"}, UserID: input.UserID, Name: input.Name}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/stores", strings.NewReader(`{"name":"Black Wax"}`))
	req.Header.Set(auth.HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/stores", strings.NewReader(`{"name":"Black Wax"}`))
	req.Header.Set(auth.HeaderUserID, "u1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on the second setup, got %d", rec.Code)
	}
}

func TestUpdateStore_OwnershipGuard(t *testing.T) {
	router := newRouter(&fakeUseCase{
		GetStoreByUserFn: func(ctx context.Context, userID string) (*model.Store, error) {
			return &model.Store{BaseModel: model.BaseModel{ID: "s1"}, UserID: userID}, nil
		},
	})

	// caller owns s1, tries to update s2
	req := httptest.NewRequest(http.MethodPut, "/stores/s2", strings.NewReader(`{"name":"x"}`))
	req.Header.Set(auth.HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGetMyStore_NotFound(t *testing.T) {
	router := newRouter(&fakeUseCase{
		GetStoreByUserFn: func(ctx context.Context, userID string) (*model.Store, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/stores/me", nil)
	req.Header.Set(auth.HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
