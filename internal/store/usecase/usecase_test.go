package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wavemark/commerce-service/internal/model"
	"github.com/wavemark/commerce-service/internal/store/dto"
	"go.uber.org/zap"
)

type fakeRepo struct {
	CreateFn     func(ctx context.Context, s *model.Store) (bool, error)
	FindByIDFn   func(ctx context.Context, id string) (*model.Store, error)
	FindByUserFn func(ctx context.Context, userID string) (*model.Store, error)
	UpdateFn     func(ctx context.Context, s *model.Store) error
}

func (f *fakeRepo) Create(ctx context.Context, s *model.Store) (bool, error) {
	return f.CreateFn(ctx, s)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*model.Store, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeRepo) FindByUser(ctx context.Context, userID string) (*model.Store, error) {
	return f.FindByUserFn(ctx, userID)
}
func (f *fakeRepo) Update(ctx context.Context, s *model.Store) error {
	return f.UpdateFn(ctx, s)
}

func TestSetupStore_Defaults(t *testing.T) {
	var captured *model.Store
	uc := NewStoreUseCase(&fakeRepo{
		CreateFn: func(ctx context.Context, s *model.Store) (bool, error) {
			captured = s
			return true, nil
		},
	}, zap.NewNop())

	s, err := uc.SetupStore(context.Background(), &dto.SetupStoreInput{
		UserID: "u1",
		Name:   "Black Wax Records",
	})
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	require.Equal(t, "usd", s.Currency)
	require.Equal(t, captured, s)
	require.Nil(t, s.Description)
}

func TestSetupStore_AlreadyExists(t *testing.T) {
	calls := 0
	uc := NewStoreUseCase(&fakeRepo{
		CreateFn: func(ctx context.Context, s *model.Store) (bool, error) {
			calls++
			// first insert wins, second hits the unique constraint
			return calls == 1, nil
		},
	}, zap.NewNop())

	input := &dto.SetupStoreInput{UserID: "u1", Name: "Black Wax Records"}

	_, err := uc.SetupStore(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.SetupStore(context.Background(), input)
	require.ErrorIs(t, err, model.ErrConflict)
	require.Contains(t, err.Error(), "already has a store")
}

func TestSetupStore_Validation(t *testing.T) {
	uc := NewStoreUseCase(&fakeRepo{}, zap.NewNop())

	_, err := uc.SetupStore(context.Background(), &dto.SetupStoreInput{Name: "no user"})
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = uc.SetupStore(context.Background(), &dto.SetupStoreInput{UserID: "u1"})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateStore_PatchesSuppliedFieldsOnly(t *testing.T) {
	desc := "vinyl and tapes"
	existing := &model.Store{
		BaseModel:   model.BaseModel{ID: "s1"},
		UserID:      "u1",
		Name:        "Black Wax Records",
		Description: &desc,
		Currency:    "usd",
	}

	var updated *model.Store
	uc := NewStoreUseCase(&fakeRepo{
		FindByIDFn: func(ctx context.Context, id string) (*model.Store, error) {
			return existing, nil
		},
		UpdateFn: func(ctx context.Context, s *model.Store) error {
			updated = s
			return nil
		},
	}, zap.NewNop())

	name := "Black Wax"
	s, err := uc.UpdateStore(context.Background(), &dto.UpdateStoreInput{ID: "s1", Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Black Wax", s.Name)
	require.Equal(t, &desc, s.Description) // untouched
	require.Equal(t, updated, s)
}

func TestUpdateStore_NotFound(t *testing.T) {
	uc := NewStoreUseCase(&fakeRepo{
		FindByIDFn: func(ctx context.Context, id string) (*model.Store, error) {
			return nil, nil
		},
	}, zap.NewNop())

	_, err := uc.UpdateStore(context.Background(), &dto.UpdateStoreInput{ID: "missing"})
	require.ErrorIs(t, err, model.ErrNotFound)
}
