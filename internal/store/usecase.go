package store

import (
	"context"

	"github.com/wavemark/commerce-service/internal/model"
	"github.com/wavemark/commerce-service/internal/store/dto"
)

type UseCase interface {
	SetupStore(ctx context.Context, input *dto.SetupStoreInput) (*model.Store, error)
	UpdateStore(ctx context.Context, input *dto.UpdateStoreInput) (*model.Store, error)
	GetStore(ctx context.Context, id string) (*model.Store, error)
	GetStoreByUser(ctx context.Context, userID string) (*model.Store, error)
}
