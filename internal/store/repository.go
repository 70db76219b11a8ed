package store

import (
	"context"

	"github.com/wavemark/commerce-service/internal/model"
)

type Repository interface {
	// Create inserts the store guarded by the unique constraint on user_id.
	// Returns false when the user already has a store.
	Create(ctx context.Context, s *model.Store) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Store, error)
	FindByUser(ctx context.Context, userID string) (*model.Store, error)
	Update(ctx context.Context, s *model.Store) error
}
