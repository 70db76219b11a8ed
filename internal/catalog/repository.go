package catalog

import (
	"context"

	"github.com/wavemark/commerce-service/internal/catalog/dto"
	"github.com/wavemark/commerce-service/internal/model"
)

type Repository interface {
	// CreateWithVariants inserts the product, its variants and one inventory
	// row per variant inside a single transaction.
	CreateWithVariants(ctx context.Context, p *model.Product) error

	// UpdateWithVariants patches the product row and applies the resolved
	// variant writes plus their inventory upserts inside a single transaction.
	UpdateWithVariants(ctx context.Context, p *model.Product, writes []dto.VariantWrite) error

	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByStore(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error)
	Delete(ctx context.Context, id string) error
}
