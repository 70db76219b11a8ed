package catalog

import (
	"context"

	"github.com/wavemark/commerce-service/internal/catalog/dto"
	"github.com/wavemark/commerce-service/internal/model"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	DeleteProduct(ctx context.Context, id string) error
}
