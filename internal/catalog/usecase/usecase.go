package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wavemark/commerce-service/internal/cache"
	"github.com/wavemark/commerce-service/internal/catalog"
	"github.com/wavemark/commerce-service/internal/catalog/dto"
	"github.com/wavemark/commerce-service/internal/model"
	"github.com/wavemark/commerce-service/internal/search"
	"go.uber.org/zap"
)

const productIndex = "products"

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger *zap.Logger
}

func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, es *search.Client, log *zap.Logger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.StoreID == "" {
		return nil, fmt.Errorf("%w: store id is required", model.ErrValidation)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: product title is required", model.ErrValidation)
	}
	for _, v := range input.Variants {
		if v.Title == "" || v.SKU == "" || v.Price <= 0 {
			return nil, fmt.Errorf("%w: variant title, sku and price are required", model.ErrValidation)
		}
	}

	now := time.Now()
	images, err := json.Marshal(input.Images)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		StoreID:   input.StoreID,
		Title:     input.Title,
		Images:    string(images),
		Published: input.Published,
		ImageList: input.Images,
	}
	if input.Description != "" {
		desc := input.Description
		p.Description = &desc
	}

	p.Variants = make([]model.ProductVariant, len(input.Variants))
	for i, v := range input.Variants {
		variantID := uuid.New().String()
		p.Variants[i] = model.ProductVariant{
			BaseModel: model.BaseModel{ID: variantID, CreatedAt: now, UpdatedAt: now},
			ProductID: p.ID,
			Title:     v.Title,
			SKU:       v.SKU,
			Price:     v.Price,
			Inventory: &model.InventoryItem{
				VariantID:     variantID,
				StockQuantity: v.StockQuantity,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
		}
	}

	if err := uc.repo.CreateWithVariants(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background(), p.StoreID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product not found", model.ErrNotFound)
	}

	writes, err := resolveVariantWrites(input.Variants)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		p.Title = *input.Title
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Images != nil {
		images, err := json.Marshal(*input.Images)
		if err != nil {
			return nil, err
		}
		p.Images = string(images)
	}
	if input.Published != nil {
		p.Published = *input.Published
	}
	p.UpdatedAt = time.Now()

	if err := uc.repo.UpdateWithVariants(ctx, p, writes); err != nil {
		return nil, err
	}

	// Re-read for the fully merged variant+inventory view. A concurrent
	// delete can make the re-read come back empty.
	merged, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if merged == nil {
		return nil, fmt.Errorf("%w: product not found", model.ErrNotFound)
	}

	go uc.invalidateListCache(context.Background(), p.StoreID)
	go uc.syncToElastic(context.Background(), merged)

	return merged, nil
}

// resolveVariantWrites turns the optional-id wire payloads into explicit
// insert/update writes before storage is touched. Inserts get their ids here
// so the inventory upsert can reference them.
func resolveVariantWrites(patches []dto.VariantPatch) ([]dto.VariantWrite, error) {
	writes := make([]dto.VariantWrite, 0, len(patches))
	for _, patch := range patches {
		w := dto.VariantWrite{
			Title:            patch.Title,
			SKU:              patch.SKU,
			Price:            patch.Price,
			StockQuantity:    patch.StockQuantity,
			ReservedQuantity: patch.ReservedQuantity,
		}
		if patch.ID != nil && *patch.ID != "" {
			w.Op = dto.VariantOpUpdate
			w.ID = *patch.ID
		} else {
			if patch.Title == nil || *patch.Title == "" ||
				patch.SKU == nil || *patch.SKU == "" ||
				patch.Price == nil || *patch.Price <= 0 {
				return nil, fmt.Errorf("%w: new variants require title, sku and price", model.ErrValidation)
			}
			w.Op = dto.VariantOpInsert
			w.ID = uuid.New().String()
		}
		writes = append(writes, w)
	}
	return writes, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	cacheKey, err := uc.listCacheKey(filters)
	if err == nil && uc.cache != nil {
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var result struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("elasticsearch search failed, falling back to database", zap.Error(err))
	}

	products, count, err := uc.repo.FindByStore(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{Products: products, Count: count}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return products, count, nil
}

func (uc *catalogUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // already gone
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateListCache(context.Background(), p.StoreID)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, id); err != nil {
				uc.logger.Error("failed to delete product from search index", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *catalogUseCase) searchElastic(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"query_string": map[string]interface{}{
							"query":  fmt.Sprintf("*%s*", f.SearchQuery),
							"fields": []string{"title^3", "description"},
						},
					},
					{
						"term": map[string]interface{}{
							"store_id": f.StoreID,
						},
					},
				},
			},
		},
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
		"from": (f.Page - 1) * f.PageSize,
		"size": f.PageSize,
	}

	res, err := uc.es.Search(ctx, productIndex, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *catalogUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil || p == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"store_id": { "type": "keyword" },
				"title": { "type": "text" },
				"description": { "type": "text" },
				"published": { "type": "boolean" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productIndex, mapping)

	// The list surface never carries stock, so the indexed document must not
	// either: a stale copy would otherwise leak through search results.
	doc := *p
	doc.Variants = make([]model.ProductVariant, len(p.Variants))
	for i, v := range p.Variants {
		v.Inventory = nil
		doc.Variants[i] = v
	}

	if err := uc.es.Index(ctx, productIndex, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *catalogUseCase) listCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%s:%x", filters.StoreID, md5.Sum(data)), nil
}

func (uc *catalogUseCase) invalidateListCache(ctx context.Context, storeID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("products:list:%s:*", storeID)
	keys, err := uc.cache.Client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}
