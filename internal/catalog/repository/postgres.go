package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wavemark/commerce-service/internal/catalog/dto"
	"github.com/wavemark/commerce-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithVariants(ctx context.Context, p *model.Product) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	productQuery := `
        INSERT INTO products (id, store_id, title, description, images, published, created_at, updated_at)
        VALUES (:id, :store_id, :title, :description, :images, :published, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, productQuery, p); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	variantQuery := `
        INSERT INTO product_variants (id, product_id, title, sku, price, created_at, updated_at)
        VALUES (:id, :product_id, :title, :sku, :price, :created_at, :updated_at)
    `
	inventoryQuery := `
        INSERT INTO inventory_items (variant_id, stock_quantity, reserved_quantity, created_at, updated_at)
        VALUES (:variant_id, :stock_quantity, :reserved_quantity, :created_at, :updated_at)
    `
	for i := range p.Variants {
		v := &p.Variants[i]
		if _, err := tx.NamedExecContext(ctx, variantQuery, v); err != nil {
			return fmt.Errorf("failed to insert variant %s: %w", v.SKU, err)
		}
		if _, err := tx.NamedExecContext(ctx, inventoryQuery, v.Inventory); err != nil {
			return fmt.Errorf("failed to insert inventory for variant %s: %w", v.SKU, err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) UpdateWithVariants(ctx context.Context, p *model.Product, writes []dto.VariantWrite) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	productQuery := `
        UPDATE products
        SET title = :title,
            description = :description,
            images = :images,
            published = :published,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := tx.NamedExecContext(ctx, productQuery, p); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	now := time.Now()
	for _, w := range writes {
		switch w.Op {
		case dto.VariantOpInsert:
			args := map[string]interface{}{
				"id":         w.ID,
				"product_id": p.ID,
				"title":      *w.Title,
				"sku":        *w.SKU,
				"price":      *w.Price,
				"now":        now,
			}
			insertQuery := `
                INSERT INTO product_variants (id, product_id, title, sku, price, created_at, updated_at)
                VALUES (:id, :product_id, :title, :sku, :price, :now, :now)
            `
			if _, err := tx.NamedExecContext(ctx, insertQuery, args); err != nil {
				return fmt.Errorf("failed to insert variant: %w", err)
			}

		case dto.VariantOpUpdate:
			sets := []string{"updated_at = :now"}
			args := map[string]interface{}{"id": w.ID, "now": now}
			if w.Title != nil {
				sets = append(sets, "title = :title")
				args["title"] = *w.Title
			}
			if w.SKU != nil {
				sets = append(sets, "sku = :sku")
				args["sku"] = *w.SKU
			}
			if w.Price != nil {
				sets = append(sets, "price = :price")
				args["price"] = *w.Price
			}
			updateQuery := "UPDATE product_variants SET " + strings.Join(sets, ", ") + " WHERE id = :id"
			if _, err := tx.NamedExecContext(ctx, updateQuery, args); err != nil {
				return fmt.Errorf("failed to update variant %s: %w", w.ID, err)
			}
		}

		// Inventory is an overwrite, not a delta: missing payload values land as 0.
		var stock, reserved int64
		if w.StockQuantity != nil {
			stock = *w.StockQuantity
		}
		if w.ReservedQuantity != nil {
			reserved = *w.ReservedQuantity
		}
		invQuery := `
            INSERT INTO inventory_items (variant_id, stock_quantity, reserved_quantity, created_at, updated_at)
            VALUES (:variant_id, :stock_quantity, :reserved_quantity, :now, :now)
            ON CONFLICT (variant_id)
            DO UPDATE SET stock_quantity = EXCLUDED.stock_quantity,
                          reserved_quantity = EXCLUDED.reserved_quantity,
                          updated_at = EXCLUDED.updated_at
        `
		invArgs := map[string]interface{}{
			"variant_id":        w.ID,
			"stock_quantity":    stock,
			"reserved_quantity": reserved,
			"now":               now,
		}
		if _, err := tx.NamedExecContext(ctx, invQuery, invArgs); err != nil {
			return fmt.Errorf("failed to upsert inventory for variant %s: %w", w.ID, err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	decodeImages(&p)

	var variants []model.ProductVariant
	err = r.DB.SelectContext(ctx, &variants,
		`SELECT * FROM product_variants WHERE product_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}

	if len(variants) > 0 {
		ids := make([]string, len(variants))
		for i, v := range variants {
			ids[i] = v.ID
		}

		query, args, err := sqlx.In(`SELECT * FROM inventory_items WHERE variant_id IN (?)`, ids)
		if err != nil {
			return nil, err
		}
		query = r.DB.Rebind(query)

		var items []model.InventoryItem
		if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
			return nil, err
		}

		byVariant := make(map[string]model.InventoryItem, len(items))
		for _, item := range items {
			byVariant[item.VariantID] = item
		}
		for i := range variants {
			if item, ok := byVariant[variants[i].ID]; ok {
				inv := item
				variants[i].Inventory = &inv
			} else {
				// Absent row reads as zero stock.
				variants[i].Inventory = &model.InventoryItem{VariantID: variants[i].ID}
			}
		}
	}

	p.Variants = variants
	return &p, nil
}

// FindByStore is a two-phase read: the page of matching ids and the total
// count come from the products table alone, and only those ids are joined
// against the wider variant set. Counting after the join would double-count
// rows from the fan-out.
func (r *PGRepository) FindByStore(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conditions := []string{"store_id = :store_id"}
	args := map[string]interface{}{"store_id": f.StoreID}

	if f.SearchQuery != "" {
		conditions = append(conditions, "(title ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	offset := (f.Page - 1) * f.PageSize
	idQuery := fmt.Sprintf(
		"SELECT id FROM products%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		whereClause, f.PageSize, offset,
	)

	nstmt, err := r.DB.PrepareNamedContext(ctx, idQuery)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var ids []string
	if err := nstmt.SelectContext(ctx, &ids, args); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []model.Product{}, count, nil
	}

	query, inArgs, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, 0, err
	}
	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(query), inArgs...); err != nil {
		return nil, 0, err
	}

	query, inArgs, err = sqlx.In(`SELECT * FROM product_variants WHERE product_id IN (?) ORDER BY created_at`, ids)
	if err != nil {
		return nil, 0, err
	}
	var variants []model.ProductVariant
	if err := r.DB.SelectContext(ctx, &variants, r.DB.Rebind(query), inArgs...); err != nil {
		return nil, 0, err
	}

	byProduct := make(map[string][]model.ProductVariant)
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		decodeImages(&p)
		p.Variants = byProduct[p.ID]
		byID[p.ID] = p
	}

	// Preserve the phase-1 ordering.
	ordered := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, count, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func decodeImages(p *model.Product) {
	p.ImageList = []string{}
	if p.Images != "" {
		_ = json.Unmarshal([]byte(p.Images), &p.ImageList)
	}
}
