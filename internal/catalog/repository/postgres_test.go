package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/wavemark/commerce-service/internal/model"

	"github.com/wavemark/commerce-service/internal/catalog/dto"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func sampleProduct() *model.Product {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	variantID := "v1"
	return &model.Product{
		BaseModel: model.BaseModel{ID: "p1", CreatedAt: now, UpdatedAt: now},
		StoreID:   "s1",
		Title:     "Black Tee",
		Images:    `["front.jpg"]`,
		Variants: []model.ProductVariant{
			{
				BaseModel: model.BaseModel{ID: variantID, CreatedAt: now, UpdatedAt: now},
				ProductID: "p1",
				Title:     "Black Tee / M",
				SKU:       "TEE-BLK-M",
				Price:     2000,
				Inventory: &model.InventoryItem{VariantID: variantID, StockQuantity: 5, CreatedAt: now, UpdatedAt: now},
			},
		},
	}
}

func TestCreateWithVariants_CommitsAllRows(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO product_variants`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO inventory_items`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := r.CreateWithVariants(context.Background(), sampleProduct()); err != nil {
		t.Fatalf("CreateWithVariants failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateWithVariants_RollsBackOnVariantFailure(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO product_variants`).WillReturnError(errors.New("duplicate sku"))
	mock.ExpectRollback()

	err := r.CreateWithVariants(context.Background(), sampleProduct())
	if err == nil {
		t.Fatalf("expected error from failed variant insert")
	}
	// the product insert must not survive on its own
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction was not rolled back: %v", err)
	}
}

func TestUpdateWithVariants_InsertAndPatchInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	p := sampleProduct()
	title := "Black Tee / L"
	sku := "TEE-BLK-L"
	price := int64(2100)
	stock := int64(3)
	writes := []dto.VariantWrite{
		{Op: dto.VariantOpUpdate, ID: "v1", Price: &price, StockQuantity: &stock},
		{Op: dto.VariantOpInsert, ID: "v2", Title: &title, SKU: &sku, Price: &price},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 1))
	// update write: patched fields plus inventory overwrite
	mock.ExpectExec(`UPDATE product_variants SET updated_at = .+, price = .+ WHERE id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO inventory_items`).WillReturnResult(sqlmock.NewResult(0, 1))
	// insert write: fresh variant plus zero-stock inventory row
	mock.ExpectExec(`INSERT INTO product_variants`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO inventory_items`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := r.UpdateWithVariants(context.Background(), p, writes); err != nil {
		t.Fatalf("UpdateWithVariants failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByID_MapsInventoryWithZeroDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	productCols := []string{"id", "store_id", "title", "description", "images", "published", "created_at", "updated_at"}
	variantCols := []string{"id", "product_id", "title", "sku", "price", "created_at", "updated_at"}
	inventoryCols := []string{"variant_id", "stock_quantity", "reserved_quantity", "created_at", "updated_at"}

	mock.ExpectQuery(`SELECT \* FROM products WHERE id`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow("p1", "s1", "Black Tee", nil, `["front.jpg"]`, true, now, now))
	mock.ExpectQuery(`SELECT \* FROM product_variants WHERE product_id`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(variantCols).
			AddRow("v1", "p1", "Black Tee / M", "TEE-BLK-M", int64(2000), now, now).
			AddRow("v2", "p1", "Black Tee / L", "TEE-BLK-L", int64(2100), now, now))
	// only v1 has an inventory row
	mock.ExpectQuery(`SELECT \* FROM inventory_items WHERE variant_id IN`).
		WillReturnRows(sqlmock.NewRows(inventoryCols).
			AddRow("v1", int64(5), int64(1), now, now))

	p, err := r.FindByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if p == nil || len(p.Variants) != 2 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.Variants[0].Inventory.StockQuantity != 5 || p.Variants[0].Inventory.ReservedQuantity != 1 {
		t.Fatalf("v1 inventory not mapped: %+v", p.Variants[0].Inventory)
	}
	if p.Variants[1].Inventory.StockQuantity != 0 || p.Variants[1].Inventory.ReservedQuantity != 0 {
		t.Fatalf("v2 should read as zero stock: %+v", p.Variants[1].Inventory)
	}
	if len(p.ImageList) != 1 || p.ImageList[0] != "front.jpg" {
		t.Fatalf("images not decoded: %+v", p.ImageList)
	}
}

func TestFindByID_Absent(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	mock.ExpectQuery(`SELECT \* FROM products WHERE id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := r.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil for an absent product")
	}
}

func TestFindByStore_TwoPhasePagination(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	productCols := []string{"id", "store_id", "title", "description", "images", "published", "created_at", "updated_at"}
	variantCols := []string{"id", "product_id", "title", "sku", "price", "created_at", "updated_at"}

	// phase 1: count and the page of ids come from products alone
	mock.ExpectQuery(`SELECT count\(\*\) FROM products`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectPrepare(`SELECT id FROM products .*ORDER BY created_at DESC LIMIT 2 OFFSET 2`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p3").AddRow("p4"))

	// phase 2: join only those ids
	mock.ExpectQuery(`SELECT \* FROM products WHERE id IN`).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow("p4", "s1", "Tour Poster", nil, `[]`, true, now, now).
			AddRow("p3", "s1", "Black Tee", nil, `[]`, true, now, now))
	mock.ExpectQuery(`SELECT \* FROM product_variants WHERE product_id IN`).
		WillReturnRows(sqlmock.NewRows(variantCols).
			AddRow("v3", "p3", "M", "TEE-M", int64(2000), now, now))

	products, count, err := r.FindByStore(context.Background(), &dto.ProductFilters{
		StoreID:     "s1",
		SearchQuery: "tee",
		Page:        2,
		PageSize:    2,
	})
	if err != nil {
		t.Fatalf("FindByStore failed: %v", err)
	}
	if count != 7 {
		t.Fatalf("totalCount should reflect the full filtered set, got %d", count)
	}
	if len(products) != 2 || products[0].ID != "p3" || products[1].ID != "p4" {
		t.Fatalf("phase-1 ordering not preserved: %+v", products)
	}
	if len(products[0].Variants) != 1 || products[0].Variants[0].Inventory != nil {
		t.Fatalf("list read must join variants without inventory: %+v", products[0].Variants)
	}
}
