package model

type Product struct {
	BaseModel
	StoreID     string           `db:"store_id" json:"store_id"`
	Title       string           `db:"title" json:"title"`
	Description *string          `db:"description" json:"description"`
	Images      string           `db:"images" json:"-"` // JSON-encoded ordered list
	Published   bool             `db:"published" json:"published"`
	ImageList   []string         `db:"-" json:"images"`
	Variants    []ProductVariant `db:"-" json:"variants"`
}

type ProductVariant struct {
	BaseModel
	ProductID string         `db:"product_id" json:"product_id"`
	Title     string         `db:"title" json:"title"`
	SKU       string         `db:"sku" json:"sku"`
	Price     int64          `db:"price" json:"price"` // minor currency units
	Inventory *InventoryItem `db:"-" json:"inventory"`
}
