package dto

type CreateVariantInput struct {
	Title         string `json:"title"`
	SKU           string `json:"sku"`
	Price         int64  `json:"price"`
	StockQuantity int64  `json:"stock_quantity"`
}

type CreateProductInput struct {
	StoreID     string
	Title       string
	Description string
	Images      []string
	Published   bool
	Variants    []CreateVariantInput
}

// VariantPatch is the wire shape of a variant write in an update payload: an
// id means "patch this variant", no id means "insert a new one".
type VariantPatch struct {
	ID               *string `json:"id"`
	Title            *string `json:"title"`
	SKU              *string `json:"sku"`
	Price            *int64  `json:"price"`
	StockQuantity    *int64  `json:"stock_quantity"`
	ReservedQuantity *int64  `json:"reserved_quantity"`
}

type UpdateProductInput struct {
	ID          string
	Title       *string
	Description *string
	Images      *[]string
	Published   *bool
	Variants    []VariantPatch
}

type VariantWriteOp int

const (
	VariantOpUpdate VariantWriteOp = iota
	VariantOpInsert
)

// VariantWrite is a VariantPatch resolved into an explicit insert/update form
// before storage is touched. Insert carries mandatory title/sku/price; update
// patches only the supplied fields.
type VariantWrite struct {
	Op               VariantWriteOp
	ID               string // update only
	Title            *string
	SKU              *string
	Price            *int64
	StockQuantity    *int64
	ReservedQuantity *int64
}

type ProductFilters struct {
	StoreID     string
	SearchQuery string
	Page        int
	PageSize    int
}
