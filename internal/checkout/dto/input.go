package dto

import "encoding/json"

type PurchaseItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

type BuyProductInput struct {
	BuyerID         string // empty for guest checkout
	StoreID         string
	Items           []PurchaseItem
	ShippingAddress json.RawMessage
	BillingAddress  json.RawMessage
}
