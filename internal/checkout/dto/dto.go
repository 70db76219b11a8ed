package dto

// CheckoutResult hands the client what it needs to complete the payment:
// the persisted order id and the payment intent's client secret.
type CheckoutResult struct {
	OrderID      string `json:"order_id"`
	ClientSecret string `json:"client_secret"`
}
