package model

// SellerAccount is the read-only slice of the users table this service needs:
// whether the seller can receive funds through the payment processor.
type SellerAccount struct {
	ID              string  `db:"id"`
	StripeAccountID *string `db:"stripe_account_id"`
	ChargesEnabled  bool    `db:"charges_enabled"`
}

func (a *SellerAccount) CanAcceptPayments() bool {
	return a != nil && a.StripeAccountID != nil && *a.StripeAccountID != "" && a.ChargesEnabled
}
