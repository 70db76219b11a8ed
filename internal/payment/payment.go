package payment

import "context"

// IntentParams describes a destination charge: the intent is created in the
// platform's context while funds settle to the seller's connected account.
type IntentParams struct {
	Amount             int64
	Currency           string
	DestinationAccount string
	Metadata           map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

type Provider interface {
	CreatePaymentIntent(ctx context.Context, params *IntentParams) (*Intent, error)
}
