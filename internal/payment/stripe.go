package payment

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, params *IntentParams) (*Intent, error) {
	piParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		OnBehalfOf: stripe.String(params.DestinationAccount),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(params.DestinationAccount),
		},
	}
	piParams.Context = ctx
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(piParams)
	if err != nil {
		return nil, err
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
