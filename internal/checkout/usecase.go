package checkout

import (
	"context"

	"github.com/wavemark/commerce-service/internal/checkout/dto"
	"github.com/wavemark/commerce-service/internal/model"
)

type UseCase interface {
	BuyProduct(ctx context.Context, input *dto.BuyProductInput) (*dto.CheckoutResult, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)

	// HandlePaymentEvent settles the order attached to a payment intent once
	// the processor reports success or failure.
	HandlePaymentEvent(ctx context.Context, paymentIntentID string, succeeded bool) error
}
