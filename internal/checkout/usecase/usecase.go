package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wavemark/commerce-service/internal/checkout"
	"github.com/wavemark/commerce-service/internal/checkout/dto"
	"github.com/wavemark/commerce-service/internal/model"
	"github.com/wavemark/commerce-service/internal/payment"
	"go.uber.org/zap"
)

type checkoutUseCase struct {
	repo     checkout.Repository
	payments payment.Provider
	logger   *zap.Logger
}

func NewCheckoutUseCase(repo checkout.Repository, payments payment.Provider, log *zap.Logger) checkout.UseCase {
	return &checkoutUseCase{
		repo:     repo,
		payments: payments,
		logger:   log,
	}
}

// BuyProduct runs the whole checkout inside one transaction: validation,
// stock reservation, order persistence and the payment intent creation. A
// failure at any step, the external call included, leaves no rows behind.
func (uc *checkoutUseCase) BuyProduct(ctx context.Context, input *dto.BuyProductInput) (*dto.CheckoutResult, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: no items to purchase", model.ErrValidation)
	}
	for _, item := range input.Items {
		if item.VariantID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: each item needs a variant id and a positive quantity", model.ErrValidation)
		}
	}

	var result *dto.CheckoutResult
	err := uc.repo.Transact(ctx, func(tx *sqlx.Tx) error {
		s, err := uc.repo.GetStore(ctx, tx, input.StoreID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: store not found", model.ErrNotFound)
		}

		if input.BuyerID != "" && input.BuyerID == s.UserID {
			return fmt.Errorf("%w: artists cannot purchase their own products", model.ErrBusinessRule)
		}

		seller, err := uc.repo.GetSellerAccount(ctx, tx, s.UserID)
		if err != nil {
			return err
		}
		if !seller.CanAcceptPayments() {
			return fmt.Errorf("%w: artist cannot accept payments", model.ErrBusinessRule)
		}

		variantIDs := make([]string, len(input.Items))
		for i, item := range input.Items {
			variantIDs[i] = item.VariantID
		}
		variants, err := uc.repo.GetVariants(ctx, tx, s.ID, variantIDs)
		if err != nil {
			return err
		}
		if len(variants) != len(input.Items) {
			return fmt.Errorf("%w: invalid product variants", model.ErrConflict)
		}
		byID := make(map[string]model.ProductVariant, len(variants))
		for _, v := range variants {
			byID[v.ID] = v
		}

		now := time.Now()
		var totalAmount int64
		lines := make([]model.OrderLine, len(input.Items))

		for i, item := range input.Items {
			v := byID[item.VariantID]

			reserved, err := uc.repo.ReserveStock(ctx, tx, item.VariantID, item.Quantity)
			if err != nil {
				return err
			}
			if !reserved {
				return fmt.Errorf("%w: insufficient stock for %s", model.ErrBusinessRule, v.Title)
			}

			// Price snapshot: lines keep the price read in this transaction
			// even if the variant is repriced later.
			totalAmount += v.Price * item.Quantity
			lines[i] = model.OrderLine{
				BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				UnitPrice: v.Price,
				LineTotal: v.Price * item.Quantity,
			}
		}

		order := &model.Order{
			BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			StoreID:         s.ID,
			Status:          model.OrderStatusPending,
			TotalAmount:     totalAmount,
			Currency:        s.Currency,
			ShippingAddress: string(input.ShippingAddress),
			BillingAddress:  string(input.BillingAddress),
		}
		if input.BuyerID != "" {
			buyer := input.BuyerID
			order.BuyerID = &buyer
		}

		if err := uc.repo.InsertOrder(ctx, tx, order); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := uc.repo.InsertOrderLines(ctx, tx, lines); err != nil {
			return err
		}

		intent, err := uc.payments.CreatePaymentIntent(ctx, &payment.IntentParams{
			Amount:             totalAmount,
			Currency:           order.Currency,
			DestinationAccount: *seller.StripeAccountID,
			Metadata: map[string]string{
				"order_id":  order.ID,
				"store_id":  s.ID,
				"artist_id": s.UserID,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create payment intent: %w", err)
		}

		if err := uc.repo.SetPaymentIntent(ctx, tx, order.ID, intent.ID); err != nil {
			return err
		}

		result = &dto.CheckoutResult{OrderID: order.ID, ClientSecret: intent.ClientSecret}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order created",
		zap.String("order_id", result.OrderID),
		zap.String("store_id", input.StoreID),
	)
	return result, nil
}

func (uc *checkoutUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	return uc.repo.FindOrderByID(ctx, id)
}

func (uc *checkoutUseCase) HandlePaymentEvent(ctx context.Context, paymentIntentID string, succeeded bool) error {
	o, err := uc.repo.Settle(ctx, paymentIntentID, succeeded)
	if err != nil {
		return err
	}
	if o == nil {
		// Unknown intent or already settled; duplicate events land here.
		return nil
	}

	uc.logger.Info("order settled",
		zap.String("order_id", o.ID),
		zap.String("status", o.Status),
	)
	return nil
}
