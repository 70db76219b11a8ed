package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wavemark/commerce-service/internal/broker"
	"github.com/wavemark/commerce-service/internal/checkout"
	"go.uber.org/zap"
)

// PaymentListener consumes the payment gateway's event topic and settles
// orders: confirmed payments commit the stock reservation, failures release
// it.
type PaymentListener struct {
	consumer *broker.KafkaConsumer
	uc       checkout.UseCase
	logger   *zap.Logger
}

func NewPaymentListener(consumer *broker.KafkaConsumer, uc checkout.UseCase, logger *zap.Logger) *PaymentListener {
	return &PaymentListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *PaymentListener) Start(ctx context.Context) {
	l.logger.Info("starting payment events listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping payment events listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type PaymentEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   PaymentIntentPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type PaymentIntentPayload struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
}

func (l *PaymentListener) processMessage(ctx context.Context, value []byte) {
	var event PaymentEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal payment event", zap.Error(err))
		return
	}

	var succeeded bool
	switch event.EventType {
	case "payment_intent.succeeded":
		succeeded = true
	case "payment_intent.payment_failed", "payment_intent.canceled":
		succeeded = false
	default:
		return
	}

	l.logger.Info("processing payment event",
		zap.String("event_type", event.EventType),
		zap.String("payment_intent_id", event.Payload.ID),
	)

	if err := l.uc.HandlePaymentEvent(ctx, event.Payload.ID, succeeded); err != nil {
		l.logger.Error("failed to settle order for payment event",
			zap.String("payment_intent_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}
