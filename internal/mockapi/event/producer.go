package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Kafka topics for basket domain events.
var (
	TopicBasketUpdated = pkgkafka.Topic("basket", "updated")
	TopicBasketCleared = pkgkafka.Topic("basket", "cleared")
	TopicBasketPaid    = pkgkafka.Topic("basket", "paid")
)

// SourceMockAPI identifies events originating from the mock API.
const SourceMockAPI = "storefront-mockapi"

// BasketUpdatedData is the payload for a basket.updated event.
type BasketUpdatedData struct {
	UserID      string           `json:"user_id"`
	Lines       []BasketLineData `json:"lines"`
	ItemCount   int              `json:"item_count"`
	TotalAmount int64            `json:"total_amount"`
}

// BasketLineData is a line within basket events.
type BasketLineData struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// BasketClearedData is the payload for a basket.cleared event.
type BasketClearedData struct {
	UserID string `json:"user_id"`
}

// BasketPaidData is the payload for a basket.paid event.
type BasketPaidData struct {
	UserID            string `json:"user_id"`
	ProviderPaymentID string `json:"provider_payment_id"`
	Amount            int64  `json:"amount"`
	ItemCount         int    `json:"item_count"`
	Card              string `json:"card"`
}

// Producer publishes basket domain events.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer for the mock API.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishBasketUpdated publishes a basket.updated event.
func (p *Producer) PublishBasketUpdated(ctx context.Context, userID string, b *domain.Basket) error {
	lines := make([]BasketLineData, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = BasketLineData{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		}
	}

	return p.publish(ctx, TopicBasketUpdated, userID, BasketUpdatedData{
		UserID:      userID,
		Lines:       lines,
		ItemCount:   b.ItemCount(),
		TotalAmount: b.TotalAmount(),
	})
}

// PublishBasketCleared publishes a basket.cleared event.
func (p *Producer) PublishBasketCleared(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicBasketCleared, userID, BasketClearedData{UserID: userID})
}

// PublishBasketPaid publishes a basket.paid event. Only the masked card is
// included.
func (p *Producer) PublishBasketPaid(ctx context.Context, data BasketPaidData) error {
	return p.publish(ctx, TopicBasketPaid, data.UserID, data)
}

// Close closes the underlying publisher.
func (p *Producer) Close() error {
	return p.publisher.Close()
}

func (p *Producer) publish(ctx context.Context, topic, userID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, userID, SourceMockAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithAttribute("user_id", userID)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published basket event",
		slog.String("topic", topic),
		slog.String("user_id", userID),
	)
	return nil
}
