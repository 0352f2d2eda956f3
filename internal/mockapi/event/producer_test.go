package event

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type fakePublisher struct {
	events []published
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, published{topic: topic, event: event})
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func newTestProducer() (*Producer, *fakePublisher) {
	pub := &fakePublisher{}
	return NewProducer(pub, slog.New(slog.DiscardHandler)), pub
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "storefront.basket.updated", TopicBasketUpdated)
	assert.Equal(t, "storefront.basket.cleared", TopicBasketCleared)
	assert.Equal(t, "storefront.basket.paid", TopicBasketPaid)
}

func TestPublishBasketUpdated(t *testing.T) {
	p, pub := newTestProducer()
	b := domain.NewBasket([]domain.BasketLine{
		{Quantity: 2, Product: domain.Product{ID: 1, Name: "Phone", Price: 500}},
	})
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")

	require.NoError(t, p.PublishBasketUpdated(ctx, "u1", b))

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, TopicBasketUpdated, ev.topic)
	assert.Equal(t, "u1", ev.event.Key)
	assert.Equal(t, "u1", ev.event.Attributes["user_id"])
	assert.Equal(t, SourceMockAPI, ev.event.Source)
	assert.Equal(t, "corr-1", ev.event.CorrelationID)

	var data BasketUpdatedData
	require.NoError(t, ev.event.DecodePayload(&data))
	assert.Equal(t, 2, data.ItemCount)
	assert.Equal(t, int64(1000), data.TotalAmount)
	require.Len(t, data.Lines, 1)
	assert.Equal(t, int64(1), data.Lines[0].ProductID)
}

func TestPublishBasketClearedAndPaid(t *testing.T) {
	p, pub := newTestProducer()
	ctx := context.Background()

	require.NoError(t, p.PublishBasketCleared(ctx, "u1"))
	require.NoError(t, p.PublishBasketPaid(ctx, BasketPaidData{
		UserID: "u1", ProviderPaymentID: "mock_pay_1", Amount: 999, ItemCount: 1, Card: "****1111",
	}))

	require.Len(t, pub.events, 2)
	assert.Equal(t, TopicBasketCleared, pub.events[0].topic)
	assert.Empty(t, pub.events[0].event.CorrelationID)

	var paid BasketPaidData
	require.NoError(t, pub.events[1].event.DecodePayload(&paid))
	assert.Equal(t, "****1111", paid.Card)
	assert.Equal(t, int64(999), paid.Amount)
}

func TestPublish_Failure(t *testing.T) {
	p, pub := newTestProducer()
	pub.err = errors.New("broker down")

	err := p.PublishBasketCleared(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish storefront.basket.cleared event")

	require.NoError(t, p.Close())
	assert.True(t, pub.closed)
}
