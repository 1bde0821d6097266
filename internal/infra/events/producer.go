package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	domorder "example.com/storefront/internal/domain/order"
	"example.com/storefront/pkg/logger"
)

// DeliveryTimeout bounds how long a produced record may wait for the
// cluster before ProduceSync gives up on it.
const DeliveryTimeout = 10 * time.Second

var ErrNoSeedBrokers = errors.New("no seed brokers")

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// NewProducerClient connects to the cluster and pings it once.
func NewProducerClient(ctx context.Context, seedBrokers []string, topic string) (*kgo.Client, error) {
	const op = "events.NewProducerClient"

	if len(seedBrokers) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSeedBrokers)
	}

	cl, err := newClient(seedBrokers, topic)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cl, nil
}

func newClient(seedBrokers []string, topic string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(seedBrokers...),
		kgo.DefaultProduceTopicAlways(),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
		kgo.RecordDeliveryTimeout(DeliveryTimeout),
	)
}

// OrderProducer publishes placed orders as Avro records keyed by order id.
type OrderProducer struct {
	cl ProducerClient
}

func NewOrderProducer(cl ProducerClient) *OrderProducer {
	return &OrderProducer{cl: cl}
}

func (p *OrderProducer) PublishOrderPlaced(ctx context.Context, order *domorder.Order) error {
	const op = "OrderProducer.PublishOrderPlaced"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	b, err := EncodeOrderPlacedV1(orderToSchemaV1(order))
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	r := &kgo.Record{Key: []byte(order.ID), Value: b}
	if err := p.cl.ProduceSync(ctx, r).FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Debug(ctx).Str("order_id", order.ID).Msg("order event produced")
	return nil
}

func (p *OrderProducer) Close() {
	logger.Logger.Info().Msg("closing order producer...")
	p.cl.Close()
	logger.Logger.Info().Msg("order producer is closed")
}
