package kafka

import (
	"context"
	"strconv"

	"github.com/rmaia/farmadelivery/internal/order/app"
	"github.com/rmaia/farmadelivery/pkg/events"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher emits lifecycle events to kafka, keyed by order id so every
// event for one order lands on the same partition, in order.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(client *events.Client, topic string) *Publisher {
	return &Publisher{writer: client.NewWriter(topic)}
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, ev app.StatusEvent) error {
	return events.PublishJSON(ctx, p.writer, strconv.FormatInt(ev.OrderID, 10), ev)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
