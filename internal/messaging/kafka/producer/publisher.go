package producer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Amserna/admin/internal/messaging/kafka"
)

// publishEvent writes one outbox row to its topic. The aggregate id keys the
// message so all events for one leave request land on the same partition,
// preserving per-request ordering for consumers.
func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
