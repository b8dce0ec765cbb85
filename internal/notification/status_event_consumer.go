package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Amserna/admin/internal/events"
)

// StatusEventConsumer reads workflow status events and fans them out to the
// in-app store. Delivery is at-least-once; FanOut absorbs replays.
type StatusEventConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewStatusEventConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *StatusEventConsumer {
	l := zap.L().Named("notification.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.consumer")
	}

	return &StatusEventConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.LeaveWorkflowStatusTopic,
			GroupID:        groupID,
			CommitInterval: 0,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *StatusEventConsumer) Close() error {
	return c.reader.Close()
}

func (c *StatusEventConsumer) Run(ctx context.Context) {
	c.logger.Info("status event consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("status event consumer stopped")
				return
			}
			c.logger.Error("fetch status event failed", zap.Error(err))
			continue
		}

		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// A malformed message never becomes parseable; commit and move on.
			c.logger.Error("decode status event failed", zap.Error(err))
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := c.service.FanOut(ctx, event); err != nil {
			c.logger.Error("fan out status event failed",
				zap.String("event_id", event.EventID),
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.Error(err),
			)
			// Leave uncommitted so the group redelivers after a pause.
			time.Sleep(time.Second)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit status event failed", zap.Error(err))
			continue
		}
	}
}
