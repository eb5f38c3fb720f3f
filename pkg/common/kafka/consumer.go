package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pulseid/platform/pkg/common/config"
	"github.com/pulseid/platform/pkg/common/logger"
	"github.com/pulseid/platform/pkg/common/models"
	"github.com/segmentio/kafka-go"
)

const (
	fetchRetryDelay = time.Second

	defaultHandlerAttempts = 5
	defaultRetryBackoff    = 500 * time.Millisecond
	maxRetryBackoff        = 30 * time.Second
)

// messageReader is the subset of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader       messageReader
	maxAttempts  int
	retryBackoff time.Duration
}

type EventHandler func(ctx context.Context, event models.Event) error

func NewConsumer(topic string, groupID string) *Consumer {
	cfg := config.Load()
	if groupID == "" {
		groupID = cfg.KafkaGroupID
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 1e6, // events are small metadata records
	})

	return &Consumer{
		reader:       reader,
		maxAttempts:  defaultHandlerAttempts,
		retryBackoff: defaultRetryBackoff,
	}
}

// Consume blocks until ctx is cancelled. A failing handler is retried in
// place with exponential backoff. Offsets are committed cumulatively, so
// once the attempts run out the message is logged and committed past
// rather than blocking the partition. Unparseable messages are committed
// straight away.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			logger.Log.WithError(err).Error("Failed to fetch message")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		var event models.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Log.WithError(err).WithField("offset", message.Offset).Error("Failed to unmarshal event")
			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Log.WithError(err).Error("Failed to commit message")
			}
			continue
		}

		if err := c.handle(ctx, handler, event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Log.WithError(err).WithFields(map[string]interface{}{
				"event_id":   event.ID,
				"event_type": event.Type,
				"offset":     message.Offset,
			}).Error("Giving up on event")
		}

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			logger.Log.WithError(err).Error("Failed to commit message")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, handler EventHandler, event models.Event) error {
	delay := c.retryBackoff
	for attempt := 1; ; attempt++ {
		err := handler(ctx, event)
		if err == nil {
			return nil
		}
		if attempt >= c.maxAttempts {
			return err
		}
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_id": event.ID,
			"attempt":  attempt,
			"retry_in": delay.String(),
		}).Warn("Failed to process event, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryBackoff)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
