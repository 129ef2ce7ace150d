package events

import (
	"context"

	"filmoteca/backend/go/internal/models"
	"filmoteca/backend/go/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is responsible for publishing catalog events to Kafka.
type Publisher struct {
	writer messageWriter
	logger *logger.Logger
}

// NewPublisher creates a new Publisher on top of a kafka.Writer.
func NewPublisher(writer *kafka.Writer, logger *logger.Logger) *Publisher {
	return newPublisher(writer, logger)
}

func newPublisher(writer messageWriter, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.New("catalog_events", "", "")
	}
	return &Publisher{writer: writer, logger: log}
}

// Publish sends an event message to the catalog topic, keyed by event type.
func (p *Publisher) Publish(ctx context.Context, event CatalogEvent) error {
	msgBytes, err := event.encode()
	if err != nil {
		p.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to marshal catalog event")
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: msgBytes,
	})
	if err != nil {
		p.logger.WithError(models.ErrorInfo{Message: err.Error()}).
			WithPayload(map[string]interface{}{"event": event.Type}).
			Error("Failed to write message to Kafka")
		return err
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
