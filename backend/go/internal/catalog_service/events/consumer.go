package events

import (
	"context"

	"filmoteca/backend/go/internal/catalog_service/service"
	"filmoteca/backend/go/internal/models"
	"filmoteca/backend/go/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler 处理一条目录事件。
type Handler func(ctx context.Context, event CatalogEvent) error

// Consumer is responsible for consuming catalog events from Kafka.
type Consumer struct {
	reader messageReader
	logger *logger.Logger
}

// NewConsumer creates a new Consumer on top of a kafka.Reader.
func NewConsumer(reader *kafka.Reader, logger *logger.Logger) *Consumer {
	return newConsumer(reader, logger)
}

func newConsumer(reader messageReader, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.New("catalog_events", "", "")
	}
	return &Consumer{reader: reader, logger: log}
}

// Start runs the consumer loop in a new goroutine.
func (c *Consumer) Start(ctx context.Context, handler Handler) {
	go c.Run(ctx, handler)
}

// Run consumes messages until ctx is cancelled. Messages that fail to decode
// or to be handled are logged and committed anyway.
func (c *Consumer) Run(ctx context.Context, handler Handler) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Stopping catalog event consumer...")
				return
			}
			c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error fetching message from Kafka")
			continue
		}

		event, err := decode(msg.Value)
		if err == nil {
			err = handler(ctx, event)
		}
		if err != nil {
			c.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
				"topic":     msg.Topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Error("Error handling Kafka message")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to commit Kafka message")
		}
	}
}

// Close closes the underlying Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// PurgeRelatedCache 返回在目录导入后清空相关影片缓存的 Handler。
func PurgeRelatedCache(cache service.RelatedCache, log *logger.Logger) Handler {
	if log == nil {
		log = logger.New("catalog_events", "", "")
	}
	return func(ctx context.Context, event CatalogEvent) error {
		if event.Type != EventCatalogImported {
			return nil
		}
		if err := cache.Purge(ctx); err != nil {
			return err
		}
		log.WithPayload(map[string]interface{}{"movies": event.Movies}).Info("related cache purged after catalog import")
		return nil
	}
}
