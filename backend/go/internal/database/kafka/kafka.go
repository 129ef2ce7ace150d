package kafka

import (
	"context"
	"fmt"
	"log"
	"time"

	"filmoteca/backend/go/internal/config"

	"github.com/segmentio/kafka-go"
)

// EnsureTopic 连接到第一个 broker，并在目录事件主题不存在时创建它。
func EnsureTopic(ctx context.Context, cfg *config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("未配置 Kafka brokers")
	}

	dialer := &kafka.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("kafka 初始化连接失败: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("无法读取 Kafka 分区信息: %w", err)
	}
	for _, p := range partitions {
		if p.Topic == cfg.Topic {
			return nil
		}
	}

	log.Printf("主题 '%s' 不存在，准备创建...", cfg.Topic)
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("自动创建 Kafka 主题失败: %w", err)
	}
	return nil
}

// NewWriter 创建向目录事件主题写入的 writer。
func NewWriter(cfg *config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
}

// NewReader 创建目录事件的 reader。
// groupID 应当对每个服务实例唯一，这样每个实例都能收到全部事件；
// 新的消费者组只读取启动之后的消息。
func NewReader(cfg *config.KafkaConfig, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     groupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		MaxAttempts: 10,
		Dialer: &kafka.Dialer{
			Timeout: 10 * time.Second,
		},
	})
}

// HealthCheck 检查 Kafka 控制器是否可达。
func HealthCheck(ctx context.Context, cfg *config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("未配置 Kafka brokers")
	}
	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Controller()
	return err
}
