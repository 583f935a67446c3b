package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"filmorate/internal/config"
	"filmorate/internal/logger"
)

// MessageHandler processes one consumed Kafka message.
// 返回 nil 时提交 offset；返回错误时不提交，消息会在重新分配分区后再次投递。
type MessageHandler func(ctx context.Context, msg *kafka.Message) error

// MessageConsumer defines the interface for a Kafka message consumer.
type MessageConsumer interface {
	Consume(ctx context.Context, topics []string, groupID string, handler MessageHandler) error
	Close()
}

// confluentKafkaConsumer is an implementation of MessageConsumer using confluent-kafka-go.
type confluentKafkaConsumer struct {
	consumer *kafka.Consumer
	cfg      config.KafkaConfig
	groupID  string
}

// NewConfluentKafkaConsumer creates a consumer; the underlying client is created in Consume
// once the group id is known.
func NewConfluentKafkaConsumer(cfg config.KafkaConfig) (MessageConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer: no brokers configured")
	}
	return &confluentKafkaConsumer{cfg: cfg}, nil
}

// Consume starts consuming messages from the specified topics and group.
// It blocks until ctx is canceled or a fatal Kafka error occurs.
func (c *confluentKafkaConsumer) Consume(ctx context.Context, topics []string, groupID string, handler MessageHandler) error {
	if len(topics) == 0 {
		return fmt.Errorf("kafka consumer: no topics specified")
	}
	c.groupID = groupID

	configMap := &kafka.ConfigMap{
		"bootstrap.servers":  strings.Join(c.cfg.Brokers, ","),
		"group.id":           c.groupID,
		"auto.offset.reset":  "latest", // 活动流只关心连接之后发生的事件
		"enable.auto.commit": "false",
		"security.protocol":  c.cfg.Protocol,
	}
	if c.cfg.ClientID != "" {
		_ = configMap.SetKey("client.id", c.cfg.ClientID)
	}

	consumer, err := kafka.NewConsumer(configMap)
	if err != nil {
		return fmt.Errorf("failed to create Kafka consumer for group %s: %w", groupID, err)
	}
	c.consumer = consumer

	if err := c.consumer.SubscribeTopics(topics, nil); err != nil {
		_ = c.consumer.Close()
		c.consumer = nil
		return fmt.Errorf("failed to subscribe to topics %v for group %s: %w", topics, groupID, err)
	}

	logger.Info("kafka consumer started", "group", groupID, "topics", topics)

	for {
		select {
		case <-ctx.Done():
			logger.Info("kafka consumer stopping", "group", groupID)
			return nil
		default:
		}

		ev := c.consumer.Poll(1000)
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case *kafka.Message:
			if err := handler(ctx, e); err != nil {
				logger.Error("failed to process kafka message",
					"group", groupID, "topic", *e.TopicPartition.Topic, "offset", e.TopicPartition.Offset.String(), "error", err)
				continue
			}
			if _, err := c.consumer.CommitMessage(e); err != nil {
				logger.Warn("failed to commit kafka offset",
					"group", groupID, "topic", *e.TopicPartition.Topic, "offset", e.TopicPartition.Offset.String(), "error", err)
			}
		case kafka.Error:
			if e.IsFatal() {
				logger.Error("fatal kafka error, stopping consumer", "group", groupID, "error", e)
				return e
			}
			logger.Warn("kafka consumer error", "group", groupID, "code", e.Code().String(), "retriable", e.IsRetriable(), "error", e)
		case kafka.AssignedPartitions:
			logger.Info("kafka partitions assigned", "group", groupID, "partitions", len(e.Partitions))
			_ = c.consumer.Assign(e.Partitions)
		case kafka.RevokedPartitions:
			logger.Info("kafka partitions revoked", "group", groupID, "partitions", len(e.Partitions))
			_ = c.consumer.Unassign()
		}
	}
}

// Close closes the Kafka consumer.
func (c *confluentKafkaConsumer) Close() {
	if c.consumer == nil {
		return
	}
	if err := c.consumer.Close(); err != nil {
		logger.Warn("error closing kafka consumer", "group", c.groupID, "error", err)
	} else {
		logger.Info("kafka consumer closed", "group", c.groupID)
	}
	c.consumer = nil
}
