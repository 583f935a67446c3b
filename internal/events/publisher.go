package events

import (
	"context"
	"fmt"
	"time"

	"filmorate/internal/kafka"
)

// Publisher ships events to their consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type kafkaPublisher struct {
	producer kafka.MessageProducer
	topic    string
	timeout  time.Duration
}

// NewKafkaPublisher 把事件以 JSON 写入 topic。
// timeout 限制等待投递回执的时间，<= 0 时只受 ctx 约束。
func NewKafkaPublisher(producer kafka.MessageProducer, topic string, timeout time.Duration) Publisher {
	return &kafkaPublisher{producer: producer, topic: topic, timeout: timeout}
}

func (p *kafkaPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.producer.SendMessage(ctx, p.topic, e.Key(), payload); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Type, err)
	}
	return nil
}
