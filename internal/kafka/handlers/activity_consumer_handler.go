package kafkahandlers

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"filmorate/internal/events"
	"filmorate/internal/logger"
)

// Dispatcher delivers an encoded event to the connected clients of the given users.
// An empty audience means every connected client.
type Dispatcher interface {
	Dispatch(audience []uint, payload []byte)
}

// ActivityConsumerLogic turns activity events read from Kafka into WebSocket pushes.
type ActivityConsumerLogic struct {
	dispatcher Dispatcher
}

// NewActivityConsumerLogic creates a new instance of ActivityConsumerLogic.
func NewActivityConsumerLogic(d Dispatcher) *ActivityConsumerLogic {
	if d == nil {
		panic("kafkahandlers: dispatcher cannot be nil")
	}
	return &ActivityConsumerLogic{dispatcher: d}
}

// HandleActivity is the kafka.MessageHandler for the activity topic.
// 无法解析的消息直接跳过并提交 offset，重试也不会成功。
func (h *ActivityConsumerLogic) HandleActivity(_ context.Context, msg *kafka.Message) error {
	evt, err := events.Decode(msg.Value)
	if err != nil {
		logger.Warn("skipping malformed activity event", "key", string(msg.Key), "error", err)
		return nil
	}

	logger.Debug("activity event received", "id", evt.ID, "type", string(evt.Type), "audience", len(evt.Audience))
	h.dispatcher.Dispatch(evt.Audience, msg.Value)
	return nil
}
