package services

import (
	"context"

	"filmorate/internal/events"
	"filmorate/internal/logger"
	"filmorate/internal/metrics"
)

// publish 在事务提交之后发送活动事件。发送失败只记录日志，不影响已经完成的操作。
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	// 请求结束后 ctx 会被取消，事件仍然要发出去
	if err := pub.Publish(context.WithoutCancel(ctx), e); err != nil {
		logger.Warn("failed to publish activity event", "type", string(e.Type), "id", e.ID, "error", err)
		metrics.EventPublishFailed(string(e.Type))
	}
}

// audienceOf 返回用户本人及其好友，作为该用户动态的接收者。
func audienceOf(userID uint, friendIDs []uint) []uint {
	audience := make([]uint, 0, len(friendIDs)+1)
	audience = append(audience, userID)
	return append(audience, friendIDs...)
}
