// Package consumer 领域事件的 Kafka 接入层。
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/application"
)

// dispatchService 消费侧依赖的最小服务面
type dispatchService interface {
	Dispatch(ctx context.Context, cmd application.DispatchCommand) error
}

// DomainEventHandler 消费上游业务服务发出的领域事件并触发通知分发
type DomainEventHandler struct {
	service dispatchService
	logger  *slog.Logger
}

// NewDomainEventHandler 构造函数
func NewDomainEventHandler(service dispatchService, logger *slog.Logger) *DomainEventHandler {
	return &DomainEventHandler{service: service, logger: logger}
}

// Handle 处理一条事件消息。
// 载荷无法解析视为毒消息，记录后丢弃；结构性非法的事件同样丢弃，
// 避免无法修复的消息阻塞消费位点。
func (h *DomainEventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var cmd application.DispatchCommand
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal notification event",
			"topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}

	if err := h.service.Dispatch(ctx, cmd); err != nil {
		h.logger.ErrorContext(ctx, "failed to dispatch notification event",
			"kind", cmd.Kind, "consumer_id", cmd.Recipient.ConsumerID, "error", err)
		return nil
	}
	return nil
}
