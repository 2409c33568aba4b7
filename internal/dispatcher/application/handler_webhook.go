package application

import (
	"context"
	"fmt"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// WebhookHandler Webhook 渠道处理器。
// 载荷渲染由合作伙伴负责，这里只查找接入点并投递原始事件数据。
type WebhookHandler struct {
	configs   domain.ChannelConfigRepository
	transport domain.WebhookTransport
}

// NewWebhookHandler 构造函数
func NewWebhookHandler(configs domain.ChannelConfigRepository, transport domain.WebhookTransport) *WebhookHandler {
	return &WebhookHandler{configs: configs, transport: transport}
}

// Channel 返回处理器负责的渠道
func (h *WebhookHandler) Channel() domain.Channel { return domain.ChannelWebhook }

// Handle 查找目标接入点并 POST 事件载荷。
// 出站请求失败由调度器吞掉，不会上抛给分发调用方。
func (h *WebhookHandler) Handle(ctx context.Context, e *domain.NotificationEvent) error {
	if err := e.ValidateParams(); err != nil {
		return err
	}
	if e.TargetID == "" {
		return &domain.ValidationError{Kind: e.Kind, Field: "target_id"}
	}

	endpoint, err := h.configs.GetWebhookEndpoint(ctx, e.TargetID)
	if err != nil {
		return fmt.Errorf("webhook endpoint for target %s: %w", e.TargetID, err)
	}

	if err := h.transport.Post(ctx, endpoint, buildWebhookPayload(e)); err != nil {
		return &domain.TransportError{Channel: domain.ChannelWebhook, Err: err}
	}
	return nil
}
