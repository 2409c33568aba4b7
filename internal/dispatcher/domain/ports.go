package domain

import "context"

// TemplateRepository 模板存储。分发路径上只读，管理面可写。
type TemplateRepository interface {
	// ListByEventAndChannel 获取 (事件类型, 渠道) 下全部语言的模板条目
	ListByEventAndChannel(ctx context.Context, kind EventKind, channel Channel) ([]*TemplateEntry, error)
	// Save 保存或更新模板条目，内容变体整体覆盖
	Save(ctx context.Context, entry *TemplateEntry) error
	// Delete 删除指定模板条目
	Delete(ctx context.Context, kind EventKind, channel Channel, locale Locale) error
	// List 列出全部模板条目
	List(ctx context.Context) ([]*TemplateEntry, error)
}

// WebhookEndpoint 合作伙伴的 Webhook 接入点与凭据
type WebhookEndpoint struct {
	URL       string
	APIKey    string
	SecretKey string
}

// ChannelConfigRepository 渠道配置存储。
// 配置由管理面带外维护，事件分发时只读。
type ChannelConfigRepository interface {
	// GetChannels 获取目标针对某事件类型配置的渠道集合；
	// 目标或配置不存在返回 ErrChannelConfigNotFound
	GetChannels(ctx context.Context, targetID string, kind EventKind) ([]Channel, error)
	// GetWebhookEndpoint 获取目标的 Webhook 接入点
	GetWebhookEndpoint(ctx context.Context, targetID string) (*WebhookEndpoint, error)
}

// DeliveryRepository 投递日志仓储
type DeliveryRepository interface {
	Save(ctx context.Context, record *DeliveryRecord) error
	ListByConsumerID(ctx context.Context, consumerID string, limit, offset int) ([]*DeliveryRecord, int64, error)
}

// EmailTransport 邮件传输端口，模板由服务商托管渲染
type EmailTransport interface {
	Send(ctx context.Context, to, from, templateID string, templateData map[string]string) error
}

// SMSTransport 短信传输端口
type SMSTransport interface {
	Send(ctx context.Context, phoneNumber, body string) error
}

// PushTransport 推送传输端口
type PushTransport interface {
	Send(ctx context.Context, token, title, body string, metadata map[string]string) error
}

// WebhookTransport Webhook 传输端口
type WebhookTransport interface {
	Post(ctx context.Context, endpoint *WebhookEndpoint, payload any) error
}

// EventPublisher 投递结果事件发布端口
type EventPublisher interface {
	PublishDeliverySucceeded(ctx context.Context, event DeliverySucceededEvent) error
	PublishDeliveryFailed(ctx context.Context, event DeliveryFailedEvent) error
}
