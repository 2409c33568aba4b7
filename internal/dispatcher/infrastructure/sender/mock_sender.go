package sender

import (
	"context"
	"log/slog"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// MockEmailSender 开发环境使用的邮件发送器，仅记录日志
type MockEmailSender struct{}

// NewMockEmailSender 创建空实现邮件发送器
func NewMockEmailSender() domain.EmailTransport { return &MockEmailSender{} }

// Send 实现 domain.EmailTransport
func (s *MockEmailSender) Send(ctx context.Context, to, from, templateID string, templateData map[string]string) error {
	slog.InfoContext(ctx, "mock email sent", "to", to, "from", from, "template_id", templateID, "data", templateData)
	return nil
}

// MockSMSSender 开发环境使用的短信发送器，仅记录日志
type MockSMSSender struct{}

// NewMockSMSSender 创建空实现短信发送器
func NewMockSMSSender() domain.SMSTransport { return &MockSMSSender{} }

// Send 实现 domain.SMSTransport
func (s *MockSMSSender) Send(ctx context.Context, phoneNumber, body string) error {
	slog.InfoContext(ctx, "mock sms sent", "to", phoneNumber, "body", body)
	return nil
}

// MockPushSender 开发环境使用的推送发送器，仅记录日志
type MockPushSender struct{}

// NewMockPushSender 创建空实现推送发送器
func NewMockPushSender() domain.PushTransport { return &MockPushSender{} }

// Send 实现 domain.PushTransport
func (s *MockPushSender) Send(ctx context.Context, token, title, body string, metadata map[string]string) error {
	slog.InfoContext(ctx, "mock push sent", "token", token, "title", title, "body", body)
	return nil
}

// MockWebhookSender 开发环境使用的 Webhook 发送器，仅记录日志
type MockWebhookSender struct{}

// NewMockWebhookSender 创建空实现 Webhook 发送器
func NewMockWebhookSender() domain.WebhookTransport { return &MockWebhookSender{} }

// Post 实现 domain.WebhookTransport
func (s *MockWebhookSender) Post(ctx context.Context, endpoint *domain.WebhookEndpoint, payload any) error {
	slog.InfoContext(ctx, "mock webhook posted", "url", endpoint.URL)
	return nil
}
