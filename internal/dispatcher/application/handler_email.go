package application

import (
	"context"
	"fmt"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// EmailHandler 邮件渠道处理器。
// 邮件模板由服务商托管，这里只解析模板 ID 并拼装动态数据。
type EmailHandler struct {
	catalog   *TemplateCatalog
	transport domain.EmailTransport
	cfg       SenderConfig
}

// NewEmailHandler 构造函数
func NewEmailHandler(catalog *TemplateCatalog, transport domain.EmailTransport, cfg SenderConfig) *EmailHandler {
	return &EmailHandler{catalog: catalog, transport: transport, cfg: cfg}
}

// Channel 返回处理器负责的渠道
func (h *EmailHandler) Channel() domain.Channel { return domain.ChannelEmail }

// Handle 解析模板、拼装动态数据并交给邮件传输。
// 硬拒绝事件发往合规信箱而非用户本人。
func (h *EmailHandler) Handle(ctx context.Context, e *domain.NotificationEvent) error {
	if err := e.ValidateParams(); err != nil {
		return err
	}

	to := e.Recipient.Email
	if e.Kind == domain.EventKindHardDecline {
		to = h.cfg.ComplianceEmail
	}
	if to == "" {
		return &domain.ValidationError{Kind: e.Kind, Field: "recipient.email"}
	}

	entry, err := h.catalog.GetTemplate(ctx, e.Kind, domain.ChannelEmail, e.Locale)
	if err != nil {
		return err
	}
	ext, ok := entry.External()
	if !ok {
		return fmt.Errorf("email template for %s/%s is not provider hosted", e.Kind, entry.Locale)
	}

	data := emailTemplateData(e, entry.Locale)
	if h.cfg.SupportURL != "" && failureKind(e.Kind) {
		data["supportUrl"] = h.cfg.SupportURL
	}

	if err := h.transport.Send(ctx, to, h.cfg.FromEmail, ext.TemplateID, data); err != nil {
		return &domain.TransportError{Channel: domain.ChannelEmail, Err: err}
	}
	return nil
}

// failureKind 需要附带客服链接的事件类型
func failureKind(k domain.EventKind) bool {
	switch k {
	case domain.EventKindKYCDeclined, domain.EventKindCardAddFailed,
		domain.EventKindDepositFailed, domain.EventKindWithdrawalFailed,
		domain.EventKindTransferFailed:
		return true
	}
	return false
}
