package application

import (
	"context"
	"fmt"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// SMSHandler 短信渠道处理器，内联模板由本服务渲染
type SMSHandler struct {
	catalog   *TemplateCatalog
	transport domain.SMSTransport
}

// NewSMSHandler 构造函数
func NewSMSHandler(catalog *TemplateCatalog, transport domain.SMSTransport) *SMSHandler {
	return &SMSHandler{catalog: catalog, transport: transport}
}

// Channel 返回处理器负责的渠道
func (h *SMSHandler) Channel() domain.Channel { return domain.ChannelSMS }

// Handle 解析内联模板、渲染正文并交给短信传输
func (h *SMSHandler) Handle(ctx context.Context, e *domain.NotificationEvent) error {
	if err := e.ValidateParams(); err != nil {
		return err
	}
	if e.Recipient.PhoneNumber == "" {
		return &domain.ValidationError{Kind: e.Kind, Field: "recipient.phone_number"}
	}

	entry, err := h.catalog.GetTemplate(ctx, e.Kind, domain.ChannelSMS, e.Locale)
	if err != nil {
		return err
	}
	inline, ok := entry.Inline()
	if !ok {
		return fmt.Errorf("sms template for %s/%s is not inline", e.Kind, entry.Locale)
	}

	body := domain.Render(inline.Body, inlineBindings(e, entry.Locale))
	if err := h.transport.Send(ctx, e.Recipient.PhoneNumber, body); err != nil {
		return &domain.TransportError{Channel: domain.ChannelSMS, Err: err}
	}
	return nil
}
