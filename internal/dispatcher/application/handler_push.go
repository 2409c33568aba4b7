package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// PushHandler 推送渠道处理器。
// 标题与正文都是内联模板；用户的每个设备令牌各投递一次。
type PushHandler struct {
	catalog   *TemplateCatalog
	transport domain.PushTransport
}

// NewPushHandler 构造函数
func NewPushHandler(catalog *TemplateCatalog, transport domain.PushTransport) *PushHandler {
	return &PushHandler{catalog: catalog, transport: transport}
}

// Channel 返回处理器负责的渠道
func (h *PushHandler) Channel() domain.Channel { return domain.ChannelPush }

// Handle 渲染标题与正文并逐令牌投递，单令牌失败不阻断其余令牌
func (h *PushHandler) Handle(ctx context.Context, e *domain.NotificationEvent) error {
	if err := e.ValidateParams(); err != nil {
		return err
	}
	if len(e.Recipient.PushTokens) == 0 {
		return &domain.ValidationError{Kind: e.Kind, Field: "recipient.push_tokens"}
	}

	entry, err := h.catalog.GetTemplate(ctx, e.Kind, domain.ChannelPush, e.Locale)
	if err != nil {
		return err
	}
	inline, ok := entry.Inline()
	if !ok {
		return fmt.Errorf("push template for %s/%s is not inline", e.Kind, entry.Locale)
	}

	bindings := inlineBindings(e, entry.Locale)
	title := domain.Render(inline.Title, bindings)
	body := domain.Render(inline.Body, bindings)

	metadata := map[string]string{"event": string(e.Kind)}
	if tx := e.Params.Transaction; tx != nil {
		metadata["transactionRef"] = tx.TransactionRef
	}

	var sendErrs []error
	for _, token := range e.Recipient.PushTokens {
		if err := h.transport.Send(ctx, token, title, body, metadata); err != nil {
			sendErrs = append(sendErrs, err)
		}
	}
	if len(sendErrs) > 0 {
		return &domain.TransportError{Channel: domain.ChannelPush, Err: errors.Join(sendErrs...)}
	}
	return nil
}
