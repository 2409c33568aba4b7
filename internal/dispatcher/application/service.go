package application

import (
	"context"
	"errors"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// 模板写入的入参错误，HTTP 层映射为 400
var (
	errMutuallyExclusive = errors.New("external_template_id and body are mutually exclusive")
	errContentRequired   = errors.New("either external_template_id or body is required")
)

// IsBadTemplateRequest 判断模板写入错误是否为调用方入参问题
func IsBadTemplateRequest(err error) bool {
	return errors.Is(err, errMutuallyExclusive) || errors.Is(err, errContentRequired)
}

// NotificationService 通知调度服务门面，整合分发、模板管理与投递查询
type NotificationService struct {
	dispatcher *Dispatcher
	templates  domain.TemplateRepository
	deliveries domain.DeliveryRepository
}

// NewNotificationService 构造函数
func NewNotificationService(
	dispatcher *Dispatcher,
	templates domain.TemplateRepository,
	deliveries domain.DeliveryRepository,
) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		templates:  templates,
		deliveries: deliveries,
	}
}

// Dispatch 分发一个领域事件
func (s *NotificationService) Dispatch(ctx context.Context, cmd DispatchCommand) error {
	return s.dispatcher.Dispatch(ctx, cmd.ToEvent())
}

// UpsertTemplate 写入模板条目。
// 外部模板 ID 与内联内容互斥，二者都缺失或同时给出都拒绝。
func (s *NotificationService) UpsertTemplate(ctx context.Context, cmd UpsertTemplateCommand) error {
	kind := domain.EventKind(cmd.EventKind)
	if !kind.Valid() {
		return &domain.ValidationError{Kind: kind, Field: "event_kind"}
	}
	channel := domain.Channel(cmd.Channel)
	if !domain.ValidChannel(channel) {
		return &domain.ValidationError{Kind: kind, Field: "channel"}
	}

	var content domain.TemplateContent
	switch {
	case cmd.ExternalTemplateID != "" && cmd.Body != "":
		return errMutuallyExclusive
	case cmd.ExternalTemplateID != "":
		content = domain.ExternalTemplate{TemplateID: cmd.ExternalTemplateID}
	case cmd.Body != "":
		content = domain.InlineTemplate{Title: cmd.Title, Body: cmd.Body}
	default:
		return errContentRequired
	}

	entry := &domain.TemplateEntry{
		EventKind: kind,
		Channel:   channel,
		Locale:    domain.NewLocale(cmd.Locale),
		Content:   content,
	}
	return s.templates.Save(ctx, entry)
}

// DeleteTemplate 删除模板条目
func (s *NotificationService) DeleteTemplate(ctx context.Context, eventKind, channel, locale string) error {
	return s.templates.Delete(ctx, domain.EventKind(eventKind), domain.Channel(channel), domain.NewLocale(locale))
}

// ListTemplates 列出全部模板条目
func (s *NotificationService) ListTemplates(ctx context.Context) ([]TemplateDTO, error) {
	entries, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]TemplateDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = toTemplateDTO(entry)
	}
	return dtos, nil
}

// GetDeliveryHistory 分页查询用户的投递日志
func (s *NotificationService) GetDeliveryHistory(ctx context.Context, consumerID string, limit, offset int) ([]DeliveryDTO, int64, error) {
	records, total, err := s.deliveries.ListByConsumerID(ctx, consumerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]DeliveryDTO, len(records))
	for i, record := range records {
		dtos[i] = toDeliveryDTO(record)
	}
	return dtos, total, nil
}
