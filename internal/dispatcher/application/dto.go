package application

import (
	"time"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// DispatchCommand 分发请求载荷，HTTP 与 Kafka 入口共用
type DispatchCommand struct {
	Kind      string             `json:"kind" binding:"required"`
	TargetID  string             `json:"target_id"`
	Locale    string             `json:"locale"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Handle    string             `json:"handle"`
	Recipient domain.Recipient   `json:"recipient"`
	Params    domain.EventParams `json:"params"`
}

// ToEvent 转换为领域事件值对象
func (c DispatchCommand) ToEvent() *domain.NotificationEvent {
	return &domain.NotificationEvent{
		Kind:      domain.EventKind(c.Kind),
		TargetID:  c.TargetID,
		Locale:    domain.NewLocale(c.Locale),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Handle:    c.Handle,
		Recipient: c.Recipient,
		Params:    c.Params,
	}
}

// UpsertTemplateCommand 模板写入请求。
// ExternalTemplateID 与 Body 互斥：写入外部模板引用即清空内联内容，反之亦然。
type UpsertTemplateCommand struct {
	EventKind          string `json:"event_kind" binding:"required"`
	Channel            string `json:"channel" binding:"required"`
	Locale             string `json:"locale" binding:"required"`
	ExternalTemplateID string `json:"external_template_id"`
	Title              string `json:"title"`
	Body               string `json:"body"`
}

// TemplateDTO 模板条目的对外形态
type TemplateDTO struct {
	EventKind          string `json:"event_kind"`
	Channel            string `json:"channel"`
	Locale             string `json:"locale"`
	ExternalTemplateID string `json:"external_template_id,omitempty"`
	Title              string `json:"title,omitempty"`
	Body               string `json:"body,omitempty"`
}

func toTemplateDTO(entry *domain.TemplateEntry) TemplateDTO {
	dto := TemplateDTO{
		EventKind: string(entry.EventKind),
		Channel:   string(entry.Channel),
		Locale:    string(entry.Locale),
	}
	switch content := entry.Content.(type) {
	case domain.ExternalTemplate:
		dto.ExternalTemplateID = content.TemplateID
	case domain.InlineTemplate:
		dto.Title = content.Title
		dto.Body = content.Body
	}
	return dto
}

// DeliveryDTO 投递日志的对外形态
type DeliveryDTO struct {
	DeliveryID   string     `json:"delivery_id"`
	EventKind    string     `json:"event_kind"`
	Channel      string     `json:"channel"`
	ConsumerID   string     `json:"consumer_id"`
	Recipient    string     `json:"recipient"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
}

func toDeliveryDTO(record *domain.DeliveryRecord) DeliveryDTO {
	return DeliveryDTO{
		DeliveryID:   record.DeliveryID,
		EventKind:    string(record.EventKind),
		Channel:      string(record.Channel),
		ConsumerID:   record.ConsumerID,
		Recipient:    record.Recipient,
		Status:       string(record.Status),
		ErrorMessage: record.ErrorMessage,
		SentAt:       record.SentAt,
	}
}
