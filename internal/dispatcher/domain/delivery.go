package domain

import "time"

// DeliveryStatus 单渠道投递状态
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "PENDING"
	DeliveryStatusSent    DeliveryStatus = "SENT"
	DeliveryStatusFailed  DeliveryStatus = "FAILED"
)

// DeliveryRecord 投递日志实体，每个渠道的每次尝试记录一条
type DeliveryRecord struct {
	DeliveryID   string         `json:"delivery_id"`
	EventKind    EventKind      `json:"event_kind"`
	Channel      Channel        `json:"channel"`
	TargetID     string         `json:"target_id,omitempty"`
	ConsumerID   string         `json:"consumer_id"`
	Recipient    string         `json:"recipient"`
	Locale       Locale         `json:"locale"`
	Status       DeliveryStatus `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
}

// DeliverySucceededEvent 投递成功事件
type DeliverySucceededEvent struct {
	DeliveryID string    `json:"delivery_id"`
	EventKind  EventKind `json:"event_kind"`
	Channel    Channel   `json:"channel"`
	ConsumerID string    `json:"consumer_id"`
	SentAt     int64     `json:"sent_at"`
}

// DeliveryFailedEvent 投递失败事件
type DeliveryFailedEvent struct {
	DeliveryID string    `json:"delivery_id"`
	EventKind  EventKind `json:"event_kind"`
	Channel    Channel   `json:"channel"`
	ConsumerID string    `json:"consumer_id"`
	ErrorMsg   string    `json:"error_msg"`
	FailedAt   int64     `json:"failed_at"`
}
