// Package messaging 投递结果事件的 Kafka 发布实现。
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wyfcoding/pkg/messagequeue/kafka"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// 投递结果事件主题
const (
	TopicDeliverySucceeded = "notification.delivery.succeeded"
	TopicDeliveryFailed    = "notification.delivery.failed"
)

// KafkaEventPublisher 将投递结果事件推送到 Kafka，供下游对账与告警消费
type KafkaEventPublisher struct {
	producer *kafka.Producer
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器
func NewKafkaEventPublisher(producer *kafka.Producer) domain.EventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// PublishDeliverySucceeded 实现 domain.EventPublisher
func (p *KafkaEventPublisher) PublishDeliverySucceeded(ctx context.Context, event domain.DeliverySucceededEvent) error {
	return p.publish(ctx, TopicDeliverySucceeded, event.ConsumerID, event)
}

// PublishDeliveryFailed 实现 domain.EventPublisher
func (p *KafkaEventPublisher) PublishDeliveryFailed(ctx context.Context, event domain.DeliveryFailedEvent) error {
	return p.publish(ctx, TopicDeliveryFailed, event.ConsumerID, event)
}

// publish 使用 ConsumerID 做分区键，保证同一用户的结果事件有序
func (p *KafkaEventPublisher) publish(ctx context.Context, topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery event: %w", err)
	}
	return p.producer.PublishToTopic(ctx, topic, []byte(key), payload)
}
