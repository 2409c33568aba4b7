package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// ChannelConfigModel 渠道配置数据库模型，每个 (目标, 事件类型) 一行
type ChannelConfigModel struct {
	gorm.Model
	TargetID  string `gorm:"column:target_id;type:varchar(32);uniqueIndex:idx_config_key;not null"`
	EventKind string `gorm:"column:event_kind;type:varchar(40);uniqueIndex:idx_config_key;not null"`
	// Channels 逗号分隔的渠道集合（EMAIL,SMS,PUSH,WEBHOOK）
	Channels string `gorm:"column:channels;type:varchar(100);not null"`
}

// TableName 指定表名
func (ChannelConfigModel) TableName() string {
	return "notification_channel_configs"
}

// WebhookEndpointModel 合作伙伴 Webhook 接入点数据库模型
type WebhookEndpointModel struct {
	gorm.Model
	TargetID  string `gorm:"column:target_id;type:varchar(32);uniqueIndex;not null"`
	URL       string `gorm:"column:url;type:varchar(500);not null"`
	APIKey    string `gorm:"column:api_key;type:varchar(100)"`
	SecretKey string `gorm:"column:secret_key;type:varchar(100)"`
}

// TableName 指定表名
func (WebhookEndpointModel) TableName() string {
	return "partner_webhook_endpoints"
}

// channelConfigRepositoryImpl 是 domain.ChannelConfigRepository 接口的 GORM 实现。
// 配置由管理面带外写入，这里只提供分发路径需要的读取。
type channelConfigRepositoryImpl struct {
	db *gorm.DB
}

// NewChannelConfigRepository 创建渠道配置仓储实例
func NewChannelConfigRepository(db *gorm.DB) domain.ChannelConfigRepository {
	return &channelConfigRepositoryImpl{db: db}
}

// GetChannels 实现 domain.ChannelConfigRepository.GetChannels
func (r *channelConfigRepositoryImpl) GetChannels(ctx context.Context, targetID string, kind domain.EventKind) ([]domain.Channel, error) {
	var m ChannelConfigModel
	err := r.db.WithContext(ctx).
		Where("target_id = ? AND event_kind = ?", targetID, string(kind)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChannelConfigNotFound
		}
		logging.Error(ctx, "channel_config_repository.GetChannels failed", "target_id", targetID, "event_kind", kind, "error", err)
		return nil, fmt.Errorf("failed to get channel config: %w", err)
	}

	var channels []domain.Channel
	for _, raw := range strings.Split(m.Channels, ",") {
		channel := domain.Channel(strings.TrimSpace(raw))
		if domain.ValidChannel(channel) {
			channels = append(channels, channel)
		}
	}
	return channels, nil
}

// GetWebhookEndpoint 实现 domain.ChannelConfigRepository.GetWebhookEndpoint
func (r *channelConfigRepositoryImpl) GetWebhookEndpoint(ctx context.Context, targetID string) (*domain.WebhookEndpoint, error) {
	var m WebhookEndpointModel
	err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChannelConfigNotFound
		}
		logging.Error(ctx, "channel_config_repository.GetWebhookEndpoint failed", "target_id", targetID, "error", err)
		return nil, fmt.Errorf("failed to get webhook endpoint: %w", err)
	}

	return &domain.WebhookEndpoint{
		URL:       m.URL,
		APIKey:    m.APIKey,
		SecretKey: m.SecretKey,
	}, nil
}
