// Package redis 渠道配置的读穿缓存。
// 渠道配置在事件分发路径上只读且变更低频，适合短 TTL 缓存。
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// cachedChannelConfigRepository 用 Redis 包装底层渠道配置仓储。
// "配置不存在"同样缓存，避免未配置目标反复穿透到数据库。
type cachedChannelConfigRepository struct {
	client   redis.UniversalClient
	fallback domain.ChannelConfigRepository
	prefix   string
	ttl      time.Duration
}

// NewCachedChannelConfigRepository 创建带缓存的渠道配置仓储
func NewCachedChannelConfigRepository(client redis.UniversalClient, fallback domain.ChannelConfigRepository) domain.ChannelConfigRepository {
	return &cachedChannelConfigRepository{
		client:   client,
		fallback: fallback,
		prefix:   "dispatcher:channelconfig:",
		ttl:      5 * time.Minute,
	}
}

type cachedChannels struct {
	NotFound bool             `json:"not_found,omitempty"`
	Channels []domain.Channel `json:"channels,omitempty"`
}

// GetChannels 实现 domain.ChannelConfigRepository.GetChannels
func (r *cachedChannelConfigRepository) GetChannels(ctx context.Context, targetID string, kind domain.EventKind) ([]domain.Channel, error) {
	key := fmt.Sprintf("%s%s:%s", r.prefix, targetID, kind)

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached cachedChannels
		if err := json.Unmarshal(data, &cached); err == nil {
			if cached.NotFound {
				return nil, domain.ErrChannelConfigNotFound
			}
			return cached.Channels, nil
		}
	} else if err != redis.Nil {
		// 缓存故障降级为直查数据库
		return r.fallback.GetChannels(ctx, targetID, kind)
	}

	channels, err := r.fallback.GetChannels(ctx, targetID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrChannelConfigNotFound) {
			r.set(ctx, key, cachedChannels{NotFound: true})
		}
		return nil, err
	}

	r.set(ctx, key, cachedChannels{Channels: channels})
	return channels, nil
}

// GetWebhookEndpoint 实现 domain.ChannelConfigRepository.GetWebhookEndpoint。
// 接入点含凭据，不落缓存，始终直查。
func (r *cachedChannelConfigRepository) GetWebhookEndpoint(ctx context.Context, targetID string) (*domain.WebhookEndpoint, error) {
	return r.fallback.GetWebhookEndpoint(ctx, targetID)
}

func (r *cachedChannelConfigRepository) set(ctx context.Context, key string, value cachedChannels) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, key, data, r.ttl).Err()
}
