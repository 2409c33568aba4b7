package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wyfcoding/pkg/idgen"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// ChannelHandler 单渠道处理器：解析模板、格式化字段、渲染并移交传输
type ChannelHandler interface {
	Channel() domain.Channel
	Handle(ctx context.Context, event *domain.NotificationEvent) error
}

// defaultChannels 目标缺失或配置缺失时的默认渠道集合
var defaultChannels = []domain.Channel{domain.ChannelEmail}

// Dispatcher 事件分发路由。
// 持有渠道到处理器的注册表，按目标配置决定生效渠道并独立调用各处理器。
// 渠道间无共享可变状态，可并发触发；单渠道失败被捕获记录，不影响其余渠道，
// 也不会上抛给调用方。
type Dispatcher struct {
	configs    domain.ChannelConfigRepository
	handlers   map[domain.Channel]ChannelHandler
	deliveries domain.DeliveryRepository
	publisher  domain.EventPublisher
	logger     *slog.Logger
}

// NewDispatcher 构造函数，按处理器自报的渠道建立注册表
func NewDispatcher(
	configs domain.ChannelConfigRepository,
	deliveries domain.DeliveryRepository,
	publisher domain.EventPublisher,
	logger *slog.Logger,
	handlers ...ChannelHandler,
) *Dispatcher {
	registry := make(map[domain.Channel]ChannelHandler, len(handlers))
	for _, h := range handlers {
		registry[h.Channel()] = h
	}
	return &Dispatcher{
		configs:    configs,
		handlers:   registry,
		deliveries: deliveries,
		publisher:  publisher,
		logger:     logger,
	}
}

// Dispatch 将一个领域事件扇出到目标配置的全部渠道。
// 仅对结构性非法的事件返回错误；渠道级失败一律就地消化，
// 调用方视角下只要事件合法，本调用即成功。
func (d *Dispatcher) Dispatch(ctx context.Context, event *domain.NotificationEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	channels := d.resolveChannels(ctx, event)

	var wg sync.WaitGroup
	for _, ch := range channels {
		handler, ok := d.handlers[ch]
		if !ok {
			d.logger.WarnContext(ctx, "no handler registered for channel", "channel", ch, "kind", event.Kind)
			continue
		}
		wg.Add(1)
		go func(h ChannelHandler) {
			defer wg.Done()
			d.runHandler(ctx, h, event)
		}(handler)
	}
	wg.Wait()
	return nil
}

// resolveChannels 解析目标对该事件生效的渠道集合。
// 目标缺失、配置查不到、配置为空或查询出错都回退到仅邮件。
func (d *Dispatcher) resolveChannels(ctx context.Context, event *domain.NotificationEvent) []domain.Channel {
	if event.TargetID == "" {
		return defaultChannels
	}

	channels, err := d.configs.GetChannels(ctx, event.TargetID, event.Kind)
	if err != nil {
		d.logger.InfoContext(ctx, "channel config unavailable, defaulting to email",
			"target_id", event.TargetID, "kind", event.Kind, "error", err)
		return defaultChannels
	}
	if len(channels) == 0 {
		return defaultChannels
	}
	return channels
}

// runHandler 执行单渠道处理器并记录投递日志与结果事件。
// 处理器 panic 也在此吸收，保证渠道间与分发调用间的失败隔离。
func (d *Dispatcher) runHandler(ctx context.Context, h ChannelHandler, event *domain.NotificationEvent) {
	channel := h.Channel()
	record := &domain.DeliveryRecord{
		DeliveryID: idgen.GenIDString(),
		EventKind:  event.Kind,
		Channel:    channel,
		TargetID:   event.TargetID,
		ConsumerID: event.Recipient.ConsumerID,
		Recipient:  recipientAddress(channel, event),
		Locale:     event.Locale.Normalize(),
		Status:     domain.DeliveryStatusPending,
	}
	if err := d.deliveries.Save(ctx, record); err != nil {
		d.logger.ErrorContext(ctx, "failed to record delivery attempt",
			"delivery_id", record.DeliveryID, "channel", channel, "error", err)
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "channel handler panicked",
				"channel", channel, "kind", event.Kind, "panic", r)
			d.finishDelivery(ctx, record, fmt.Errorf("handler panic: %v", r))
		}
	}()

	err := h.Handle(ctx, event)
	if err != nil {
		d.logger.ErrorContext(ctx, "channel delivery failed",
			"channel", channel, "kind", event.Kind, "consumer_id", event.Recipient.ConsumerID, "error", err)
	}
	d.finishDelivery(ctx, record, err)
}

func (d *Dispatcher) finishDelivery(ctx context.Context, record *domain.DeliveryRecord, handleErr error) {
	now := time.Now()
	if handleErr != nil {
		record.Status = domain.DeliveryStatusFailed
		record.ErrorMessage = handleErr.Error()
	} else {
		record.Status = domain.DeliveryStatusSent
		record.SentAt = &now
	}

	if err := d.deliveries.Save(ctx, record); err != nil {
		d.logger.ErrorContext(ctx, "failed to update delivery record",
			"delivery_id", record.DeliveryID, "error", err)
	}

	if handleErr != nil {
		failed := domain.DeliveryFailedEvent{
			DeliveryID: record.DeliveryID,
			EventKind:  record.EventKind,
			Channel:    record.Channel,
			ConsumerID: record.ConsumerID,
			ErrorMsg:   handleErr.Error(),
			FailedAt:   now.Unix(),
		}
		if err := d.publisher.PublishDeliveryFailed(ctx, failed); err != nil {
			d.logger.WarnContext(ctx, "failed to publish delivery failed event", "delivery_id", record.DeliveryID, "error", err)
		}
		return
	}

	succeeded := domain.DeliverySucceededEvent{
		DeliveryID: record.DeliveryID,
		EventKind:  record.EventKind,
		Channel:    record.Channel,
		ConsumerID: record.ConsumerID,
		SentAt:     now.Unix(),
	}
	if err := d.publisher.PublishDeliverySucceeded(ctx, succeeded); err != nil {
		d.logger.WarnContext(ctx, "failed to publish delivery succeeded event", "delivery_id", record.DeliveryID, "error", err)
	}
}

// recipientAddress 投递日志中记录的渠道收件地址
func recipientAddress(channel domain.Channel, event *domain.NotificationEvent) string {
	switch channel {
	case domain.ChannelEmail:
		return event.Recipient.Email
	case domain.ChannelSMS:
		return event.Recipient.PhoneNumber
	case domain.ChannelWebhook:
		return event.TargetID
	default:
		if len(event.Recipient.PushTokens) > 0 {
			return event.Recipient.PushTokens[0]
		}
		return ""
	}
}
