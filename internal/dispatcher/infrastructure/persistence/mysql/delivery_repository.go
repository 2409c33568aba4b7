package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// DeliveryModel 投递日志数据库模型
type DeliveryModel struct {
	gorm.Model
	DeliveryID   string     `gorm:"column:delivery_id;type:varchar(32);uniqueIndex;not null"`
	EventKind    string     `gorm:"column:event_kind;type:varchar(40);index;not null"`
	Channel      string     `gorm:"column:channel;type:varchar(10);not null"`
	TargetID     string     `gorm:"column:target_id;type:varchar(32);index"`
	ConsumerID   string     `gorm:"column:consumer_id;type:varchar(32);index;not null"`
	Recipient    string     `gorm:"column:recipient;type:varchar(200)"`
	Locale       string     `gorm:"column:locale;type:varchar(10)"`
	Status       string     `gorm:"column:status;type:varchar(20);index;not null;default:'PENDING'"`
	ErrorMessage string     `gorm:"column:error_message;type:text"`
	SentAt       *time.Time `gorm:"column:sent_at;type:datetime"`
}

// TableName 指定表名
func (DeliveryModel) TableName() string {
	return "notification_deliveries"
}

// deliveryRepositoryImpl 是 domain.DeliveryRepository 接口的 GORM 实现。
type deliveryRepositoryImpl struct {
	db *gorm.DB
}

// NewDeliveryRepository 创建投递日志仓储实例
func NewDeliveryRepository(db *gorm.DB) domain.DeliveryRepository {
	return &deliveryRepositoryImpl{db: db}
}

// Save 实现 domain.DeliveryRepository.Save
func (r *deliveryRepositoryImpl) Save(ctx context.Context, record *domain.DeliveryRecord) error {
	m := &DeliveryModel{
		DeliveryID:   record.DeliveryID,
		EventKind:    string(record.EventKind),
		Channel:      string(record.Channel),
		TargetID:     record.TargetID,
		ConsumerID:   record.ConsumerID,
		Recipient:    record.Recipient,
		Locale:       string(record.Locale),
		Status:       string(record.Status),
		ErrorMessage: record.ErrorMessage,
		SentAt:       record.SentAt,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "delivery_id"}},
		UpdateAll: true,
	}).Create(m).Error
	if err != nil {
		logging.Error(ctx, "delivery_repository.Save failed", "delivery_id", record.DeliveryID, "error", err)
		return fmt.Errorf("failed to save delivery record: %w", err)
	}
	return nil
}

// ListByConsumerID 实现 domain.DeliveryRepository.ListByConsumerID
func (r *deliveryRepositoryImpl) ListByConsumerID(ctx context.Context, consumerID string, limit, offset int) ([]*domain.DeliveryRecord, int64, error) {
	var ms []DeliveryModel
	var total int64
	db := r.db.WithContext(ctx).Model(&DeliveryModel{}).Where("consumer_id = ?", consumerID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at desc").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		logging.Error(ctx, "delivery_repository.ListByConsumerID failed", "consumer_id", consumerID, "error", err)
		return nil, 0, fmt.Errorf("failed to list delivery records: %w", err)
	}

	records := make([]*domain.DeliveryRecord, len(ms))
	for i, m := range ms {
		records[i] = &domain.DeliveryRecord{
			DeliveryID:   m.DeliveryID,
			EventKind:    domain.EventKind(m.EventKind),
			Channel:      domain.Channel(m.Channel),
			TargetID:     m.TargetID,
			ConsumerID:   m.ConsumerID,
			Recipient:    m.Recipient,
			Locale:       domain.Locale(m.Locale),
			Status:       domain.DeliveryStatus(m.Status),
			ErrorMessage: m.ErrorMessage,
			SentAt:       m.SentAt,
		}
	}
	return records, total, nil
}
