// Package mysql 通知调度仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"
	"fmt"

	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// TemplateModel 模板条目数据库模型。
// external_template_id 与 body/title 互斥，由领域层的内容变体保证：
// 写入时按变体整体覆盖，另一组列自然落空。
type TemplateModel struct {
	gorm.Model
	EventKind          string `gorm:"column:event_kind;type:varchar(40);uniqueIndex:idx_template_key;not null"`
	Channel            string `gorm:"column:channel;type:varchar(10);uniqueIndex:idx_template_key;not null"`
	Locale             string `gorm:"column:locale;type:varchar(10);uniqueIndex:idx_template_key;not null"`
	ExternalTemplateID string `gorm:"column:external_template_id;type:varchar(100)"`
	Title              string `gorm:"column:title;type:varchar(200)"`
	Body               string `gorm:"column:body;type:text"`
}

// TableName 指定表名
func (TemplateModel) TableName() string {
	return "notification_templates"
}

// templateRepositoryImpl 是 domain.TemplateRepository 接口的 GORM 实现。
type templateRepositoryImpl struct {
	db *gorm.DB
}

// NewTemplateRepository 创建模板仓储实例
func NewTemplateRepository(db *gorm.DB) domain.TemplateRepository {
	return &templateRepositoryImpl{db: db}
}

// ListByEventAndChannel 实现 domain.TemplateRepository.ListByEventAndChannel
func (r *templateRepositoryImpl) ListByEventAndChannel(ctx context.Context, kind domain.EventKind, channel domain.Channel) ([]*domain.TemplateEntry, error) {
	var ms []TemplateModel
	err := r.db.WithContext(ctx).
		Where("event_kind = ? AND channel = ?", string(kind), string(channel)).
		Find(&ms).Error
	if err != nil {
		logging.Error(ctx, "template_repository.ListByEventAndChannel failed", "event_kind", kind, "channel", channel, "error", err)
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	entries := make([]*domain.TemplateEntry, len(ms))
	for i, m := range ms {
		entries[i] = r.toDomain(&m)
	}
	return entries, nil
}

// Save 实现 domain.TemplateRepository.Save
func (r *templateRepositoryImpl) Save(ctx context.Context, entry *domain.TemplateEntry) error {
	m := r.fromDomain(entry)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_kind"}, {Name: "channel"}, {Name: "locale"}},
		UpdateAll: true,
	}).Create(m).Error
	if err != nil {
		logging.Error(ctx, "template_repository.Save failed", "event_kind", entry.EventKind, "channel", entry.Channel, "locale", entry.Locale, "error", err)
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

// Delete 实现 domain.TemplateRepository.Delete
func (r *templateRepositoryImpl) Delete(ctx context.Context, kind domain.EventKind, channel domain.Channel, locale domain.Locale) error {
	err := r.db.WithContext(ctx).
		Where("event_kind = ? AND channel = ? AND locale = ?", string(kind), string(channel), string(locale)).
		Delete(&TemplateModel{}).Error
	if err != nil {
		logging.Error(ctx, "template_repository.Delete failed", "event_kind", kind, "channel", channel, "locale", locale, "error", err)
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// List 实现 domain.TemplateRepository.List
func (r *templateRepositoryImpl) List(ctx context.Context) ([]*domain.TemplateEntry, error) {
	var ms []TemplateModel
	if err := r.db.WithContext(ctx).Order("event_kind, channel, locale").Find(&ms).Error; err != nil {
		logging.Error(ctx, "template_repository.List failed", "error", err)
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	entries := make([]*domain.TemplateEntry, len(ms))
	for i, m := range ms {
		entries[i] = r.toDomain(&m)
	}
	return entries, nil
}

func (r *templateRepositoryImpl) toDomain(m *TemplateModel) *domain.TemplateEntry {
	var content domain.TemplateContent
	if m.ExternalTemplateID != "" {
		content = domain.ExternalTemplate{TemplateID: m.ExternalTemplateID}
	} else {
		content = domain.InlineTemplate{Title: m.Title, Body: m.Body}
	}
	return &domain.TemplateEntry{
		EventKind: domain.EventKind(m.EventKind),
		Channel:   domain.Channel(m.Channel),
		Locale:    domain.Locale(m.Locale),
		Content:   content,
	}
}

func (r *templateRepositoryImpl) fromDomain(entry *domain.TemplateEntry) *TemplateModel {
	m := &TemplateModel{
		EventKind: string(entry.EventKind),
		Channel:   string(entry.Channel),
		Locale:    string(entry.Locale.Normalize()),
	}
	switch content := entry.Content.(type) {
	case domain.ExternalTemplate:
		m.ExternalTemplateID = content.TemplateID
	case domain.InlineTemplate:
		m.Title = content.Title
		m.Body = content.Body
	}
	return m
}
