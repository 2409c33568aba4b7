// Package application 通知调度的应用服务层
package application

import (
	"context"
	"fmt"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// TemplateCatalog 模板目录：按 (事件类型, 渠道, 语言) 解析模板条目。
// 语言选择委托给领域层的 ResolveLocale，限定在该事件与渠道实际存在的语言内。
type TemplateCatalog struct {
	templates domain.TemplateRepository
}

// NewTemplateCatalog 构造函数
func NewTemplateCatalog(templates domain.TemplateRepository) *TemplateCatalog {
	return &TemplateCatalog{templates: templates}
}

// GetTemplate 解析模板条目。
// (事件类型, 渠道) 下没有任何条目时返回 ErrTemplateNotFound；
// 解析出的语言（含 en 兜底）没有对应条目同样视为 ErrTemplateNotFound，
// 绝不返回空模板。语言不匹配本身不报错，由解析器兜底吸收。
func (c *TemplateCatalog) GetTemplate(ctx context.Context, kind domain.EventKind, channel domain.Channel, locale domain.Locale) (*domain.TemplateEntry, error) {
	entries, err := c.templates.ListByEventAndChannel(ctx, kind, channel)
	if err != nil {
		return nil, fmt.Errorf("list templates for %s/%s: %w", kind, channel, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries for %s/%s", domain.ErrTemplateNotFound, kind, channel)
	}

	byLocale := make(map[domain.Locale]*domain.TemplateEntry, len(entries))
	available := make(map[domain.Locale]struct{}, len(entries))
	for _, entry := range entries {
		normalized := entry.Locale.Normalize()
		byLocale[normalized] = entry
		available[normalized] = struct{}{}
	}

	resolved := domain.ResolveLocale(locale, available)
	entry, ok := byLocale[resolved]
	if !ok {
		return nil, fmt.Errorf("%w: no %s entry for %s/%s", domain.ErrTemplateNotFound, resolved, kind, channel)
	}
	return entry, nil
}
