// Package domain 通知调度服务的领域模型
package domain

import "strings"

// DefaultLocale 模板解析的兜底语言
const DefaultLocale = Locale("en")

// Locale 语言区域标识，统一为小写、下划线分隔地区后缀的格式（如 en、es_co）。
// 不校验 ISO 语言表，仅作为模板查找键使用。
type Locale string

// NewLocale 规范化原始输入，空值回退到兜底语言
func NewLocale(raw string) Locale {
	l := Locale(raw).Normalize()
	if l == "" {
		return DefaultLocale
	}
	return l
}

// Normalize 转为小写并去除首尾空白
func (l Locale) Normalize() Locale {
	return Locale(strings.ToLower(strings.TrimSpace(string(l))))
}

// LanguagePrefix 返回去掉地区后缀的语言前缀（es_co → es）
func (l Locale) LanguagePrefix() Locale {
	s := string(l.Normalize())
	if idx := strings.Index(s, "_"); idx >= 0 {
		return Locale(s[:idx])
	}
	return Locale(s)
}

// String 实现 fmt.Stringer
func (l Locale) String() string { return string(l) }

// ResolveLocale 在可用语言集合中选择最匹配的语言：
// 精确匹配优先，其次语言前缀匹配，否则无条件回退到 en。
// 纯函数，对任何输入都不报错。
func ResolveLocale(requested Locale, available map[Locale]struct{}) Locale {
	normalized := requested.Normalize()
	if normalized == "" {
		normalized = DefaultLocale
	}
	if _, ok := available[normalized]; ok {
		return normalized
	}
	if prefix := normalized.LanguagePrefix(); prefix != normalized {
		if _, ok := available[prefix]; ok {
			return prefix
		}
	}
	return DefaultLocale
}
