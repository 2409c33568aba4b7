package domain

import "regexp"

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Render 将内联模板中的 {{key}} 占位符替换为对应绑定值。
// 没有匹配绑定的占位符原样保留，可选字段缺失不视为错误。
// 仅用于短信与推送的内联模板，外部托管模板由服务商渲染。
func Render(templateBody string, bindings map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(templateBody, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := bindings[key]; ok {
			return value
		}
		return match
	})
}
