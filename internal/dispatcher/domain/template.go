package domain

// TemplateContent 模板内容变体。外部模板引用与内联模板体互斥，
// 以变体构造保证不变量，而非运行时互相清除字段。
type TemplateContent interface {
	templateContent()
}

// ExternalTemplate 服务商托管布局的模板引用（邮件、部分推送服务商）
type ExternalTemplate struct {
	TemplateID string `json:"template_id"`
}

func (ExternalTemplate) templateContent() {}

// InlineTemplate 由本服务渲染的内联模板（短信正文、推送标题与正文）
type InlineTemplate struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

func (InlineTemplate) templateContent() {}

// TemplateEntry 一个渲染目标：(事件类型, 渠道, 语言) 对应一份模板内容
type TemplateEntry struct {
	EventKind EventKind
	Channel   Channel
	Locale    Locale
	Content   TemplateContent
}

// External 返回外部模板引用，若为内联变体则 ok 为 false
func (t *TemplateEntry) External() (ExternalTemplate, bool) {
	ext, ok := t.Content.(ExternalTemplate)
	return ext, ok
}

// Inline 返回内联模板，若为外部变体则 ok 为 false
func (t *TemplateEntry) Inline() (InlineTemplate, bool) {
	in, ok := t.Content.(InlineTemplate)
	return in, ok
}
