package application

// SenderConfig 渠道处理器的静态发信配置，启动时注入，不使用包级常量
type SenderConfig struct {
	// FromEmail 常规通知的发件地址
	FromEmail string
	// ComplianceEmail 合规硬拒绝事件的收件地址
	ComplianceEmail string
	// SupportURL 失败类通知中引导用户联系客服的链接
	SupportURL string
}
