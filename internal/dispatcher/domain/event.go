package domain

import "time"

// Channel 通知投递渠道
type Channel string

const (
	ChannelEmail   Channel = "EMAIL"   // 邮件（服务商托管模板）
	ChannelSMS     Channel = "SMS"     // 短信（内联模板）
	ChannelPush    Channel = "PUSH"    // 推送（内联模板）
	ChannelWebhook Channel = "WEBHOOK" // 合作伙伴 Webhook
)

// ValidChannel 判断渠道是否受支持
func ValidChannel(c Channel) bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelWebhook:
		return true
	}
	return false
}

// EventKind 领域事件类型
type EventKind string

const (
	EventKindOTPRequested        EventKind = "otp.requested"
	EventKindWalletUpdateOTP     EventKind = "wallet.update.otp"
	EventKindUserRegistered      EventKind = "user.registered"
	EventKindKYCApproved         EventKind = "kyc.approved"
	EventKindKYCDeclined         EventKind = "kyc.declined"
	EventKindKYCPendingReview    EventKind = "kyc.pending_review"
	EventKindDepositCompleted    EventKind = "deposit.completed"
	EventKindDepositFailed       EventKind = "deposit.failed"
	EventKindWithdrawalCompleted EventKind = "withdrawal.completed"
	EventKindWithdrawalFailed    EventKind = "withdrawal.failed"
	EventKindTransferCompleted   EventKind = "transfer.completed"
	EventKindTransferFailed      EventKind = "transfer.failed"
	EventKindCardAdded           EventKind = "card.added"
	EventKindCardAddFailed       EventKind = "card.add_failed"
	EventKindCardDeleted         EventKind = "card.deleted"
	EventKindHardDecline         EventKind = "compliance.hard_decline"
)

var knownEventKinds = map[EventKind]struct{}{
	EventKindOTPRequested:        {},
	EventKindWalletUpdateOTP:     {},
	EventKindUserRegistered:      {},
	EventKindKYCApproved:         {},
	EventKindKYCDeclined:         {},
	EventKindKYCPendingReview:    {},
	EventKindDepositCompleted:    {},
	EventKindDepositFailed:       {},
	EventKindWithdrawalCompleted: {},
	EventKindWithdrawalFailed:    {},
	EventKindTransferCompleted:   {},
	EventKindTransferFailed:      {},
	EventKindCardAdded:           {},
	EventKindCardAddFailed:       {},
	EventKindCardDeleted:         {},
	EventKindHardDecline:         {},
}

// Valid 判断事件类型是否已注册
func (k EventKind) Valid() bool {
	_, ok := knownEventKinds[k]
	return ok
}

// TransactionDirection 交易方向，决定小计的计算方式
type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "CREDIT" // 入金：金额加手续费
	DirectionDebit  TransactionDirection = "DEBIT"  // 出金：金额减手续费
)

// Recipient 通知接收者身份
type Recipient struct {
	ConsumerID  string   `json:"consumer_id"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	PushTokens  []string `json:"push_tokens"`
}

// TransactionParams 交易类事件的金额参数。
// 金额以原始数值传入，展示形态由渠道处理器经格式化器派生。
type TransactionParams struct {
	TransactionRef string               `json:"transaction_ref"`
	Direction      TransactionDirection `json:"direction"`
	CreditAmount   float64              `json:"credit_amount"`
	CreditCurrency string               `json:"credit_currency"`
	DebitAmount    float64              `json:"debit_amount"`
	DebitCurrency  string               `json:"debit_currency"`
	ProcessingFees float64              `json:"processing_fees"`
	NobaFees       float64              `json:"noba_fees"`
	ExchangeRate   float64              `json:"exchange_rate"`
	CreatedAt      time.Time            `json:"created_at"`
	FailureReason  string               `json:"failure_reason,omitempty"`
}

// EventParams 事件附加参数，按事件类型使用其中一部分字段
type EventParams struct {
	OTP           string             `json:"otp,omitempty"`
	CardLastFour  string             `json:"card_last_four,omitempty"`
	CardNetwork   string             `json:"card_network,omitempty"`
	DeclineReason string             `json:"decline_reason,omitempty"`
	SessionID     string             `json:"session_id,omitempty"`
	Transaction   *TransactionParams `json:"transaction,omitempty"`
}

// NotificationEvent 一次分发调用的不可变载荷，每次调用新建，无持久化身份
type NotificationEvent struct {
	Kind      EventKind   `json:"kind"`
	TargetID  string      `json:"target_id"`
	Locale    Locale      `json:"locale"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Handle    string      `json:"handle"`
	Recipient Recipient   `json:"recipient"`
	Params    EventParams `json:"params"`
}

// Validate 校验所有渠道共享的结构性约束，分发入口唯一会上抛的错误来源
func (e *NotificationEvent) Validate() error {
	if !e.Kind.Valid() {
		return &ValidationError{Kind: e.Kind, Field: "kind"}
	}
	if e.Recipient.ConsumerID == "" {
		return &ValidationError{Kind: e.Kind, Field: "recipient.consumer_id"}
	}
	return nil
}

// ValidateParams 校验事件类型对应的必填参数。
// firstName 允许为空（展示时降级为空串），其余必填字段缺失即快速失败。
func (e *NotificationEvent) ValidateParams() error {
	switch e.Kind {
	case EventKindOTPRequested, EventKindWalletUpdateOTP:
		if e.Params.OTP == "" {
			return &ValidationError{Kind: e.Kind, Field: "params.otp"}
		}
	case EventKindDepositCompleted, EventKindDepositFailed,
		EventKindWithdrawalCompleted, EventKindWithdrawalFailed,
		EventKindTransferCompleted, EventKindTransferFailed:
		tx := e.Params.Transaction
		if tx == nil {
			return &ValidationError{Kind: e.Kind, Field: "params.transaction"}
		}
		if tx.TransactionRef == "" {
			return &ValidationError{Kind: e.Kind, Field: "params.transaction.transaction_ref"}
		}
		if tx.Direction != DirectionCredit && tx.Direction != DirectionDebit {
			return &ValidationError{Kind: e.Kind, Field: "params.transaction.direction"}
		}
	case EventKindCardAdded, EventKindCardAddFailed, EventKindCardDeleted:
		if e.Params.CardLastFour == "" {
			return &ValidationError{Kind: e.Kind, Field: "params.card_last_four"}
		}
	case EventKindHardDecline:
		if e.Params.SessionID == "" {
			return &ValidationError{Kind: e.Kind, Field: "params.session_id"}
		}
		if e.Params.DeclineReason == "" {
			return &ValidationError{Kind: e.Kind, Field: "params.decline_reason"}
		}
	}
	return nil
}

// TransactionFailed 事件是否为失败类交易事件
func (k EventKind) TransactionFailed() bool {
	switch k {
	case EventKindDepositFailed, EventKindWithdrawalFailed, EventKindTransferFailed:
		return true
	}
	return false
}
