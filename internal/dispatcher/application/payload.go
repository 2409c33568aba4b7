package application

import (
	"time"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
)

// emailTemplateData 构造邮件外部模板的动态数据。
// 键名是服务商模板的契约，按事件类型给出固定的字段集合；
// 金额与时间字段使用解析后语言区域的格式化结果。
func emailTemplateData(e *domain.NotificationEvent, resolved domain.Locale) map[string]string {
	data := map[string]string{
		"firstName": e.FirstName,
	}

	switch e.Kind {
	case domain.EventKindOTPRequested, domain.EventKindWalletUpdateOTP:
		data["one_time_password"] = e.Params.OTP
	case domain.EventKindUserRegistered:
		data["handle"] = e.Handle
	case domain.EventKindKYCApproved, domain.EventKindKYCDeclined, domain.EventKindKYCPendingReview:
		// 仅 firstName
	case domain.EventKindDepositCompleted, domain.EventKindDepositFailed,
		domain.EventKindWithdrawalCompleted, domain.EventKindWithdrawalFailed,
		domain.EventKindTransferCompleted, domain.EventKindTransferFailed:
		data["handle"] = e.Handle
		for k, v := range transactionData(e.Params.Transaction, resolved) {
			data[k] = v
		}
		if e.Kind.TransactionFailed() {
			data["reasonDeclined"] = e.Params.Transaction.FailureReason
		}
	case domain.EventKindCardAdded, domain.EventKindCardDeleted:
		data["last4Digits"] = e.Params.CardLastFour
		data["cardNetwork"] = e.Params.CardNetwork
	case domain.EventKindCardAddFailed:
		data["last4Digits"] = e.Params.CardLastFour
	case domain.EventKindHardDecline:
		data["lastName"] = e.LastName
		data["email"] = e.Recipient.Email
		data["sessionId"] = e.Params.SessionID
		data["reasonDeclined"] = e.Params.DeclineReason
	}
	return data
}

// inlineBindings 构造短信与推送内联模板的占位符绑定。
// 模板按需引用，未被引用的键无副作用，缺失的占位符由渲染器原样保留。
func inlineBindings(e *domain.NotificationEvent, resolved domain.Locale) map[string]string {
	bindings := map[string]string{
		"firstName": e.FirstName,
		"handle":    e.Handle,
	}
	if e.Params.OTP != "" {
		bindings["otp"] = e.Params.OTP
	}
	if e.Params.CardLastFour != "" {
		bindings["last4Digits"] = e.Params.CardLastFour
	}
	if tx := e.Params.Transaction; tx != nil {
		for k, v := range transactionData(tx, resolved) {
			bindings[k] = v
		}
		if e.Kind.TransactionFailed() {
			bindings["reasonDeclined"] = tx.FailureReason
		}
	}
	return bindings
}

// transactionData 交易金额字段的展示形态。
// 方向决定主金额来源与小计算法；货币代码经账本到展示的替换。
func transactionData(tx *domain.TransactionParams, resolved domain.Locale) map[string]string {
	amount := tx.CreditAmount
	currency := tx.CreditCurrency
	if tx.Direction == domain.DirectionDebit {
		amount = tx.DebitAmount
		currency = tx.DebitCurrency
	}

	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return map[string]string{
		"transactionRef":   tx.TransactionRef,
		"amount":           domain.FormatAmount(domain.Round2(amount), resolved),
		"currency":         domain.DisplayCurrency(currency),
		"subtotal":         domain.FormatAmount(domain.Subtotal(tx.Direction, amount, tx.ProcessingFees, tx.NobaFees), resolved),
		"processingFees":   domain.FormatAmount(domain.Round2(tx.ProcessingFees), resolved),
		"nobaFees":         domain.FormatAmount(domain.Round2(tx.NobaFees), resolved),
		"createdTimestamp": domain.FormatTimestamp(createdAt, resolved),
	}
}

// WebhookPayload 推给合作伙伴的事件载荷，参数保持原始数值形态，渲染由对端负责
type WebhookPayload struct {
	Event     domain.EventKind   `json:"event"`
	Timestamp int64              `json:"timestamp"`
	Consumer  WebhookConsumer    `json:"consumer"`
	Params    domain.EventParams `json:"params"`
}

// WebhookConsumer 载荷中的用户身份部分
type WebhookConsumer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Handle    string `json:"handle,omitempty"`
	Locale    string `json:"locale"`
}

func buildWebhookPayload(e *domain.NotificationEvent) WebhookPayload {
	return WebhookPayload{
		Event:     e.Kind,
		Timestamp: time.Now().Unix(),
		Consumer: WebhookConsumer{
			ID:        e.Recipient.ConsumerID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Email:     e.Recipient.Email,
			Handle:    e.Handle,
			Locale:    string(e.Locale.Normalize()),
		},
		Params: e.Params,
	}
}
