package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ledgerCryptoCurrency 加密钱包余额在内部账本中的记账货币
const ledgerCryptoCurrency = "USD"

// displayCryptoCurrency 对终端用户展示的稳定币代码
const displayCryptoCurrency = "USDC"

// DisplayCurrency 账本货币到展示货币的替换。
// 加密钱包余额在账本中记为 USD，面向用户展示为 USDC；其余代码原样透传。
func DisplayCurrency(code string) string {
	if code == ledgerCryptoCurrency {
		return displayCryptoCurrency
	}
	return code
}

// Round2 金额保留两位小数，半数远离零（half-up）。
// 所有金额展示前统一经过此规则，保证各调用点一致。
func Round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Subtotal 交易小计：入金方向为金额加手续费，出金方向为金额减手续费。
// 结果同样保留两位小数。
func Subtotal(direction TransactionDirection, amount, processingFees, nobaFees float64) decimal.Decimal {
	a := decimal.NewFromFloat(amount)
	fees := decimal.NewFromFloat(processingFees).Add(decimal.NewFromFloat(nobaFees))
	if direction == DirectionDebit {
		return a.Sub(fees).Round(2)
	}
	return a.Add(fees).Round(2)
}

// FormatAmount 按解析后的语言区域格式化金额（千分位与小数点习惯随区域变化）。
// 语言标签解析失败时回退到英语格式。
func FormatAmount(v decimal.Decimal, loc Locale) string {
	p := message.NewPrinter(languageTag(loc))
	f, _ := v.Round(2).Float64()
	return p.Sprint(number.Decimal(f, number.Scale(2)))
}

// FormatTimestamp 按语言区域惯例格式化时间戳
func FormatTimestamp(t time.Time, loc Locale) string {
	switch loc.LanguagePrefix() {
	case "es":
		return t.Format("02/01/2006 15:04")
	default:
		return t.Format("Jan 2, 2006 3:04 PM")
	}
}

// languageTag 将下划线区域后缀格式转为 BCP 47 标签（es_co → es-CO）
func languageTag(loc Locale) language.Tag {
	s := strings.ReplaceAll(string(loc.Normalize()), "_", "-")
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}
