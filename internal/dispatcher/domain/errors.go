package domain

import (
	"errors"
	"fmt"
)

// ErrTemplateNotFound 指定事件与渠道没有任何可用模板条目。
// 仅对该渠道的本次投递致命，不影响同一事件的其他渠道。
var ErrTemplateNotFound = errors.New("template not found")

// ErrChannelConfigNotFound 目标没有该事件的渠道配置。
// 不是错误：调度路由收到后回退到仅邮件的默认策略。
var ErrChannelConfigNotFound = errors.New("channel configuration not found")

// ValidationError 事件载荷缺少该事件类型要求的必填字段，
// 处理器不得携带不完整数据尝试投递。
type ValidationError struct {
	Kind  EventKind
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("event %s: missing or invalid field %s", e.Kind, e.Field)
}

// TransportError 下游服务商调用失败（网络、鉴权、限流）。
// 就地恢复：记录日志后吞掉，对调用方视为"已尝试、结果未知"。
type TransportError struct {
	Channel Channel
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Channel, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
