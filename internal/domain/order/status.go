package order

import (
	"strings"
)

// Status 订单状态
// 使用字符串存储(与接口层JSON一致,便于排查)
type Status string

const (
	StatusPending   Status = "PENDING"   // 已下单(初始状态)
	StatusConfirmed Status = "CONFIRMED" // 已确认
	StatusShipped   Status = "SHIPPED"   // 已发货
	StatusDelivered Status = "DELIVERED" // 已送达
	StatusCompleted Status = "COMPLETED" // 已完成
	StatusCancelled Status = "CANCELLED" // 已取消
)

// AllStatuses 全部合法状态
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusShipped,
	StatusDelivered,
	StatusCompleted,
	StatusCancelled,
}

// ParseStatus 解析状态(忽略大小写与首尾空白)
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", ErrInvalidStatus.WithMessage("订单状态不合法: %q", s)
	}
	return status, nil
}

// Valid 是否为合法枚举值
func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// forwardTransitions 单向流转表
//
//	PENDING → CONFIRMED → SHIPPED → DELIVERED → COMPLETED
//	PENDING/CONFIRMED → CANCELLED
var forwardTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// TransitionPolicy 状态变更策略
// 默认不限制流转(管理员可以把订单改成任意合法状态,包括回退);
// EnforceForward为true时只允许forwardTransitions中的单向流转
type TransitionPolicy struct {
	EnforceForward bool
}

// Allows 判断from→to是否允许
func (p TransitionPolicy) Allows(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if !p.EnforceForward {
		return true
	}
	for _, allowed := range forwardTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
