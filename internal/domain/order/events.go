package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 事件路由键
const (
	RoutingKeyPlaced        = "order.placed"
	RoutingKeyStatusChanged = "order.status_changed"
)

// Event 订单领域事件
type Event interface {
	RoutingKey() string
}

// PlacedEvent 下单成功(事务提交后发布)
type PlacedEvent struct {
	OrderID   uint            `json:"order_id"`
	OrderNo   string          `json:"order_no"`
	UserID    uint            `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	PlacedAt  time.Time       `json:"placed_at"`
}

func (PlacedEvent) RoutingKey() string { return RoutingKeyPlaced }

// StatusChangedEvent 订单状态变更
type StatusChangedEvent struct {
	OrderID   uint      `json:"order_id"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

func (StatusChangedEvent) RoutingKey() string { return RoutingKeyStatusChanged }

// NewPlacedEvent 由已持久化的订单生成事件
func NewPlacedEvent(o *Order) PlacedEvent {
	return PlacedEvent{
		OrderID:   o.ID,
		OrderNo:   o.OrderNo,
		UserID:    o.UserID,
		Total:     o.Total,
		ItemCount: len(o.Items),
		PlacedAt:  o.OrderDate,
	}
}

// EventPublisher 事件发布端口
// 实现在infrastructure/messaging,发布失败不影响已提交的订单
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
