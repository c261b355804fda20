package messaging

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/onlinebookstore/internal/domain/order"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
)

// EventLogger 消费订单事件并写结构化日志
// 供`events`子命令使用,便于下游对账、通知等服务参考事件格式
type EventLogger struct {
	log *logrus.Entry
}

// NewEventLogger 创建事件消费者
func NewEventLogger() *EventLogger {
	return &EventLogger{log: logger.L().WithField("component", "order-events")}
}

// Handle 实现mq.Consumer的handler签名
// 无法解析的消息直接确认丢弃,避免毒消息反复重投
func (h *EventLogger) Handle(ctx context.Context, routingKey string, body []byte) error {
	log := h.log.WithField("routing_key", routingKey)

	switch routingKey {
	case order.RoutingKeyPlaced:
		var e order.PlacedEvent
		if err := json.Unmarshal(body, &e); err != nil {
			log.WithError(err).Warn("下单事件格式错误,已丢弃")
			return nil
		}
		log.WithFields(logrus.Fields{
			"order_id":   e.OrderID,
			"order_no":   e.OrderNo,
			"user_id":    e.UserID,
			"total":      e.Total.StringFixed(2),
			"item_count": e.ItemCount,
		}).Info("收到下单事件")

	case order.RoutingKeyStatusChanged:
		var e order.StatusChangedEvent
		if err := json.Unmarshal(body, &e); err != nil {
			log.WithError(err).Warn("状态变更事件格式错误,已丢弃")
			return nil
		}
		log.WithFields(logrus.Fields{
			"order_id": e.OrderID,
			"from":     e.From,
			"to":       e.To,
		}).Info("收到订单状态变更事件")

	default:
		log.Debug("忽略未知事件")
	}
	return nil
}

// RoutingKeys events命令绑定的路由键
func RoutingKeys() []string {
	return []string{"order.*"}
}
