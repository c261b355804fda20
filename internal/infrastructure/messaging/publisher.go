// Package messaging 订单事件的发布与消费(RabbitMQ)
package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/onlinebookstore/internal/domain/order"
	"github.com/xiebiao/onlinebookstore/pkg/circuitbreaker"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/metrics"
)

// publishTimeout 单次投递超时,Broker阻塞时不拖住HTTP请求
const publishTimeout = 3 * time.Second

// messagePublisher mq.Publisher满足此接口
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Exchange() string
}

// OrderEventPublisher 通过RabbitMQ发布订单事件
// 连续失败后熔断,熔断期间直接返回ErrOpenState,不再等待Broker超时
type OrderEventPublisher struct {
	publisher messagePublisher
	breaker   *circuitbreaker.CircuitBreaker
}

// NewOrderEventPublisher 创建事件发布器
func NewOrderEventPublisher(publisher messagePublisher) *OrderEventPublisher {
	breaker := circuitbreaker.New("rabbitmq-"+publisher.Exchange(), circuitbreaker.Settings{
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			logger.L().WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("熔断器状态变化")
		},
	})
	return &OrderEventPublisher{publisher: publisher, breaker: breaker}
}

// Publish 发布事件,routing key取自事件本身
func (p *OrderEventPublisher) Publish(ctx context.Context, event order.Event) error {
	routingKey := event.RoutingKey()

	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return p.publisher.Publish(ctx, routingKey, event)
	})

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    p.publisher.Exchange(),
		"routing_key": routingKey,
		"result":      result,
	})
	return err
}

// LogPublisher 未启用RabbitMQ时使用,只记录日志
type LogPublisher struct{}

// NewLogPublisher 创建日志发布器
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (LogPublisher) Publish(ctx context.Context, event order.Event) error {
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"routing_key": event.RoutingKey(),
		"event":       event,
	}).Info("订单事件(未启用消息队列)")
	return nil
}
