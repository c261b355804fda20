package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/onlinebookstore/internal/domain/order"
	"github.com/xiebiao/onlinebookstore/pkg/circuitbreaker"
)

type sent struct {
	routingKey string
	body       []byte
}

type fakeBroker struct {
	fail bool
	sent []sent
}

func (b *fakeBroker) Exchange() string { return "bookstore.test" }

func (b *fakeBroker) Publish(_ context.Context, routingKey string, message interface{}) error {
	if b.fail {
		return errors.New("connection reset")
	}
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	b.sent = append(b.sent, sent{routingKey: routingKey, body: body})
	return nil
}

func TestOrderEventPublisher(t *testing.T) {
	broker := &fakeBroker{}
	p := NewOrderEventPublisher(broker)
	ctx := context.Background()

	placed := order.PlacedEvent{OrderID: 7, OrderNo: "20261018000000000001", UserID: 3, Total: decimal.RequireFromString("27.25"), ItemCount: 2, PlacedAt: time.Now()}
	require.NoError(t, p.Publish(ctx, placed))
	require.NoError(t, p.Publish(ctx, order.StatusChangedEvent{OrderID: 7, From: order.StatusPending, To: order.StatusShipped}))

	require.Len(t, broker.sent, 2)
	assert.Equal(t, order.RoutingKeyPlaced, broker.sent[0].routingKey)
	assert.Equal(t, order.RoutingKeyStatusChanged, broker.sent[1].routingKey)

	var decoded order.PlacedEvent
	require.NoError(t, json.Unmarshal(broker.sent[0].body, &decoded))
	assert.Equal(t, "27.25", decoded.Total.StringFixed(2))
}

func TestOrderEventPublisher_OpensBreaker(t *testing.T) {
	broker := &fakeBroker{fail: true}
	p := NewOrderEventPublisher(broker)
	ctx := context.Background()
	event := order.StatusChangedEvent{OrderID: 1, From: order.StatusPending, To: order.StatusCancelled}

	// 默认连续失败5次后熔断
	for i := 0; i < 5; i++ {
		err := p.Publish(ctx, event)
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuitbreaker.ErrOpenState)
	}

	broker.fail = false
	err := p.Publish(ctx, event)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Empty(t, broker.sent)
}

func TestLogPublisher(t *testing.T) {
	assert.NoError(t, NewLogPublisher().Publish(context.Background(), order.StatusChangedEvent{OrderID: 1}))
}

func TestEventLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	h := &EventLogger{log: logrus.NewEntry(l)}
	ctx := context.Background()

	body, err := json.Marshal(order.PlacedEvent{OrderID: 9, OrderNo: "N1", Total: decimal.RequireFromString("3.5")})
	require.NoError(t, err)
	require.NoError(t, h.Handle(ctx, order.RoutingKeyPlaced, body))
	assert.Contains(t, buf.String(), `"order_no":"N1"`)
	assert.Contains(t, buf.String(), `"total":"3.50"`)

	// 毒消息确认丢弃
	buf.Reset()
	require.NoError(t, h.Handle(ctx, order.RoutingKeyStatusChanged, []byte("{")))
	assert.Contains(t, buf.String(), "已丢弃")

	require.NoError(t, h.Handle(ctx, "order.unknown", []byte("{}")))
}
