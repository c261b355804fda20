package order

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
)

func TestNewFromCart(t *testing.T) {
	now := time.Date(2024, 1, 5, 9, 30, 12, 0, time.UTC)
	c := &cart.Cart{ID: 7, UserID: 7, Items: []cart.CartItem{
		{ID: 1, BookID: 10, BookTitle: "Math", BookPrice: decimal.RequireFromString("10.00"), Quantity: 2},
		{ID: 2, BookID: 11, BookTitle: "Physics", BookPrice: decimal.RequireFromString("3.33"), Quantity: 3},
	}}

	o, err := NewFromCart(c, "  221B Baker St ", now)
	require.NoError(t, err)

	assert.Equal(t, uint(7), o.UserID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, now, o.OrderDate)
	assert.Equal(t, "221B Baker St", o.ShippingAddress)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("29.99")))
	assert.True(t, o.Total.Equal(c.Total()), "下单时订单金额等于购物车金额")
	assert.True(t, strings.HasPrefix(o.OrderNo, "ORD20240105093012"))

	require.Len(t, o.Items, 2)
	assert.Equal(t, uint(10), o.Items[0].BookID)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.True(t, o.Items[0].Price.Equal(decimal.RequireFromString("10")))
}

func TestSnapshotIsIndependentOfCart(t *testing.T) {
	c := &cart.Cart{UserID: 1, Items: []cart.CartItem{
		{BookID: 10, BookPrice: decimal.RequireFromString("10.00"), Quantity: 2},
	}}

	o, err := NewFromCart(c, "addr", time.Now())
	require.NoError(t, err)

	c.Items[0].BookPrice = decimal.RequireFromString("99")
	c.Items[0].Quantity = 5

	assert.True(t, o.Total.Equal(decimal.RequireFromString("20")))
	assert.True(t, o.Items[0].Price.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestNewFromCartValidation(t *testing.T) {
	_, err := NewFromCart(&cart.Cart{UserID: 1}, "addr", time.Now())
	assert.ErrorIs(t, err, ErrEmptyCart)

	c := &cart.Cart{UserID: 1, Items: []cart.CartItem{{BookID: 1, Quantity: 1}}}
	_, err = NewFromCart(c, "   ", time.Now())
	assert.ErrorIs(t, err, ErrShippingAddressRequired)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("LOST")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestChangeStatusUnconstrained(t *testing.T) {
	o := &Order{Status: StatusPending}
	policy := TransitionPolicy{}

	require.NoError(t, o.ChangeStatus(StatusShipped, policy))
	assert.Equal(t, StatusShipped, o.Status)

	require.NoError(t, o.ChangeStatus(StatusPending, policy), "默认策略允许回退")
	assert.Equal(t, StatusPending, o.Status)

	assert.ErrorIs(t, o.ChangeStatus(Status("LOST"), policy), ErrInvalidStatus)
}

func TestChangeStatusForwardOnly(t *testing.T) {
	policy := TransitionPolicy{EnforceForward: true}
	o := &Order{Status: StatusPending}

	for _, next := range []Status{StatusConfirmed, StatusShipped, StatusDelivered, StatusCompleted} {
		require.NoError(t, o.ChangeStatus(next, policy))
	}

	err := o.ChangeStatus(StatusPending, policy)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusCompleted, o.Status)

	cancelled := &Order{Status: StatusShipped}
	assert.ErrorIs(t, cancelled.ChangeStatus(StatusCancelled, policy), ErrInvalidStatusTransition)
}

func TestItemsTotal(t *testing.T) {
	o := &Order{
		Total: decimal.RequireFromString("20"),
		Items: []OrderItem{{Price: decimal.RequireFromString("12"), Quantity: 2}},
	}
	assert.True(t, o.ItemsTotal().Equal(decimal.RequireFromString("24")))
	assert.True(t, o.Total.Equal(decimal.RequireFromString("20")), "Total不随明细重算")
}
