package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
)

// Order 订单实体(聚合根)
// 要点:
// 1. OrderDate创建时确定,之后不再修改
// 2. Total创建时冻结,不随图书调价变化,也不再从明细重新计算
// 3. OrderItem是聚合内子实体,只通过Order创建
type Order struct {
	ID              uint
	OrderNo         string
	UserID          uint
	Status          Status
	OrderDate       time.Time
	ShippingAddress string
	Total           decimal.Decimal
	Items           []OrderItem
	UpdatedAt       time.Time
}

// OrderItem 订单明细
// Price是下单时的图书单价快照
type OrderItem struct {
	ID       uint
	OrderID  uint
	BookID   uint
	Quantity int
	Price    decimal.Decimal
}

// Subtotal 单行小计
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewFromCart 把购物车快照为待持久化的订单
// 每条购物车明细生成一条订单明细,单价取购物车中关联出的当前图书价格
func NewFromCart(c *cart.Cart, shippingAddress string, now time.Time) (*Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, ErrShippingAddressRequired
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := make([]OrderItem, 0, len(c.Items))
	total := decimal.Zero
	for _, ci := range c.Items {
		item := OrderItem{
			BookID:   ci.BookID,
			Quantity: ci.Quantity,
			Price:    ci.BookPrice,
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}

	return &Order{
		OrderNo:         GenerateOrderNo(now),
		UserID:          c.UserID,
		Status:          StatusPending,
		OrderDate:       now,
		ShippingAddress: shippingAddress,
		Total:           total,
		Items:           items,
		UpdatedAt:       now,
	}, nil
}

// ChangeStatus 修改状态
func (o *Order) ChangeStatus(to Status, policy TransitionPolicy) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if !policy.Allows(o.Status, to) {
		return ErrInvalidStatusTransition.WithMessage("订单状态不允许从%s变更为%s", o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

// ItemsTotal 按明细重新计算的金额(仅用于核对,不覆盖Total)
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsOwnedBy 订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
