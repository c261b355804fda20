package cart

import (
	"github.com/shopspring/decimal"
)

// Cart 购物车(聚合根)
// 每个用户只有一个购物车,注册时与用户在同一事务中创建,ID与用户ID相同
type Cart struct {
	ID     uint
	UserID uint
	Items  []CartItem
}

// CartItem 购物车明细
// BookTitle/BookPrice是读取时关联出的当前图书信息,不是快照
type CartItem struct {
	ID        uint
	CartID    uint
	BookID    uint
	BookTitle string
	BookPrice decimal.Decimal
	Quantity  int
}

// New 为用户创建空购物车
func New(userID uint) *Cart {
	return &Cart{ID: userID, UserID: userID}
}

// Total 合计 = Σ 当前单价 × 数量,每次调用重新计算
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Subtotal 单行小计
func (i CartItem) Subtotal() decimal.Decimal {
	return i.BookPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Item 按明细ID查找
func (c *Cart) Item(itemID uint) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// IsEmpty 没有任何明细
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ValidateQuantity 数量必须 >= 1
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}
