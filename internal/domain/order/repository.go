package order

import (
	"context"

	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// Repository 订单仓储接口
// 通过context传递事务(见mysql.TxManager)
//
// userID参数为nil表示不限定用户(管理端);非nil时归属校验直接写进查询条件,
// 查不到与不属于当前用户返回同一个NotFound错误
type Repository interface {
	// Create 创建订单及全部明细,回填ID
	Create(ctx context.Context, order *Order) error

	// FindByID 查询订单(含明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// UpdateStatus 覆盖状态,0行受影响返回ErrOrderNotFound
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// ListByUserID 用户订单历史(含明细),按下单时间倒序
	ListByUserID(ctx context.Context, userID uint, page pagination.Params) ([]*Order, int64, error)

	// ListItems 订单下的明细
	ListItems(ctx context.Context, orderID uint, userID *uint, page pagination.Params) ([]OrderItem, int64, error)

	// FindItem 单条明细
	FindItem(ctx context.Context, orderID, itemID uint, userID *uint) (*OrderItem, error)
}
