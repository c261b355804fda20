package cart

import (
	"context"

	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// Store 购物车仓储接口
// 所有读取方法都会一次性关联出明细及图书标题/单价(不做懒加载)
type Store interface {
	// Create 创建空购物车
	Create(ctx context.Context, cart *Cart) error

	// FindByUserID 不存在返回ErrCartNotFound
	FindByUserID(ctx context.Context, userID uint) (*Cart, error)

	// LockByUserID 在当前事务中以SELECT ... FOR UPDATE锁定购物车行
	// 必须在TxManager.Transaction内调用
	LockByUserID(ctx context.Context, userID uint) (*Cart, error)

	// List 分页查询全部购物车(管理端)
	List(ctx context.Context, page pagination.Params) ([]*Cart, int64, error)

	// SaveItem 新增明细,回填ID
	SaveItem(ctx context.Context, item *CartItem) error

	// FindItem 按购物车+明细ID查找,不存在返回ErrCartItemNotFound
	FindItem(ctx context.Context, cartID, itemID uint) (*CartItem, error)

	// UpdateItem 只更新数量
	UpdateItem(ctx context.Context, item *CartItem) error

	// DeleteItem 删除单条明细,0行受影响返回ErrCartItemNotFound
	DeleteItem(ctx context.Context, cartID, itemID uint) error

	// DeleteAllItems 一条语句删除购物车全部明细
	DeleteAllItems(ctx context.Context, cartID uint) error
}

// BookLookup 解析图书引用
type BookLookup interface {
	FindByID(ctx context.Context, id uint) (*book.Book, error)
}
