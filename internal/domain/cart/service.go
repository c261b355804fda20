package cart

import (
	"context"

	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// Service 购物车领域服务
type Service interface {
	// GetByUserID 当前用户的购物车
	GetByUserID(ctx context.Context, userID uint) (*Cart, error)

	// ListAll 全部购物车(管理端)
	ListAll(ctx context.Context, page pagination.Params) ([]*Cart, int64, error)

	// AddItem 加入购物车
	// 同一本书重复加入会产生两条明细,不合并
	AddItem(ctx context.Context, userID, bookID uint, quantity int) (*Cart, error)

	// UpdateItemQuantity 修改明细数量,不改变图书引用
	UpdateItemQuantity(ctx context.Context, userID, itemID uint, quantity int) (*Cart, error)

	// RemoveItem 删除明细,重复删除同一ID返回ErrCartItemNotFound
	RemoveItem(ctx context.Context, userID, itemID uint) error

	// Clear 清空购物车
	// 只由下单流程在其事务内调用
	Clear(ctx context.Context, cart *Cart) error
}

type service struct {
	store Store
	books BookLookup
}

// NewService 创建购物车领域服务
func NewService(store Store, books BookLookup) Service {
	return &service{store: store, books: books}
}

func (s *service) GetByUserID(ctx context.Context, userID uint) (*Cart, error) {
	return s.store.FindByUserID(ctx, userID)
}

func (s *service) ListAll(ctx context.Context, page pagination.Params) ([]*Cart, int64, error) {
	return s.store.List(ctx, page.Normalize())
}

func (s *service) AddItem(ctx context.Context, userID, bookID uint, quantity int) (*Cart, error) {
	// 1. 参数校验先于任何读写
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	// 2. 购物车与图书
	c, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// 3. 新建明细
	item := CartItem{
		CartID:    c.ID,
		BookID:    b.ID,
		BookTitle: b.Title,
		BookPrice: b.Price,
		Quantity:  quantity,
	}
	if err := s.store.SaveItem(ctx, &item); err != nil {
		return nil, err
	}

	c.Items = append(c.Items, item)
	return c, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uint, quantity int) (*Cart, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	c, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 明细必须属于当前用户的购物车
	item, err := s.store.FindItem(ctx, c.ID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if existing, ok := c.Item(itemID); ok {
		existing.Quantity = quantity
	}
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uint) error {
	c, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.store.DeleteItem(ctx, c.ID, itemID)
}

func (s *service) Clear(ctx context.Context, c *Cart) error {
	// 先删库中明细,成功后再清空内存集合
	if err := s.store.DeleteAllItems(ctx, c.ID); err != nil {
		return err
	}
	c.Items = nil
	return nil
}
