package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// cartStore 购物车仓储实现
// 读取购物车时一次性预加载明细及关联图书(包括已下架的图书)
type cartStore struct {
	db *gorm.DB
}

// NewCartStore 创建购物车仓储
func NewCartStore(db *gorm.DB) cart.Store {
	return &cartStore{db: db}
}

func (s *cartStore) Create(ctx context.Context, c *cart.Cart) error {
	model := &CartModel{ID: c.ID, UserID: c.UserID}
	if err := dbFromContext(ctx, s.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建购物车失败")
	}
	return nil
}

func (s *cartStore) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	return s.load(dbFromContext(ctx, s.db), userID)
}

// LockByUserID SELECT ... FOR UPDATE锁定购物车行,再读取明细
// 锁持有到事务结束;并发写入cart_items的外键检查会等待
func (s *cartStore) LockByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	db := dbFromContext(ctx, s.db)

	var locked CartModel
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&locked).Error
	if err != nil {
		if isNotFound(err) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.Wrap(err, "锁定购物车失败")
	}

	return s.load(db, userID)
}

func (s *cartStore) List(ctx context.Context, page pagination.Params) ([]*cart.Cart, int64, error) {
	db := dbFromContext(ctx, s.db)

	var total int64
	if err := db.Model(&CartModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询购物车总数失败")
	}

	var models []CartModel
	err := withCartItems(db).Order("id").Scopes(paginate(page)).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询购物车列表失败")
	}

	out := make([]*cart.Cart, len(models))
	for i := range models {
		out[i] = toCartEntity(&models[i])
	}
	return out, total, nil
}

func (s *cartStore) SaveItem(ctx context.Context, item *cart.CartItem) error {
	model := &CartItemModel{
		CartID:   item.CartID,
		BookID:   item.BookID,
		Quantity: item.Quantity,
	}
	if err := dbFromContext(ctx, s.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "保存购物车明细失败")
	}
	item.ID = model.ID
	return nil
}

func (s *cartStore) FindItem(ctx context.Context, cartID, itemID uint) (*cart.CartItem, error) {
	var model CartItemModel
	err := dbFromContext(ctx, s.db).
		Preload("Book", unscoped).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, cart.ErrCartItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车明细失败")
	}

	item := toCartItemEntity(&model)
	return &item, nil
}

// UpdateItem 只更新数量
func (s *cartStore) UpdateItem(ctx context.Context, item *cart.CartItem) error {
	result := dbFromContext(ctx, s.db).Model(&CartItemModel{}).
		Where("id = ? AND cart_id = ?", item.ID, item.CartID).
		Update("quantity", item.Quantity)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车明细失败")
	}
	return nil
}

func (s *cartStore) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	result := dbFromContext(ctx, s.db).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&CartItemModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除购物车明细失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

// DeleteAllItems DELETE FROM cart_items WHERE cart_id = ?
func (s *cartStore) DeleteAllItems(ctx context.Context, cartID uint) error {
	err := dbFromContext(ctx, s.db).Where("cart_id = ?", cartID).Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

func (s *cartStore) load(db *gorm.DB, userID uint) (*cart.Cart, error) {
	var model CartModel
	if err := withCartItems(db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}
	return toCartEntity(&model), nil
}

func withCartItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Book", unscoped)
}

// unscoped 预加载图书时包括软删除的记录
func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func toCartEntity(model *CartModel) *cart.Cart {
	c := &cart.Cart{ID: model.ID, UserID: model.UserID}
	for i := range model.Items {
		c.Items = append(c.Items, toCartItemEntity(&model.Items[i]))
	}
	return c
}

func toCartItemEntity(model *CartItemModel) cart.CartItem {
	return cart.CartItem{
		ID:        model.ID,
		CartID:    model.CartID,
		BookID:    model.BookID,
		BookTitle: model.Book.Title,
		BookPrice: model.Book.Price,
		Quantity:  model.Quantity,
	}
}
