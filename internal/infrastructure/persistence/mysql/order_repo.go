package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/onlinebookstore/internal/domain/order"
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// orderRepository 订单仓储实现(MySQL)
// 1. Order和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单及明细
// GORM随订单一起插入Items,之后回填自增ID
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindByID 根据ID查找订单
//
//	SELECT * FROM orders WHERE id = ?
//	SELECT * FROM order_items WHERE order_id IN (?) ORDER BY id
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	if err := withOrderItems(dbFromContext(ctx, r.db)).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// UpdateStatus 覆盖订单状态
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	db := dbFromContext(ctx, r.db)

	result := db.Model(&OrderModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单状态失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL对值未变化的行返回0,需要再确认订单是否存在
	var count int64
	if err := db.Model(&OrderModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(err, "查询订单失败")
	}
	if count == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// ListByUserID 用户订单历史,按下单时间倒序
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page pagination.Params) ([]*order.Order, int64, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&OrderModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	var models []OrderModel
	err := withOrderItems(db).
		Where("user_id = ?", userID).
		Order("order_date DESC").Order("id DESC").
		Scopes(paginate(page)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	out := make([]*order.Order, len(models))
	for i := range models {
		out[i] = toOrderEntity(&models[i])
	}
	return out, total, nil
}

// ListItems 订单下的明细
// userID非nil时通过JOIN orders把归属条件写进查询
func (r *orderRepository) ListItems(ctx context.Context, orderID uint, userID *uint, page pagination.Params) ([]order.OrderItem, int64, error) {
	query := scopedItems(dbFromContext(ctx, r.db), orderID, userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单明细总数失败")
	}

	var models []OrderItemModel
	err := query.Session(&gorm.Session{}).
		Order("order_items.id").
		Scopes(paginate(page)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单明细失败")
	}

	items := make([]order.OrderItem, len(models))
	for i := range models {
		items[i] = toOrderItemEntity(&models[i])
	}
	return items, total, nil
}

// FindItem 单条明细,不存在或不属于当前用户都返回ErrOrderItemNotFound
func (r *orderRepository) FindItem(ctx context.Context, orderID, itemID uint, userID *uint) (*order.OrderItem, error) {
	var model OrderItemModel
	err := scopedItems(dbFromContext(ctx, r.db), orderID, userID).
		Where("order_items.id = ?", itemID).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, order.ErrOrderItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单明细失败")
	}

	item := toOrderItemEntity(&model)
	return &item, nil
}

func scopedItems(db *gorm.DB, orderID uint, userID *uint) *gorm.DB {
	query := db.Model(&OrderItemModel{}).
		Select("order_items.*").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.order_id = ?", orderID)
	if userID != nil {
		query = query.Where("orders.user_id = ?", *userID)
	}
	return query
}

func withOrderItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") })
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &OrderModel{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		UserID:          o.UserID,
		Status:          string(o.Status),
		OrderDate:       o.OrderDate,
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total,
		Items:           items,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(model.Items))
	for i := range model.Items {
		items[i] = toOrderItemEntity(&model.Items[i])
	}

	return &order.Order{
		ID:              model.ID,
		OrderNo:         model.OrderNo,
		UserID:          model.UserID,
		Status:          order.Status(model.Status),
		OrderDate:       model.OrderDate,
		ShippingAddress: model.ShippingAddress,
		Total:           model.Total,
		Items:           items,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toOrderItemEntity(model *OrderItemModel) order.OrderItem {
	return order.OrderItem{
		ID:       model.ID,
		OrderID:  model.OrderID,
		BookID:   model.BookID,
		Quantity: model.Quantity,
		Price:    model.Price,
	}
}
