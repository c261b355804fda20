package order

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/onlinebookstore/internal/domain/order"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/metrics"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// UpdateStatusUseCase 修改订单状态(管理员)
type UpdateStatusUseCase struct {
	orderRepo order.Repository
	policy    order.TransitionPolicy
	publisher order.EventPublisher
}

// NewUpdateStatusUseCase 创建状态修改用例
func NewUpdateStatusUseCase(
	orderRepo order.Repository,
	policy order.TransitionPolicy,
	publisher order.EventPublisher,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		orderRepo: orderRepo,
		policy:    policy,
		publisher: publisher,
	}
}

// UpdateStatusRequest 状态修改请求
type UpdateStatusRequest struct {
	OrderID uint
	Status  string
}

// Execute 执行状态修改
// 订单不存在返回NotFound,状态值不合法返回参数错误
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, req UpdateStatusRequest) (*OrderDTO, error) {
	to, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if err := o.ChangeStatus(to, uc.policy); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.UpdateStatus(ctx, o.ID, o.Status); err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.OrderStatusChangesTotal, map[string]string{"status": to.String()})
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"order_id": o.ID,
		"from":     from,
		"to":       to,
	})
	log.Info("订单状态已更新")

	event := order.StatusChangedEvent{OrderID: o.ID, From: from, To: to, ChangedAt: time.Now()}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("发布订单状态事件失败")
	}

	return toOrderDTO(o), nil
}

// ListUserOrdersUseCase 当前用户的订单历史
type ListUserOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListUserOrdersUseCase 创建订单历史用例
func NewListUserOrdersUseCase(orderRepo order.Repository) *ListUserOrdersUseCase {
	return &ListUserOrdersUseCase{orderRepo: orderRepo}
}

// Execute 分页查询
func (uc *ListUserOrdersUseCase) Execute(ctx context.Context, userID uint, page pagination.Params) (*OrderListResponse, error) {
	page = page.Normalize()
	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	list := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		list = append(list, *toOrderDTO(o))
	}
	return &OrderListResponse{List: list, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

// OrderItemsUseCase 订单明细查询
// Scope为nil时不限定用户(管理员),否则只能查询自己订单下的明细
type OrderItemsUseCase struct {
	orderRepo order.Repository
}

// NewOrderItemsUseCase 创建明细查询用例
func NewOrderItemsUseCase(orderRepo order.Repository) *OrderItemsUseCase {
	return &OrderItemsUseCase{orderRepo: orderRepo}
}

// OrderItemsRequest 明细查询请求
type OrderItemsRequest struct {
	OrderID uint
	ItemID  uint
	Scope   *uint
	Page    pagination.Params
}

// List 订单下的全部明细
// 订单不属于调用方时返回空列表
func (uc *OrderItemsUseCase) List(ctx context.Context, req OrderItemsRequest) (*OrderItemListResponse, error) {
	page := req.Page.Normalize()
	items, total, err := uc.orderRepo.ListItems(ctx, req.OrderID, req.Scope, page)
	if err != nil {
		return nil, err
	}

	list := make([]OrderItemDTO, 0, len(items))
	for _, item := range items {
		list = append(list, toOrderItemDTO(item))
	}
	return &OrderItemListResponse{List: list, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

// Get 单条明细
// 明细不存在、不属于该订单或订单不属于调用方,统一返回NotFound
func (uc *OrderItemsUseCase) Get(ctx context.Context, req OrderItemsRequest) (*OrderItemDTO, error) {
	item, err := uc.orderRepo.FindItem(ctx, req.OrderID, req.ItemID, req.Scope)
	if err != nil {
		return nil, err
	}
	dto := toOrderItemDTO(*item)
	return &dto, nil
}
