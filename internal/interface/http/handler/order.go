package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/onlinebookstore/internal/application/order"
	"github.com/xiebiao/onlinebookstore/internal/domain/user"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/dto"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/middleware"
	"github.com/xiebiao/onlinebookstore/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	placeOrder   *apporder.PlaceOrderUseCase
	listOrders   *apporder.ListUserOrdersUseCase
	orderItems   *apporder.OrderItemsUseCase
	updateStatus *apporder.UpdateStatusUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	placeOrder *apporder.PlaceOrderUseCase,
	listOrders *apporder.ListUserOrdersUseCase,
	orderItems *apporder.OrderItemsUseCase,
	updateStatus *apporder.UpdateStatusUseCase,
) *OrderHandler {
	return &OrderHandler{
		placeOrder:   placeOrder,
		listOrders:   listOrders,
		orderItems:   orderItems,
		updateStatus: updateStatus,
	}
}

// Place 下单
// @Summary      下单
// @Description  把当前购物车快照成订单并清空购物车(单个事务)
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PlaceOrderRequest true "收货地址"
// @Success      201 {object} response.Response{data=apporder.OrderDTO} "下单成功"
// @Failure      400 {object} response.Response "购物车为空"
// @Failure      401 {object} response.Response "未登录"
// @Failure      500 {object} response.Response "事务执行失败"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.placeOrder.Execute(c.Request.Context(), apporder.PlaceOrderRequest{
		UserID:          middleware.MustGetUserID(c),
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=apporder.OrderListResponse}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}

	result, err := h.listOrders.Execute(c.Request.Context(), middleware.MustGetUserID(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListItems 订单明细
// @Summary      订单明细
// @Description  普通用户只能看到自己订单的明细,管理员不受限
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  int true  "订单ID"
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=apporder.OrderItemListResponse}
// @Router       /api/v1/orders/{id}/items [get]
func (h *OrderHandler) ListItems(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := queryPage(c)
	if !ok {
		return
	}

	result, err := h.orderItems.List(c.Request.Context(), apporder.OrderItemsRequest{
		OrderID: orderID,
		Scope:   callerScope(c),
		Page:    page,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetItem 单条订单明细
// @Summary      单条订单明细
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id     path int true "订单ID"
// @Param        itemId path int true "明细ID"
// @Success      200 {object} response.Response{data=apporder.OrderItemDTO}
// @Failure      404 {object} response.Response "明细不存在"
// @Router       /api/v1/orders/{id}/items/{itemId} [get]
func (h *OrderHandler) GetItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	result, err := h.orderItems.Get(c.Request.Context(), apporder.OrderItemsRequest{
		OrderID: orderID,
		ItemID:  itemID,
		Scope:   callerScope(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateStatus 修改订单状态(管理员)
// @Summary      修改订单状态
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                          true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "新状态"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "状态不合法"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateStatus.Execute(c.Request.Context(), apporder.UpdateStatusRequest{
		OrderID: orderID,
		Status:  req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// callerScope 管理员返回nil(不限定用户),其他用户限定为本人
func callerScope(c *gin.Context) *uint {
	if middleware.GetRole(c) == string(user.RoleAdmin) {
		return nil
	}
	userID := middleware.MustGetUserID(c)
	return &userID
}
