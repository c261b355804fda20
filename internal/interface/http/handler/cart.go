package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/onlinebookstore/internal/application/cart"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/dto"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/middleware"
	"github.com/xiebiao/onlinebookstore/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 购物车总是当前登录用户的,路径里不出现用户ID
type CartHandler struct {
	carts *appcart.CartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(carts *appcart.CartUseCase) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get 我的购物车
// @Summary      我的购物车
// @Description  单价为图书当前价格,合计实时计算
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Router       /api/v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	result, err := h.carts.Get(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  同一本书重复加入会生成新的明细行
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "图书与数量"
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Failure      400 {object} response.Response "数量不合法"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/cart [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.carts.AddItem(c.Request.Context(), appcart.AddItemRequest{
		UserID:   middleware.MustGetUserID(c),
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateItem 修改明细数量
// @Summary      修改购物车明细数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "明细ID"
// @Param        request body dto.UpdateCartItemRequest true "数量"
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Failure      404 {object} response.Response "明细不存在"
// @Router       /api/v1/cart/cart-items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.carts.UpdateItem(c.Request.Context(), appcart.UpdateItemRequest{
		UserID:   middleware.MustGetUserID(c),
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RemoveItem 删除明细
// @Summary      删除购物车明细
// @Tags         购物车
// @Security     BearerAuth
// @Param        id path int true "明细ID"
// @Success      204
// @Failure      404 {object} response.Response "明细不存在"
// @Router       /api/v1/cart/cart-items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(c.Request.Context(), middleware.MustGetUserID(c), itemID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAll 全部购物车(管理员)
// @Summary      全部购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=appcart.CartListResponse}
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/cart/all [get]
func (h *CartHandler) ListAll(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}

	result, err := h.carts.ListAll(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
