package dto

// AddCartItemRequest 加入购物车
// quantity的范围由领域层校验,返回统一的参数错误
type AddCartItemRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// UpdateCartItemRequest 修改购物车明细数量
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required,max=255" example:"221B Baker St"`
}

// UpdateOrderStatusRequest 修改订单状态(管理端)
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"SHIPPED"`
}
