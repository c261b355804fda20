package order

import (
	"github.com/xiebiao/onlinebookstore/internal/domain/order"
)

const timeLayout = "2006-01-02 15:04:05"

// OrderDTO 订单响应
// 金额统一以两位小数字符串输出
type OrderDTO struct {
	ID              uint           `json:"id"`
	OrderNo         string         `json:"order_no"`
	UserID          uint           `json:"user_id"`
	Status          string         `json:"status"`
	OrderDate       string         `json:"order_date"`
	ShippingAddress string         `json:"shipping_address"`
	Total           string         `json:"total"`
	Items           []OrderItemDTO `json:"items"`
}

// OrderItemDTO 订单明细响应
type OrderItemDTO struct {
	ID       uint   `json:"id"`
	BookID   uint   `json:"book_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Subtotal string `json:"subtotal"`
}

// OrderListResponse 订单分页
type OrderListResponse struct {
	List     []OrderDTO `json:"list"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// OrderItemListResponse 明细分页
type OrderItemListResponse struct {
	List     []OrderItemDTO `json:"list"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func toOrderDTO(o *order.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, toOrderItemDTO(item))
	}
	return &OrderDTO{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		OrderDate:       o.OrderDate.Format(timeLayout),
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total.StringFixed(2),
		Items:           items,
	}
}

func toOrderItemDTO(item order.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:       item.ID,
		BookID:   item.BookID,
		Quantity: item.Quantity,
		Price:    item.Price.StringFixed(2),
		Subtotal: item.Subtotal().StringFixed(2),
	}
}
