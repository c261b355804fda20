package cart

import (
	"context"

	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/metrics"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// CartDTO 购物车响应
// Total每次按当前图书价格重新计算
type CartDTO struct {
	ID     uint          `json:"id"`
	UserID uint          `json:"user_id"`
	Items  []CartItemDTO `json:"items"`
	Total  string        `json:"total"`
}

// CartItemDTO 购物车明细响应
type CartItemDTO struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	BookTitle string `json:"book_title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// CartListResponse 购物车分页(管理端)
type CartListResponse struct {
	List     []CartDTO `json:"list"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

func toCartDTO(c *cart.Cart) *CartDTO {
	items := make([]CartItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemDTO{
			ID:        item.ID,
			BookID:    item.BookID,
			BookTitle: item.BookTitle,
			Price:     item.BookPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}
	return &CartDTO{
		ID:     c.ID,
		UserID: c.UserID,
		Items:  items,
		Total:  c.Total().StringFixed(2),
	}
}

// CartUseCase 购物车用例集合
// 每个方法对应一个接口,均以当前登录用户为作用域
type CartUseCase struct {
	cartService cart.Service
}

// NewCartUseCase 创建购物车用例
func NewCartUseCase(cartService cart.Service) *CartUseCase {
	return &CartUseCase{cartService: cartService}
}

// AddItemRequest 加购请求
type AddItemRequest struct {
	UserID   uint
	BookID   uint
	Quantity int
}

// UpdateItemRequest 修改数量请求
type UpdateItemRequest struct {
	UserID   uint
	ItemID   uint
	Quantity int
}

// Get 当前用户的购物车
func (uc *CartUseCase) Get(ctx context.Context, userID uint) (*CartDTO, error) {
	c, err := uc.cartService.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCartDTO(c), nil
}

// AddItem 加入购物车
func (uc *CartUseCase) AddItem(ctx context.Context, req AddItemRequest) (*CartDTO, error) {
	c, err := uc.cartService.AddItem(ctx, req.UserID, req.BookID, req.Quantity)
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.CartItemsAddedTotal)
	logger.FromContext(ctx).WithField("user_id", req.UserID).WithField("book_id", req.BookID).Debug("加入购物车")
	return toCartDTO(c), nil
}

// UpdateItem 修改明细数量
func (uc *CartUseCase) UpdateItem(ctx context.Context, req UpdateItemRequest) (*CartDTO, error) {
	c, err := uc.cartService.UpdateItemQuantity(ctx, req.UserID, req.ItemID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return toCartDTO(c), nil
}

// RemoveItem 删除明细
func (uc *CartUseCase) RemoveItem(ctx context.Context, userID, itemID uint) error {
	return uc.cartService.RemoveItem(ctx, userID, itemID)
}

// ListAll 全部购物车(管理员)
func (uc *CartUseCase) ListAll(ctx context.Context, page pagination.Params) (*CartListResponse, error) {
	page = page.Normalize()
	carts, total, err := uc.cartService.ListAll(ctx, page)
	if err != nil {
		return nil, err
	}

	list := make([]CartDTO, 0, len(carts))
	for _, c := range carts {
		list = append(list, *toCartDTO(c))
	}
	return &CartListResponse{List: list, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}
