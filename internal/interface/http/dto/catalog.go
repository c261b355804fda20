package dto

import "github.com/shopspring/decimal"

// BookRequest 新建/更新图书
// price接受字符串或数字("12.50" / 12.5),金额校验在领域层
type BookRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Author      string          `json:"author" binding:"required,max=255"`
	ISBN        string          `json:"isbn" binding:"required,max=20"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"12.50"`
	Description string          `json:"description"`
	CoverImage  string          `json:"cover_image" binding:"max=512"`
	CategoryIDs []uint          `json:"category_ids"`
}

// CategoryRequest 新建/更新分类
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}
