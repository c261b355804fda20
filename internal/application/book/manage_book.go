package book

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
)

const timeLayout = "2006-01-02 15:04:05"

// BookRequest 新建/更新图书请求DTO
type BookRequest struct {
	Title       string
	Author      string
	ISBN        string
	Price       decimal.Decimal
	Description string
	CoverImage  string
	CategoryIDs []uint
}

func (r BookRequest) input() book.Input {
	return book.Input{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Price:       r.Price,
		Description: r.Description,
		CoverImage:  r.CoverImage,
		CategoryIDs: r.CategoryIDs,
	}
}

// BookDTO 图书详情响应
type BookDTO struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Price       string `json:"price"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	CategoryIDs []uint `json:"category_ids"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toBookDTO(b *book.Book) *BookDTO {
	categoryIDs := b.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []uint{}
	}
	return &BookDTO{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Price:       b.Price.StringFixed(2),
		Description: b.Description,
		CoverImage:  b.CoverImage,
		CategoryIDs: categoryIDs,
		CreatedAt:   b.CreatedAt.Format(timeLayout),
		UpdatedAt:   b.UpdatedAt.Format(timeLayout),
	}
}

// ManageBookUseCase 图书维护用例(管理员)
// 应用层只负责编排与DTO转换,校验规则在领域服务中
type ManageBookUseCase struct {
	bookService book.Service
}

// NewManageBookUseCase 创建图书维护用例
func NewManageBookUseCase(bookService book.Service) *ManageBookUseCase {
	return &ManageBookUseCase{bookService: bookService}
}

// Create 上架图书
func (uc *ManageBookUseCase) Create(ctx context.Context, req BookRequest) (*BookDTO, error) {
	b, err := uc.bookService.CreateBook(ctx, req.input())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).WithField("book_id", b.ID).WithField("isbn", b.ISBN).Info("图书已上架")
	return toBookDTO(b), nil
}

// Get 图书详情
func (uc *ManageBookUseCase) Get(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookDTO(b), nil
}

// Update 整体更新
func (uc *ManageBookUseCase) Update(ctx context.Context, id uint, req BookRequest) (*BookDTO, error) {
	b, err := uc.bookService.UpdateBook(ctx, id, req.input())
	if err != nil {
		return nil, err
	}
	return toBookDTO(b), nil
}

// Delete 删除图书
// 已被订单引用的图书仍保留在订单明细中(软删除)
func (uc *ManageBookUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).WithField("book_id", id).Info("图书已删除")
	return nil
}
