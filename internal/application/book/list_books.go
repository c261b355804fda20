package book

import (
	"context"
	"strconv"

	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/metrics"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// ListBooksUseCase 图书列表查询用例
// 三种入口共用同一个分页响应:全量列表、分类下列表、条件检索
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// BookListItem 列表项DTO(不含description)
type BookListItem struct {
	ID         uint   `json:"id"`
	ISBN       string `json:"isbn"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Price      string `json:"price"`
	CoverImage string `json:"cover_image"`
	CreatedAt  string `json:"created_at"`
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 全量分页列表
func (uc *ListBooksUseCase) Execute(ctx context.Context, page pagination.Params) (*ListBooksResponse, error) {
	page = page.Normalize()
	books, total, err := uc.bookService.ListBooks(ctx, page)
	if err != nil {
		return nil, err
	}
	return newListBooksResponse(books, total, page), nil
}

// ByCategory 分类下的图书
func (uc *ListBooksUseCase) ByCategory(ctx context.Context, categoryID uint, page pagination.Params) (*ListBooksResponse, error) {
	page = page.Normalize()
	books, total, err := uc.bookService.ListBooksByCategory(ctx, categoryID, page)
	if err != nil {
		return nil, err
	}
	return newListBooksResponse(books, total, page), nil
}

// Search 条件检索
// 所有检索字段都为空时等价于全量列表
func (uc *ListBooksUseCase) Search(ctx context.Context, params book.SearchParameters, page pagination.Params) (*ListBooksResponse, error) {
	page = page.Normalize()
	books, total, err := uc.bookService.SearchBooks(ctx, params, page)
	if err != nil {
		return nil, err
	}

	filtered := !params.IsEmpty()
	metrics.IncCounterVec(metrics.BookSearchesTotal, map[string]string{"filtered": strconv.FormatBool(filtered)})
	logger.FromContext(ctx).WithField("filtered", filtered).WithField("hits", total).Debug("图书检索")

	return newListBooksResponse(books, total, page), nil
}

func newListBooksResponse(books []*book.Book, total int64, page pagination.Params) *ListBooksResponse {
	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = BookListItem{
			ID:         b.ID,
			ISBN:       b.ISBN,
			Title:      b.Title,
			Author:     b.Author,
			Price:      b.Price.StringFixed(2),
			CoverImage: b.CoverImage,
			CreatedAt:  b.CreatedAt.Format(timeLayout),
		}
	}

	// 计算总页数
	totalPages := int(total) / page.PageSize
	if int(total)%page.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	}
}
