package category

import (
	"context"

	"github.com/xiebiao/onlinebookstore/internal/domain/category"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// CategoryDTO 分类响应
type CategoryDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// CategoryListResponse 分类分页
type CategoryListResponse struct {
	List     []CategoryDTO `json:"list"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// CategoryRequest 新建/更新请求
type CategoryRequest struct {
	Name        string
	Description string
}

func toCategoryDTO(c *category.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CategoryUseCase 分类用例
type CategoryUseCase struct {
	categoryService category.Service
}

// NewCategoryUseCase 创建分类用例
func NewCategoryUseCase(categoryService category.Service) *CategoryUseCase {
	return &CategoryUseCase{categoryService: categoryService}
}

// Create 新建分类(管理员),名称重复返回Conflict
func (uc *CategoryUseCase) Create(ctx context.Context, req CategoryRequest) (*CategoryDTO, error) {
	c, err := uc.categoryService.CreateCategory(ctx, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	dto := toCategoryDTO(c)
	return &dto, nil
}

func (uc *CategoryUseCase) Get(ctx context.Context, id uint) (*CategoryDTO, error) {
	c, err := uc.categoryService.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toCategoryDTO(c)
	return &dto, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, id uint, req CategoryRequest) (*CategoryDTO, error) {
	c, err := uc.categoryService.UpdateCategory(ctx, id, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	dto := toCategoryDTO(c)
	return &dto, nil
}

func (uc *CategoryUseCase) Delete(ctx context.Context, id uint) error {
	return uc.categoryService.DeleteCategory(ctx, id)
}

// List 分页列表
func (uc *CategoryUseCase) List(ctx context.Context, page pagination.Params) (*CategoryListResponse, error) {
	page = page.Normalize()
	categories, total, err := uc.categoryService.ListCategories(ctx, page)
	if err != nil {
		return nil, err
	}

	list := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		list = append(list, toCategoryDTO(c))
	}
	return &CategoryListResponse{List: list, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}
