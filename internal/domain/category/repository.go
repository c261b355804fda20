package category

import (
	"context"

	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// Repository 分类仓储接口
type Repository interface {
	Create(ctx context.Context, c *Category) error

	// FindByID 不存在返回ErrCategoryNotFound
	FindByID(ctx context.Context, id uint) (*Category, error)

	// FindByIDs 批量查找,不存在的ID忽略
	FindByIDs(ctx context.Context, ids []uint) ([]*Category, error)

	// FindByName 精确匹配名称,不存在返回ErrCategoryNotFound
	FindByName(ctx context.Context, name string) (*Category, error)

	Update(ctx context.Context, c *Category) error

	// Delete 软删除,同时解除与图书的关联
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, page pagination.Params) ([]*Category, int64, error)
}
