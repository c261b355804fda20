package book

import (
	"context"

	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建图书(同时写入分类关联)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查找,不存在的ID直接忽略
	FindByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书(分类关联整体替换)
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询
	List(ctx context.Context, page pagination.Params) ([]*Book, int64, error)

	// Search 按Specification过滤并分页
	// spec.MatchesAll()为true时等价于List
	Search(ctx context.Context, spec Specification, page pagination.Params) ([]*Book, int64, error)

	// ListByCategoryID 查询某分类下的图书
	ListByCategoryID(ctx context.Context, categoryID uint, page pagination.Params) ([]*Book, int64, error)
}
