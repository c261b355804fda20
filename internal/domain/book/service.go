package book

import (
	"context"
	"errors"

	"github.com/xiebiao/onlinebookstore/internal/domain/category"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// CategoryLookup 校验分类引用
type CategoryLookup interface {
	FindByID(ctx context.Context, id uint) (*category.Category, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*category.Category, error)
}

// Service 图书领域服务接口
type Service interface {
	// CreateBook 上架图书
	// 业务规则:字段校验通过、ISBN不重复、分类全部存在
	CreateBook(ctx context.Context, in Input) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 整体更新图书信息,规则同CreateBook
	UpdateBook(ctx context.Context, id uint, in Input) (*Book, error)

	// DeleteBook 删除图书(软删除)
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询
	ListBooks(ctx context.Context, page pagination.Params) ([]*Book, int64, error)

	// SearchBooks 按检索参数过滤
	SearchBooks(ctx context.Context, params SearchParameters, page pagination.Params) ([]*Book, int64, error)

	// ListBooksByCategory 分类下的图书,分类不存在返回NotFound
	ListBooksByCategory(ctx context.Context, categoryID uint, page pagination.Params) ([]*Book, int64, error)
}

type service struct {
	repo       Repository
	categories CategoryLookup
	builder    *SpecificationBuilder
}

// NewService 创建图书领域服务
func NewService(repo Repository, categories CategoryLookup, builder *SpecificationBuilder) Service {
	return &service{
		repo:       repo,
		categories: categories,
		builder:    builder,
	}
}

func (s *service) CreateBook(ctx context.Context, in Input) (*Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b := NewBook(in)
	if err := s.checkUniqueISBN(ctx, b.ISBN, 0); err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, b.CategoryIDs); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateBook(ctx context.Context, id uint, in Input) (*Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueISBN(ctx, normalizeISBN(in.ISBN), id); err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, dedupIDs(in.CategoryIDs)); err != nil {
		return nil, err
	}

	b.Apply(in)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, page pagination.Params) ([]*Book, int64, error) {
	return s.repo.List(ctx, page.Normalize())
}

func (s *service) SearchBooks(ctx context.Context, params SearchParameters, page pagination.Params) ([]*Book, int64, error) {
	spec, err := s.builder.Build(params)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.Search(ctx, spec, page.Normalize())
}

func (s *service) ListBooksByCategory(ctx context.Context, categoryID uint, page pagination.Params) ([]*Book, int64, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByCategoryID(ctx, categoryID, page.Normalize())
}

// checkUniqueISBN selfID为0表示新建
func (s *service) checkUniqueISBN(ctx context.Context, isbn string, selfID uint) error {
	existing, err := s.repo.FindByISBN(ctx, isbn)
	if errors.Is(err, ErrBookNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrISBNDuplicate
	}
	return nil
}

func (s *service) checkCategories(ctx context.Context, ids []uint) error {
	found, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}

	present := make(map[uint]struct{}, len(found))
	for _, c := range found {
		present[c.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return category.ErrCategoryNotFound.WithMessage("分类不存在: id=%d", id)
		}
	}
	return nil
}
