package category

import (
	"context"
	"errors"

	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// Service 分类领域服务
type Service interface {
	CreateCategory(ctx context.Context, name, description string) (*Category, error)
	GetCategory(ctx context.Context, id uint) (*Category, error)
	UpdateCategory(ctx context.Context, id uint, name, description string) (*Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListCategories(ctx context.Context, page pagination.Params) ([]*Category, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	c, err := NewCategory(name, description)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueName(ctx, c.Name, 0); err != nil {
		return nil, err
	}

	// 并发创建同名分类时由唯一索引兜底,仓储返回ErrNameDuplicate
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCategory(ctx context.Context, id uint) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateCategory(ctx context.Context, id uint, name, description string) (*Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.Rename(name, description); err != nil {
		return nil, err
	}
	if err := s.checkUniqueName(ctx, c.Name, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListCategories(ctx context.Context, page pagination.Params) ([]*Category, int64, error) {
	return s.repo.List(ctx, page.Normalize())
}

func (s *service) checkUniqueName(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, ErrCategoryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrNameDuplicate
	}
	return nil
}
