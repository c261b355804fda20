package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/onlinebookstore/internal/domain/category"
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{Name: c.Name, Description: c.Description}
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "创建分类失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]*category.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []CategoryModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	out := make([]*category.Category, len(models))
	for i := range models {
		out[i] = toCategoryEntity(&models[i])
	}
	return out, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*category.Category, error) {
	var model CategoryModel
	if err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	err := dbFromContext(ctx, r.db).Model(&CategoryModel{ID: c.ID}).
		Select("name", "description", "updated_at").
		Updates(&CategoryModel{Name: c.Name, Description: c.Description, UpdatedAt: c.UpdatedAt}).Error
	if err != nil {
		if isDuplicateError(err) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "更新分类失败")
	}
	return nil
}

// Delete 软删除分类并解除与图书的关联
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	var affected int64
	err := dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&CategoryModel{}, id)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return tx.Where("category_id = ?", id).Delete(&BookCategoryModel{}).Error
	})
	if err != nil {
		return apperrors.Wrap(err, "删除分类失败")
	}
	if affected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context, page pagination.Params) ([]*category.Category, int64, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&CategoryModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询分类总数失败")
	}

	var models []CategoryModel
	if err := db.Order("name").Scopes(paginate(page)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询分类列表失败")
	}

	out := make([]*category.Category, len(models))
	for i := range models {
		out[i] = toCategoryEntity(&models[i])
	}
	return out, total, nil
}

func toCategoryEntity(model *CategoryModel) *category.Category {
	return &category.Category{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
