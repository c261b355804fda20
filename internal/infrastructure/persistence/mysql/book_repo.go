package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// bookRepository 图书仓储实现(MySQL)
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换,分类关联显式写入book_categories
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书及其分类关联
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	err := dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return replaceBookCategories(tx, model.ID, b.CategoryIDs)
	})
	if err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	db := dbFromContext(ctx, r.db)

	var model BookModel
	if err := db.First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	books, err := r.withCategories(db, []BookModel{model})
	if err != nil {
		return nil, err
	}
	return books[0], nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := dbFromContext(ctx, r.db)

	var models []BookModel
	if err := db.Where("id IN ?", ids).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return r.withCategories(db, models)
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	db := dbFromContext(ctx, r.db)

	var model BookModel
	if err := db.Where("isbn = ?", isbn).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	books, err := r.withCategories(db, []BookModel{model})
	if err != nil {
		return nil, err
	}
	return books[0], nil
}

// Update 更新图书信息,分类关联整体替换
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	// Select显式列出可写列,零值(如价格0、空描述)也会写入
	err := dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&BookModel{ID: b.ID}).Select(
			"title", "author", "isbn", "price", "description", "cover_image", "updated_at",
		).Updates(model).Error
		if err != nil {
			return err
		}
		return replaceBookCategories(tx, b.ID, b.CategoryIDs)
	})
	if err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(软删除)
// 保留分类关联与订单明细中的引用
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFromContext(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, page pagination.Params) ([]*book.Book, int64, error) {
	return r.Search(ctx, book.Specification{}, page)
}

// Search 按Specification过滤
// 每个谓词翻译成一个WHERE条件,条件之间是AND
func (r *bookRepository) Search(ctx context.Context, spec book.Specification, page pagination.Params) ([]*book.Book, int64, error) {
	db := dbFromContext(ctx, r.db)
	query := applySpecification(db.Model(&BookModel{}), spec)
	return r.page(db, query, page)
}

// ListByCategoryID 分类下的图书
func (r *bookRepository) ListByCategoryID(ctx context.Context, categoryID uint, page pagination.Params) ([]*book.Book, int64, error) {
	db := dbFromContext(ctx, r.db)
	query := db.Model(&BookModel{}).
		Joins("JOIN book_categories ON book_categories.book_id = books.id").
		Where("book_categories.category_id = ?", categoryID)
	return r.page(db, query, page)
}

// page 统计总数并查询一页,按创建时间倒序
func (r *bookRepository) page(db, query *gorm.DB, page pagination.Params) ([]*book.Book, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	var models []BookModel
	err := query.Session(&gorm.Session{}).
		Order("books.created_at DESC").Order("books.id DESC").
		Scopes(paginate(page)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books, err := r.withCategories(db, models)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// withCategories 一次查询回填所有图书的分类ID(避免N+1)
func (r *bookRepository) withCategories(db *gorm.DB, models []BookModel) ([]*book.Book, error) {
	books := make([]*book.Book, len(models))
	if len(models) == 0 {
		return books, nil
	}

	ids := make([]uint, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}

	var links []BookCategoryModel
	if err := db.Where("book_id IN ?", ids).Order("category_id").Find(&links).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书分类失败")
	}
	byBook := make(map[uint][]uint, len(models))
	for _, l := range links {
		byBook[l.BookID] = append(byBook[l.BookID], l.CategoryID)
	}

	for i := range models {
		books[i] = toBookEntity(&models[i], byBook[models[i].ID])
	}
	return books, nil
}

func replaceBookCategories(tx *gorm.DB, bookID uint, categoryIDs []uint) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&BookCategoryModel{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]BookCategoryModel, len(categoryIDs))
	for i, id := range categoryIDs {
		links[i] = BookCategoryModel{BookID: bookID, CategoryID: id}
	}
	return tx.Create(&links).Error
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Price:       b.Price,
		Description: b.Description,
		CoverImage:  b.CoverImage,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookEntity(model *BookModel, categoryIDs []uint) *book.Book {
	return &book.Book{
		ID:          model.ID,
		Title:       model.Title,
		Author:      model.Author,
		ISBN:        model.ISBN,
		Price:       model.Price,
		Description: model.Description,
		CoverImage:  model.CoverImage,
		CategoryIDs: categoryIDs,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
