package book_test

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/internal/domain/category"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

type memoryBooks struct {
	nextID uint
	store  map[uint]*book.Book
}

func newMemoryBooks() *memoryBooks {
	return &memoryBooks{store: make(map[uint]*book.Book)}
}

func (m *memoryBooks) Create(_ context.Context, b *book.Book) error {
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.store[b.ID] = &cp
	return nil
}

func (m *memoryBooks) FindByID(_ context.Context, id uint) (*book.Book, error) {
	b, ok := m.store[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memoryBooks) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	var out []*book.Book
	for _, id := range ids {
		if b, err := m.FindByID(ctx, id); err == nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryBooks) FindByISBN(_ context.Context, isbn string) (*book.Book, error) {
	for _, b := range m.store {
		if b.ISBN == isbn {
			cp := *b
			return &cp, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (m *memoryBooks) Update(_ context.Context, b *book.Book) error {
	cp := *b
	m.store[b.ID] = &cp
	return nil
}

func (m *memoryBooks) Delete(_ context.Context, id uint) error {
	delete(m.store, id)
	return nil
}

func (m *memoryBooks) List(ctx context.Context, page pagination.Params) ([]*book.Book, int64, error) {
	return m.Search(ctx, book.Specification{}, page)
}

func (m *memoryBooks) Search(_ context.Context, spec book.Specification, page pagination.Params) ([]*book.Book, int64, error) {
	return m.page(page, spec.IsSatisfiedBy)
}

func (m *memoryBooks) ListByCategoryID(_ context.Context, categoryID uint, page pagination.Params) ([]*book.Book, int64, error) {
	return m.page(page, func(b *book.Book) bool {
		for _, id := range b.CategoryIDs {
			if id == categoryID {
				return true
			}
		}
		return false
	})
}

func (m *memoryBooks) page(page pagination.Params, keep func(*book.Book) bool) ([]*book.Book, int64, error) {
	var matched []*book.Book
	for _, b := range m.store {
		if keep(b) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type memoryCategories map[uint]*category.Category

func (m memoryCategories) FindByID(_ context.Context, id uint) (*category.Category, error) {
	c, ok := m[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	return c, nil
}

func (m memoryCategories) FindByIDs(_ context.Context, ids []uint) ([]*category.Category, error) {
	var out []*category.Category
	for _, id := range ids {
		if c, ok := m[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func setup() (book.Service, *memoryBooks) {
	repo := newMemoryBooks()
	categories := memoryCategories{
		1: {ID: 1, Name: "Math"},
		2: {ID: 2, Name: "Languages"},
	}
	svc := book.NewService(repo, categories, book.NewSpecificationBuilder(book.NewProviderRegistry()))
	return svc, repo
}

func validInput() book.Input {
	return book.Input{
		Title:       "Math study guide",
		Author:      "Ada Lovelace",
		ISBN:        "978-0-00-000000-1",
		Price:       decimal.RequireFromString("10.00"),
		CategoryIDs: []uint{1, 1},
	}
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	b, err := svc.CreateBook(ctx, validInput())
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, "9780000000001", b.ISBN)
	assert.Equal(t, []uint{1}, b.CategoryIDs)

	t.Run("ISBN重复", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, validInput())
		assert.ErrorIs(t, err, book.ErrISBNDuplicate)
	})

	t.Run("分类不存在", func(t *testing.T) {
		in := validInput()
		in.ISBN = "9780000000009"
		in.CategoryIDs = []uint{1, 42}
		_, err := svc.CreateBook(ctx, in)
		assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	})

	t.Run("负价格", func(t *testing.T) {
		in := validInput()
		in.Price = decimal.NewFromInt(-1)
		_, err := svc.CreateBook(ctx, in)
		assert.ErrorIs(t, err, book.ErrInvalidPrice)
	})

	t.Run("ISBN格式错误", func(t *testing.T) {
		in := validInput()
		in.ISBN = "12345"
		_, err := svc.CreateBook(ctx, in)
		assert.ErrorIs(t, err, book.ErrInvalidISBN)
	})
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup()

	b, err := svc.CreateBook(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Title = "Math study guide, 2nd edition"
	in.Price = decimal.RequireFromString("12.00")
	in.CategoryIDs = []uint{2}

	updated, err := svc.UpdateBook(ctx, b.ID, in)
	require.NoError(t, err, "保留自身ISBN不算重复")
	assert.Equal(t, in.Title, updated.Title)

	stored := repo.store[b.ID]
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("12")))
	assert.Equal(t, []uint{2}, stored.CategoryIDs)

	_, err = svc.UpdateBook(ctx, 999, in)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	b, err := svc.CreateBook(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, b.ID))
	assert.ErrorIs(t, svc.DeleteBook(ctx, b.ID), book.ErrBookNotFound)
}

func TestSearchBooks(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	_, err := svc.CreateBook(ctx, validInput())
	require.NoError(t, err)

	english := validInput()
	english.Title = "English for beginners"
	english.ISBN = "9780000000002"
	english.CategoryIDs = []uint{2}
	_, err = svc.CreateBook(ctx, english)
	require.NoError(t, err)

	found, total, err := svc.SearchBooks(ctx, book.SearchParameters{Titles: []string{"math"}}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, "Math study guide", found[0].Title)

	all, total, err := svc.SearchBooks(ctx, book.SearchParameters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestListBooksByCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	_, err := svc.CreateBook(ctx, validInput())
	require.NoError(t, err)

	books, total, err := svc.ListBooksByCategory(ctx, 1, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, books, 1)

	_, _, err = svc.ListBooksByCategory(ctx, 77, pagination.Params{})
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}
