package book_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/onlinebookstore/internal/application/book"
	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// stubService 按检索参数在固定书单上做内存过滤
type stubService struct {
	books      []*book.Book
	builder    *book.SpecificationBuilder
	created    book.Input
	lastSearch book.SearchParameters
}

func newStubService() *stubService {
	created := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	return &stubService{
		builder: book.NewSpecificationBuilder(book.NewProviderRegistry()),
		books: []*book.Book{
			{ID: 1, Title: "Go in Action", Author: "Kennedy", ISBN: "9781617291784", Price: decimal.RequireFromString("39.9"), CreatedAt: created},
			{ID: 2, Title: "The Go Programming Language", Author: "Donovan", ISBN: "9780134190440", Price: decimal.RequireFromString("45"), CreatedAt: created},
			{ID: 3, Title: "Refactoring", Author: "Fowler", ISBN: "9780134757599", Price: decimal.RequireFromString("50"), CreatedAt: created},
		},
	}
}

func (s *stubService) CreateBook(_ context.Context, in book.Input) (*book.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.created = in
	b := book.NewBook(in)
	b.ID = 99
	return b, nil
}

func (s *stubService) GetBook(_ context.Context, id uint) (*book.Book, error) {
	for _, b := range s.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (s *stubService) UpdateBook(ctx context.Context, id uint, in book.Input) (*book.Book, error) {
	b, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Apply(in)
	return b, nil
}

func (s *stubService) DeleteBook(ctx context.Context, id uint) error {
	_, err := s.GetBook(ctx, id)
	return err
}

func (s *stubService) ListBooks(_ context.Context, page pagination.Params) ([]*book.Book, int64, error) {
	end := page.Offset() + page.Limit()
	if end > len(s.books) {
		end = len(s.books)
	}
	return s.books[page.Offset():end], int64(len(s.books)), nil
}

func (s *stubService) SearchBooks(_ context.Context, params book.SearchParameters, _ pagination.Params) ([]*book.Book, int64, error) {
	s.lastSearch = params
	spec, err := s.builder.Build(params)
	if err != nil {
		return nil, 0, err
	}
	var out []*book.Book
	for _, b := range s.books {
		if spec.IsSatisfiedBy(b) {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubService) ListBooksByCategory(context.Context, uint, pagination.Params) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func TestListBooksTotalPages(t *testing.T) {
	uc := appbook.NewListBooksUseCase(newStubService())

	got, err := uc.Execute(context.Background(), pagination.Params{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Total)
	assert.Equal(t, 2, got.TotalPages)
	assert.Len(t, got.List, 2)
	assert.Equal(t, "39.90", got.List[0].Price)
	assert.Equal(t, "2024-05-01 08:30:00", got.List[0].CreatedAt)
}

func TestSearchBooks(t *testing.T) {
	uc := appbook.NewListBooksUseCase(newStubService())
	ctx := context.Background()

	got, err := uc.Search(ctx, book.SearchParameters{Titles: []string{"go"}}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Total)

	got, err = uc.Search(ctx, book.SearchParameters{Titles: []string{"go"}, Authors: []string{"DONOVAN"}}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, got.List, 1)
	assert.Equal(t, uint(2), got.List[0].ID)

	got, err = uc.Search(ctx, book.SearchParameters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Total, "无检索条件时返回全部")

	_, err = uc.Search(ctx, book.SearchParameters{Prices: []string{"abc"}}, pagination.Params{})
	assert.ErrorIs(t, err, book.ErrInvalidSearchValue)
}

func TestManageBook(t *testing.T) {
	svc := newStubService()
	uc := appbook.NewManageBookUseCase(svc)
	ctx := context.Background()

	created, err := uc.Create(ctx, appbook.BookRequest{
		Title:       "Clean Code",
		Author:      "Martin",
		ISBN:        "978-0-13-235088-4",
		Price:       decimal.RequireFromString("33.5"),
		CategoryIDs: []uint{1},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(99), created.ID)
	assert.Equal(t, "9780132350884", created.ISBN)
	assert.Equal(t, "33.50", created.Price)

	_, err = uc.Create(ctx, appbook.BookRequest{Title: "No author", ISBN: "9780132350884", CategoryIDs: []uint{1}})
	assert.ErrorIs(t, err, book.ErrAuthorRequired)

	_, err = uc.Get(ctx, 404)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	assert.NoError(t, uc.Delete(ctx, 3))
}
