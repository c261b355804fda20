package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/onlinebookstore/internal/application/book"
	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/handler"
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

type mockBookService struct {
	mock.Mock
}

func (m *mockBookService) CreateBook(ctx context.Context, in book.Input) (*book.Book, error) {
	args := m.Called(ctx, in)
	b, _ := args.Get(0).(*book.Book)
	return b, args.Error(1)
}

func (m *mockBookService) GetBook(ctx context.Context, id uint) (*book.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*book.Book)
	return b, args.Error(1)
}

func (m *mockBookService) UpdateBook(ctx context.Context, id uint, in book.Input) (*book.Book, error) {
	args := m.Called(ctx, id, in)
	b, _ := args.Get(0).(*book.Book)
	return b, args.Error(1)
}

func (m *mockBookService) DeleteBook(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBookService) ListBooks(ctx context.Context, page pagination.Params) ([]*book.Book, int64, error) {
	args := m.Called(ctx, page)
	books, _ := args.Get(0).([]*book.Book)
	return books, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookService) SearchBooks(ctx context.Context, params book.SearchParameters, page pagination.Params) ([]*book.Book, int64, error) {
	args := m.Called(ctx, params, page)
	books, _ := args.Get(0).([]*book.Book)
	return books, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookService) ListBooksByCategory(ctx context.Context, categoryID uint, page pagination.Params) ([]*book.Book, int64, error) {
	args := m.Called(ctx, categoryID, page)
	books, _ := args.Get(0).([]*book.Book)
	return books, args.Get(1).(int64), args.Error(2)
}

func newBookEngine(svc book.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewBookHandler(appbook.NewListBooksUseCase(svc), appbook.NewManageBookUseCase(svc))

	r := gin.New()
	r.GET("/books", h.List)
	r.GET("/books/search", h.Search)
	r.GET("/books/:id", h.Get)
	r.POST("/books", h.Create)
	r.DELETE("/books/:id", h.Delete)
	r.GET("/categories/:id/books", h.ListByCategory)
	return r
}

func serve(r *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func TestBookHandler_SearchBindsRepeatedParams(t *testing.T) {
	svc := new(mockBookService)
	r := newBookEngine(svc)

	want := book.SearchParameters{
		Titles:  []string{"go"},
		Authors: []string{"Rob Pike", "Ken Thompson"},
		Prices:  []string{"12.50"},
	}
	found := []*book.Book{{ID: 7, Title: "The Go Programming Language", Price: decimal.RequireFromString("12.5")}}
	svc.On("SearchBooks", mock.Anything, want, pagination.Params{Page: 2, PageSize: 5}).Return(found, int64(6), nil).Once()

	w, body := serve(r, http.MethodGet,
		"/books/search?titles=go&authors=Rob%20Pike&authors=Ken%20Thompson&prices=12.50&page=2&page_size=5", "")

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(6), data["total"])
	list := data["list"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "12.50", list[0].(map[string]interface{})["price"])
	svc.AssertExpectations(t)
}

func TestBookHandler_InvalidInputNeverReachesService(t *testing.T) {
	svc := new(mockBookService)
	r := newBookEngine(svc)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"non numeric id", http.MethodGet, "/books/abc", ""},
		{"zero id", http.MethodDelete, "/books/0", ""},
		{"non numeric page size", http.MethodGet, "/books?page_size=x", ""},
		{"missing title", http.MethodPost, "/books", `{"author":"A","isbn":"9780134190440","price":"1.00"}`},
		{"malformed json", http.MethodPost, "/books", `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(r, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, float64(apperrors.ErrCodeInvalidParams), body["code"])
		})
	}
	svc.AssertNotCalled(t, "GetBook", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "CreateBook", mock.Anything, mock.Anything)
}

func TestBookHandler_Create(t *testing.T) {
	svc := new(mockBookService)
	r := newBookEngine(svc)

	in := book.Input{
		Title:       "Go in Action",
		Author:      "William Kennedy",
		ISBN:        "9781617291784",
		Price:       decimal.RequireFromString("39.99"),
		CategoryIDs: []uint{1, 2},
	}
	svc.On("CreateBook", mock.Anything, mock.MatchedBy(func(got book.Input) bool {
		return got.Title == in.Title && got.Price.Equal(in.Price) && assert.ObjectsAreEqual(in.CategoryIDs, got.CategoryIDs)
	})).Return(&book.Book{ID: 3, Title: in.Title, Author: in.Author, ISBN: in.ISBN, Price: in.Price, CategoryIDs: in.CategoryIDs}, nil).Once()

	w, body := serve(r, http.MethodPost, "/books",
		`{"title":"Go in Action","author":"William Kennedy","isbn":"9781617291784","price":"39.99","category_ids":[1,2]}`)

	require.Equal(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["id"])
	assert.Equal(t, "39.99", data["price"])
	svc.AssertExpectations(t)
}

func TestBookHandler_ErrorMapping(t *testing.T) {
	svc := new(mockBookService)
	r := newBookEngine(svc)

	svc.On("GetBook", mock.Anything, uint(404)).Return(nil, book.ErrBookNotFound)
	svc.On("ListBooksByCategory", mock.Anything, uint(9), mock.Anything).Return(nil, int64(0), apperrors.ErrDatabaseError)
	svc.On("DeleteBook", mock.Anything, uint(5)).Return(nil)

	w, body := serve(r, http.MethodGet, "/books/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(apperrors.ErrCodeBookNotFound), body["code"])

	w, _ = serve(r, http.MethodGet, "/categories/9/books", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w, _ = serve(r, http.MethodDelete, "/books/5", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}
