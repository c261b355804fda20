package cart_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/xiebiao/onlinebookstore/internal/application/cart"
	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// stubService 固定返回一个购物车,记录最后一次调用参数
type stubService struct {
	cart     *cart.Cart
	err      error
	lastQty  int
	removed  []uint
	lastPage pagination.Params
}

func (s *stubService) GetByUserID(context.Context, uint) (*cart.Cart, error) { return s.cart, s.err }

func (s *stubService) ListAll(_ context.Context, page pagination.Params) ([]*cart.Cart, int64, error) {
	s.lastPage = page
	return []*cart.Cart{s.cart}, 1, s.err
}

func (s *stubService) AddItem(_ context.Context, _, _ uint, quantity int) (*cart.Cart, error) {
	if err := cart.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	s.lastQty = quantity
	return s.cart, s.err
}

func (s *stubService) UpdateItemQuantity(_ context.Context, _, _ uint, quantity int) (*cart.Cart, error) {
	s.lastQty = quantity
	return s.cart, s.err
}

func (s *stubService) RemoveItem(_ context.Context, _, itemID uint) error {
	s.removed = append(s.removed, itemID)
	return s.err
}

func (s *stubService) Clear(context.Context, *cart.Cart) error { return nil }

func sampleCart() *cart.Cart {
	return &cart.Cart{ID: 7, UserID: 7, Items: []cart.CartItem{
		{ID: 1, CartID: 7, BookID: 10, BookTitle: "Math", BookPrice: decimal.RequireFromString("10"), Quantity: 2},
		{ID: 2, CartID: 7, BookID: 11, BookTitle: "Physics", BookPrice: decimal.RequireFromString("0.1"), Quantity: 3},
	}}
}

func TestGetCart(t *testing.T) {
	uc := appcart.NewCartUseCase(&stubService{cart: sampleCart()})

	got, err := uc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "20.30", got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "20.00", got.Items[0].Subtotal)
	assert.Equal(t, "0.10", got.Items[1].Price)
}

func TestAddItemValidation(t *testing.T) {
	svc := &stubService{cart: sampleCart()}
	uc := appcart.NewCartUseCase(svc)

	_, err := uc.AddItem(context.Background(), appcart.AddItemRequest{UserID: 7, BookID: 10, Quantity: 0})
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = uc.AddItem(context.Background(), appcart.AddItemRequest{UserID: 7, BookID: 10, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, svc.lastQty)
}

func TestRemoveItemPropagatesNotFound(t *testing.T) {
	svc := &stubService{err: cart.ErrCartItemNotFound}
	uc := appcart.NewCartUseCase(svc)

	assert.ErrorIs(t, uc.RemoveItem(context.Background(), 7, 99), cart.ErrCartItemNotFound)
	assert.Equal(t, []uint{99}, svc.removed)
}

func TestListAllNormalizesPage(t *testing.T) {
	svc := &stubService{cart: sampleCart()}
	uc := appcart.NewCartUseCase(svc)

	got, err := uc.ListAll(context.Background(), pagination.Params{Page: 0, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, pagination.MaxPageSize, svc.lastPage.PageSize)
	assert.Equal(t, 1, got.Page)
	assert.Len(t, got.List, 1)
}
