package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	orderapp "github.com/xiebiao/onlinebookstore/internal/application/order"
	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
	"github.com/xiebiao/onlinebookstore/internal/domain/category"
	"github.com/xiebiao/onlinebookstore/internal/domain/order"
	"github.com/xiebiao/onlinebookstore/internal/domain/user"
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// newTestDB 每个测试一个独立的内存库
// 单连接:事务内外的语句不会落到不同的连接上
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

type fixture struct {
	db         *gorm.DB
	tx         *TxManager
	users      user.Repository
	categories category.Repository
	books      book.Repository
	carts      cart.Store
	orders     order.Repository
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:         db,
		tx:         NewTxManager(db),
		users:      NewUserRepository(db),
		categories: NewCategoryRepository(db),
		books:      NewBookRepository(db),
		carts:      NewCartStore(db),
		orders:     NewOrderRepository(db),
	}
}

func (f *fixture) book(t *testing.T, title, author, isbn, price string, categoryIDs ...uint) *book.Book {
	t.Helper()
	b := &book.Book{
		Title:       title,
		Author:      author,
		ISBN:        isbn,
		Price:       decimal.RequireFromString(price),
		CategoryIDs: categoryIDs,
	}
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func (f *fixture) userWithCart(t *testing.T, email string) *user.User {
	t.Helper()
	ctx := context.Background()
	u := user.NewUser(email, "hashed", "Ada", "Lovelace", "1 Main St", user.RoleUser)
	require.NoError(t, f.users.Create(ctx, u))
	require.NoError(t, f.carts.Create(ctx, cart.New(u.ID)))
	return u
}

func (f *fixture) addToCart(t *testing.T, userID, bookID uint, quantity int) {
	t.Helper()
	require.NoError(t, f.carts.SaveItem(context.Background(), &cart.CartItem{
		CartID:   userID,
		BookID:   bookID,
		Quantity: quantity,
	}))
}

func bookIDs(books []*book.Book) []uint {
	ids := make([]uint, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func TestUserRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := user.NewUser(" Ada@Example.com ", "hashed", "Ada", "Lovelace", "1 Main St", user.RoleAdmin)
	require.NoError(t, f.users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	found, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, user.RoleAdmin, found.Role)

	dup := user.NewUser("ada@example.com", "x", "A", "B", "", user.RoleUser)
	err = f.users.Create(ctx, dup)
	assert.True(t, errors.Is(err, user.ErrEmailDuplicate), "got %v", err)

	_, err = f.users.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, user.ErrUserNotFound))
}

func TestBookRepository_CategoriesAndISBN(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	math := &category.Category{Name: "Math"}
	lang := &category.Category{Name: "Languages"}
	require.NoError(t, f.categories.Create(ctx, math))
	require.NoError(t, f.categories.Create(ctx, lang))

	b := f.book(t, "Algebra", "Emmy Noether", "9780000000001", "19.90", math.ID, lang.ID)

	got, err := f.books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{math.ID, lang.ID}, got.CategoryIDs)
	assert.True(t, decimal.RequireFromString("19.90").Equal(got.Price))

	err = f.books.Create(ctx, &book.Book{Title: "Copy", Author: "X", ISBN: "9780000000001", Price: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, book.ErrISBNDuplicate), "got %v", err)

	got.CategoryIDs = []uint{lang.ID}
	got.Price = decimal.RequireFromString("0")
	require.NoError(t, f.books.Update(ctx, got))

	updated, err := f.books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{lang.ID}, updated.CategoryIDs)
	assert.True(t, updated.Price.IsZero())

	inMath, total, err := f.books.ListByCategoryID(ctx, math.ID, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, inMath)

	inLang, total, err := f.books.ListByCategoryID(ctx, lang.ID, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uint{b.ID}, bookIDs(inLang))
}

func TestBookRepository_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	builder := book.NewSpecificationBuilder(book.NewProviderRegistry())

	guide := f.book(t, "Math study guide", "Ada Lovelace", "9780000000001", "10.00")
	english := f.book(t, "English for beginners", "Jane Austen", "9780000000002", "12.50")
	applied := f.book(t, "Applied MATHEMATICS", "ada lovelace", "9780000000003", "30")
	percent := f.book(t, "100% Go", "Rob Pike", "9780000000004", "45")

	cases := []struct {
		name   string
		params book.SearchParameters
		want   []uint
	}{
		{"空条件返回全部", book.SearchParameters{}, []uint{guide.ID, english.ID, applied.ID, percent.ID}},
		{"标题包含且忽略大小写", book.SearchParameters{Titles: []string{"MATH"}}, []uint{guide.ID, applied.ID}},
		{"作者忽略大小写", book.SearchParameters{Authors: []string{"ADA LOVELACE"}}, []uint{guide.ID, applied.ID}},
		{"ISBN任意一个", book.SearchParameters{Isbns: []string{"9780000000002", "9780000000004"}}, []uint{english.ID, percent.ID}},
		{"价格按金额比较", book.SearchParameters{Prices: []string{"12.5", "30.00"}}, []uint{english.ID, applied.ID}},
		{"多个字段取交集", book.SearchParameters{Titles: []string{"math"}, Prices: []string{"10"}}, []uint{guide.ID}},
		{"LIKE通配符按字面匹配", book.SearchParameters{Titles: []string{"0%"}}, []uint{percent.ID}},
		{"无匹配", book.SearchParameters{Isbns: []string{"9789999999999"}}, []uint{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := builder.Build(tc.params)
			require.NoError(t, err)

			books, total, err := f.books.Search(ctx, spec, pagination.New(1, 10))
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), total)
			assert.ElementsMatch(t, tc.want, bookIDs(books))
		})
	}

	// 分页时总数不受LIMIT影响
	spec, err := builder.Build(book.SearchParameters{})
	require.NoError(t, err)
	books, total, err := f.books.Search(ctx, spec, pagination.New(2, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, books, 1)
}

func TestBookRepository_DeleteKeepsCartReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.userWithCart(t, "reader@example.com")
	b := f.book(t, "Gone", "Someone", "9780000000009", "5.00")
	f.addToCart(t, u.ID, b.ID, 2)

	require.NoError(t, f.books.Delete(ctx, b.ID))
	assert.True(t, errors.Is(f.books.Delete(ctx, b.ID), book.ErrBookNotFound))

	_, err := f.books.FindByID(ctx, b.ID)
	assert.True(t, errors.Is(err, book.ErrBookNotFound))

	c, err := f.carts.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Gone", c.Items[0].BookTitle)
	assert.Equal(t, "10.00", c.Total().StringFixed(2))
}

func TestCategoryRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := &category.Category{Name: "Poetry", Description: "verse"}
	require.NoError(t, f.categories.Create(ctx, c))

	err := f.categories.Create(ctx, &category.Category{Name: "Poetry"})
	assert.True(t, errors.Is(err, category.ErrNameDuplicate), "got %v", err)

	b := f.book(t, "Odes", "Keats", "9780000000010", "8", c.ID)

	require.NoError(t, f.categories.Delete(ctx, c.ID))
	assert.True(t, errors.Is(f.categories.Delete(ctx, c.ID), category.ErrCategoryNotFound))

	got, err := f.books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CategoryIDs)
}

func TestCartStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.userWithCart(t, "cart@example.com")
	other := f.userWithCart(t, "other@example.com")
	b1 := f.book(t, "First", "A", "9780000000011", "3.50")
	b2 := f.book(t, "Second", "B", "9780000000012", "2.25")

	f.addToCart(t, u.ID, b1.ID, 1)
	f.addToCart(t, u.ID, b2.ID, 4)
	f.addToCart(t, u.ID, b1.ID, 2)
	f.addToCart(t, other.ID, b2.ID, 1)

	c, err := f.carts.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 3)
	assert.Equal(t, "First", c.Items[0].BookTitle)
	assert.Equal(t, "19.50", c.Total().StringFixed(2))

	item, err := f.carts.FindItem(ctx, c.ID, c.Items[1].ID)
	require.NoError(t, err)
	item.Quantity = 1
	require.NoError(t, f.carts.UpdateItem(ctx, item))

	_, err = f.carts.FindItem(ctx, other.ID, c.Items[1].ID)
	assert.True(t, errors.Is(err, cart.ErrCartItemNotFound))

	require.NoError(t, f.carts.DeleteItem(ctx, c.ID, c.Items[0].ID))
	assert.True(t, errors.Is(f.carts.DeleteItem(ctx, c.ID, c.Items[0].ID), cart.ErrCartItemNotFound))

	c, err = f.carts.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "9.25", c.Total().StringFixed(2))

	require.NoError(t, f.carts.DeleteAllItems(ctx, c.ID))
	c, err = f.carts.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	all, total, err := f.carts.List(ctx, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.Len(t, all[1].Items, 1)

	_, err = f.carts.FindByUserID(ctx, 999)
	assert.True(t, errors.Is(err, cart.ErrCartNotFound))
}

func TestOrderRepository_ItemScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.userWithCart(t, "owner@example.com")
	stranger := f.userWithCart(t, "stranger@example.com")
	b1 := f.book(t, "Scoped", "A", "9780000000020", "7.00")
	b2 := f.book(t, "Other", "B", "9780000000021", "1.10")
	f.addToCart(t, owner.ID, b1.ID, 3)
	f.addToCart(t, owner.ID, b2.ID, 1)

	c, err := f.carts.FindByUserID(ctx, owner.ID)
	require.NoError(t, err)
	o, err := order.NewFromCart(c, "1 Main St", time.Now())
	require.NoError(t, err)
	require.NoError(t, f.orders.Create(ctx, o))
	require.Len(t, o.Items, 2)
	assert.Equal(t, o.ID, o.Items[0].OrderID)

	loaded, err := f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "22.10", loaded.Total.StringFixed(2))
	assert.Equal(t, order.StatusPending, loaded.Status)
	assert.Equal(t, []uint{b1.ID, b2.ID}, []uint{loaded.Items[0].BookID, loaded.Items[1].BookID})

	items, total, err := f.orders.ListItems(ctx, o.ID, &owner.ID, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = f.orders.ListItems(ctx, o.ID, &stranger.ID, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	items, total, err = f.orders.ListItems(ctx, o.ID, nil, pagination.New(1, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 1)

	item, err := f.orders.FindItem(ctx, o.ID, o.Items[1].ID, &owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.10", item.Price.StringFixed(2))

	_, err = f.orders.FindItem(ctx, o.ID, o.Items[1].ID, &stranger.ID)
	assert.True(t, errors.Is(err, order.ErrOrderItemNotFound))
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.userWithCart(t, "status@example.com")
	b := f.book(t, "Status", "A", "9780000000030", "4")
	f.addToCart(t, u.ID, b.ID, 1)

	c, err := f.carts.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	o, err := order.NewFromCart(c, "addr", time.Now())
	require.NoError(t, err)
	require.NoError(t, f.orders.Create(ctx, o))

	require.NoError(t, f.orders.UpdateStatus(ctx, o.ID, order.StatusShipped))
	// 状态不变也不报错
	require.NoError(t, f.orders.UpdateStatus(ctx, o.ID, order.StatusShipped))

	loaded, err := f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, loaded.Status)

	assert.True(t, errors.Is(f.orders.UpdateStatus(ctx, 999, order.StatusShipped), order.ErrOrderNotFound))

	list, total, err := f.orders.ListByUserID(ctx, u.ID, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Items, 1)
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, order.Event) error { return nil }

// failingCarts 清空明细时失败,用于验证整个下单事务回滚
type failingCarts struct {
	cart.Store
}

func (failingCarts) DeleteAllItems(context.Context, uint) error {
	return errors.New("disk full")
}

func TestPlaceOrder_Transaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookLookup := f.books

	u := f.userWithCart(t, "buyer@example.com")
	b := f.book(t, "Atomic", "A", "9780000000040", "12.00")
	f.addToCart(t, u.ID, b.ID, 2)

	t.Run("清空失败时订单回滚", func(t *testing.T) {
		broken := failingCarts{Store: f.carts}
		uc := orderapp.NewPlaceOrderUseCase(f.orders, f.carts, cart.NewService(broken, bookLookup), f.tx, discardPublisher{})

		_, err := uc.Execute(ctx, orderapp.PlaceOrderRequest{UserID: u.ID, ShippingAddress: "1 Main St"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrTransactionFailed), "got %v", err)

		var count int64
		require.NoError(t, f.db.Model(&OrderModel{}).Count(&count).Error)
		assert.Zero(t, count)
		require.NoError(t, f.db.Model(&OrderItemModel{}).Count(&count).Error)
		assert.Zero(t, count)

		c, err := f.carts.FindByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, c.Items, 1)
	})

	t.Run("成功时订单落库且购物车清空", func(t *testing.T) {
		uc := orderapp.NewPlaceOrderUseCase(f.orders, f.carts, cart.NewService(f.carts, bookLookup), f.tx, discardPublisher{})

		dto, err := uc.Execute(ctx, orderapp.PlaceOrderRequest{UserID: u.ID, ShippingAddress: "1 Main St"})
		require.NoError(t, err)
		assert.Equal(t, "24.00", dto.Total)
		require.Len(t, dto.Items, 1)

		c, err := f.carts.FindByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, c.Items)

		_, err = uc.Execute(ctx, orderapp.PlaceOrderRequest{UserID: u.ID, ShippingAddress: "1 Main St"})
		assert.True(t, errors.Is(err, order.ErrEmptyCart), "got %v", err)
	})
}
