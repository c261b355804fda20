package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/onlinebookstore/internal/domain/user"
)

type memoryRepository struct {
	nextID uint
	byID   map[uint]*user.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{byID: make(map[uint]*user.User)}
}

func (m *memoryRepository) Create(_ context.Context, u *user.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return user.ErrEmailDuplicate
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memoryRepository) FindByID(_ context.Context, id uint) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func validInput() user.RegisterInput {
	return user.RegisterInput{
		Email:           "Reader@Example.com",
		Password:        "secret123",
		RepeatPassword:  "secret123",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		ShippingAddress: "221B Baker St",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := user.NewService(newMemoryRepository(), bcrypt.MinCost)

	u, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", u.Email)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.NotEqual(t, "secret123", u.Password)
	assert.Equal(t, "Ada Lovelace", u.FullName())

	_, err = svc.Register(ctx, validInput())
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)
}

func TestRegisterValidation(t *testing.T) {
	svc := user.NewService(newMemoryRepository(), bcrypt.MinCost)

	cases := []struct {
		name   string
		mutate func(*user.RegisterInput)
		want   error
	}{
		{"邮箱格式", func(in *user.RegisterInput) { in.Email = "not-an-email" }, user.ErrInvalidEmail},
		{"密码太短", func(in *user.RegisterInput) { in.Password, in.RepeatPassword = "a1", "a1" }, user.ErrWeakPassword},
		{"密码无数字", func(in *user.RegisterInput) { in.Password, in.RepeatPassword = "abcdefgh", "abcdefgh" }, user.ErrWeakPassword},
		{"两次密码不一致", func(in *user.RegisterInput) { in.RepeatPassword = "secret124" }, user.ErrPasswordMismatch},
		{"姓名为空", func(in *user.RegisterInput) { in.LastName = " " }, user.ErrNameRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := user.NewService(newMemoryRepository(), bcrypt.MinCost)

	registered, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	u, err := svc.Login(ctx, " READER@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Login(ctx, "reader@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, user.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, user.ErrInvalidPassword, "不暴露账号是否存在")
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	svc := user.NewService(newMemoryRepository(), bcrypt.MinCost)

	admin, created, err := svc.CreateAdmin(ctx, "admin@bookstore.local", "admin12345")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin())

	again, created, err := svc.CreateAdmin(ctx, "admin@bookstore.local", "admin12345")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
}
