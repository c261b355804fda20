package user

import (
	"context"

	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
	"github.com/xiebiao/onlinebookstore/internal/domain/user"
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
)

// Transactor 事务执行器(mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// RegisterUseCase 用户注册用例
// 用户与其购物车在同一事务中创建,保证每个用户都有且只有一个购物车
type RegisterUseCase struct {
	userService user.Service
	cartStore   cart.Store
	txManager   Transactor
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, cartStore cart.Store, txManager Transactor) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		cartStore:   cartStore,
		txManager:   txManager,
	}
}

// Execute 执行注册
// 返回：UserInfo（应用层DTO，不含密码）
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	var registered *user.User
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		u, err := uc.userService.Register(txCtx, user.RegisterInput{
			Email:           req.Email,
			Password:        req.Password,
			RepeatPassword:  req.RepeatPassword,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			ShippingAddress: req.ShippingAddress,
		})
		if err != nil {
			return err
		}

		if err := uc.cartStore.Create(txCtx, cart.New(u.ID)); err != nil {
			return err
		}

		registered = u
		return nil
	})
	if err != nil {
		return nil, apperrors.AsTransactionFailed(err)
	}

	logger.FromContext(ctx).WithField("user_id", registered.ID).Info("用户注册成功")
	return toUserInfo(registered), nil
}

// EnsureAdminUseCase 启动时初始化管理员账号
// 账号已存在时不做任何修改
type EnsureAdminUseCase struct {
	userService user.Service
	cartStore   cart.Store
	txManager   Transactor
}

// NewEnsureAdminUseCase 创建管理员初始化用例
func NewEnsureAdminUseCase(userService user.Service, cartStore cart.Store, txManager Transactor) *EnsureAdminUseCase {
	return &EnsureAdminUseCase{
		userService: userService,
		cartStore:   cartStore,
		txManager:   txManager,
	}
}

// Execute email为空时跳过
func (uc *EnsureAdminUseCase) Execute(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}

	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		admin, created, err := uc.userService.CreateAdmin(txCtx, email, password)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		if err := uc.cartStore.Create(txCtx, cart.New(admin.ID)); err != nil {
			return err
		}
		logger.FromContext(ctx).WithField("user_id", admin.ID).WithField("email", admin.Email).Info("已创建管理员账号")
		return nil
	})
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email           string
	Password        string
	RepeatPassword  string
	FirstName       string
	LastName        string
	ShippingAddress string
}

// UserInfo 用户信息
type UserInfo struct {
	ID              uint   `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	ShippingAddress string `json:"shipping_address"`
	Role            string `json:"role"`
}

func toUserInfo(u *user.User) *UserInfo {
	return &UserInfo{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ShippingAddress: u.ShippingAddress,
		Role:            string(u.Role),
	}
}
