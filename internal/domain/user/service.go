package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
)

// RegisterInput 注册信息
type RegisterInput struct {
	Email           string
	Password        string
	RepeatPassword  string
	FirstName       string
	LastName        string
	ShippingAddress string
}

// Service 用户领域服务
// 不处理HTTP与事务，只负责规则校验、密码加密与持久化
type Service interface {
	// Register 注册普通用户
	Register(ctx context.Context, in RegisterInput) (*User, error)

	// CreateAdmin 创建管理员（启动时初始化用），邮箱已存在时返回已有用户
	CreateAdmin(ctx context.Context, email, password string) (*User, bool, error)

	// Login 校验邮箱与密码
	Login(ctx context.Context, email, password string) (*User, error)

	// GetByID 根据ID获取用户
	GetByID(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo       Repository
	bcryptCost int
}

// NewService 创建用户服务
// bcryptCost<=0时使用12（约250ms，兼顾安全与性能）
func NewService(repo Repository, bcryptCost int) Service {
	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	return &service{repo: repo, bcryptCost: bcryptCost}
}

// Register 用户注册
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码强度校验（8-20位，包含字母和数字），两次输入一致
// 3. 姓名必填
// 4. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if !isValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePasswordStrength(in.Password); err != nil {
		return nil, err
	}
	if in.Password != in.RepeatPassword {
		return nil, ErrPasswordMismatch
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, ErrNameRequired
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := NewUser(in.Email, hashed, in.FirstName, in.LastName, in.ShippingAddress, RoleUser)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) CreateAdmin(ctx context.Context, email, password string) (*User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	if !isValidEmail(email) {
		return nil, false, ErrInvalidEmail
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, false, err
	}

	hashed, err := s.hash(password)
	if err != nil {
		return nil, false, err
	}

	u := NewUser(email, hashed, "Admin", "Admin", "", RoleAdmin)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Login 用户登录
// 邮箱不存在与密码错误返回同一个错误，避免枚举账号
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidPassword
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRe     = regexp.MustCompile(`[a-zA-Z]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// validatePasswordStrength 8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}
	if !letterRe.MatchString(password) || !digitRe.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
