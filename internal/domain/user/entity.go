package user

import (
	"strings"
	"time"
)

// Role 用户角色
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码只保存bcrypt哈希值
// 2. 领域实体不依赖GORM tag（infrastructure层负责映射）
// 3. ShippingAddress是默认收货地址，下单时由用户另行填写
type User struct {
	ID              uint
	Email           string
	Password        string // bcrypt哈希值
	FirstName       string
	LastName        string
	ShippingAddress string
	Role            Role
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, firstName, lastName, shippingAddress string, role Role) *User {
	now := time.Now()
	return &User{
		Email:           strings.ToLower(strings.TrimSpace(email)),
		Password:        hashedPassword,
		FirstName:       strings.TrimSpace(firstName),
		LastName:        strings.TrimSpace(lastName),
		ShippingAddress: strings.TrimSpace(shippingAddress),
		Role:            role,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// FullName 姓名
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
