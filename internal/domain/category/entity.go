package category

import (
	"strings"
	"time"
)

// Category 图书分类
// 名称唯一(数据库唯一索引 + 服务层预检查)
type Category struct {
	ID          uint
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory 创建分类
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := time.Now()
	return &Category{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Rename 修改名称与描述
func (c *Category) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	c.Name = name
	c.Description = description
	c.UpdatedAt = time.Now()
	return nil
}
