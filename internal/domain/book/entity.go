package book

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 价格使用decimal.Decimal(数据库decimal(10,2)),避免浮点误差
// 2. ISBN作为业务唯一标识(数据库层唯一索引)
// 3. 分类只保存ID(多对多关系由仓储维护),不跨聚合持有Category对象
type Book struct {
	ID          uint
	Title       string
	Author      string
	ISBN        string
	Price       decimal.Decimal
	Description string
	CoverImage  string
	CategoryIDs []uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input 创建/更新图书时的可写字段
type Input struct {
	Title       string
	Author      string
	ISBN        string
	Price       decimal.Decimal
	Description string
	CoverImage  string
	CategoryIDs []uint
}

// NewBook 创建新图书(工厂方法),调用方需先通过Validate
func NewBook(in Input) *Book {
	now := time.Now()
	return &Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		ISBN:        normalizeISBN(in.ISBN),
		Price:       in.Price,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		CategoryIDs: dedupIDs(in.CategoryIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply 整体覆盖可写字段(PUT语义)
func (b *Book) Apply(in Input) {
	b.Title = strings.TrimSpace(in.Title)
	b.Author = strings.TrimSpace(in.Author)
	b.ISBN = normalizeISBN(in.ISBN)
	b.Price = in.Price
	b.Description = in.Description
	b.CoverImage = in.CoverImage
	b.CategoryIDs = dedupIDs(in.CategoryIDs)
	b.UpdatedAt = time.Now()
}

// Validate 业务规则校验
// - 书名、作者必填
// - 价格 >= 0
// - ISBN为10位或13位数字(允许连字符)
// - 至少属于一个分类
func (in Input) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(in.Author) == "" {
		return ErrAuthorRequired
	}
	if in.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if !isValidISBN(in.ISBN) {
		return ErrInvalidISBN
	}
	if len(in.CategoryIDs) == 0 {
		return ErrCategoryRequired
	}
	return nil
}

// isValidISBN 去除分隔符后检查位数
// 只检查位数和字符，不校验校验位
func isValidISBN(isbn string) bool {
	clean := normalizeISBN(isbn)
	if len(clean) != 10 && len(clean) != 13 {
		return false
	}
	for i, r := range clean {
		if r >= '0' && r <= '9' {
			continue
		}
		// ISBN-10校验位可以是X
		if len(clean) == 10 && i == 9 && r == 'X' {
			continue
		}
		return false
	}
	return true
}

func normalizeISBN(isbn string) string {
	isbn = strings.ToUpper(strings.TrimSpace(isbn))
	return strings.NewReplacer("-", "", " ", "").Replace(isbn)
}

func dedupIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
