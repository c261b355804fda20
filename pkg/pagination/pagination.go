// Package pagination 分页参数
package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params 分页参数（页码从1开始）
type Params struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// New 创建并规范化分页参数
func New(page, pageSize int) Params {
	return Params{Page: page, PageSize: pageSize}.Normalize()
}

// Normalize 默认值与范围限制：page默认1，pageSize默认20、最大100
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset SQL偏移量
func (p Params) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PageSize
}

// Limit SQL条数
func (p Params) Limit() int {
	return p.Normalize().PageSize
}
