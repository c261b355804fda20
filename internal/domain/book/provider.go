package book

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Provider 把某个字段的原始检索值转换为谓词
// 调用方保证values非空；Provider无状态
type Provider func(values []string) (Predicate, error)

// Registry 字段到Provider的映射表
// 编译期固定，每个字段只有一个Provider
type Registry struct {
	providers map[Field]Provider
}

// NewProviderRegistry 创建默认注册表
//   - title: 包含匹配,只取第一个值
//   - author/isbn: 忽略大小写,等于任意一个值
//   - price: 金额等于任意一个值
func NewProviderRegistry() *Registry {
	return &Registry{
		providers: map[Field]Provider{
			FieldTitle:  titleProvider,
			FieldAuthor: inFoldProvider(FieldAuthor),
			FieldISBN:   inFoldProvider(FieldISBN),
			FieldPrice:  priceProvider,
		},
	}
}

// Provider 按字段查找,ok=false表示没有对应Provider(不是错误)
func (r *Registry) Provider(field Field) (Provider, bool) {
	p, ok := r.providers[field]
	return p, ok
}

func titleProvider(values []string) (Predicate, error) {
	return Predicate{
		Field:  FieldTitle,
		Op:     OpContainsFold,
		Values: []string{strings.ToLower(values[0])},
	}, nil
}

func inFoldProvider(field Field) Provider {
	return func(values []string) (Predicate, error) {
		folded := make([]string, len(values))
		for i, v := range values {
			folded[i] = strings.ToLower(v)
		}
		return Predicate{Field: field, Op: OpInFold, Values: folded}, nil
	}
}

func priceProvider(values []string) (Predicate, error) {
	amounts := make([]decimal.Decimal, len(values))
	normalized := make([]string, len(values))
	for i, v := range values {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return Predicate{}, ErrInvalidSearchValue.WithMessage("价格格式错误: %q", v)
		}
		amounts[i] = d
		normalized[i] = d.String()
	}
	return Predicate{Field: FieldPrice, Op: OpInDecimal, Values: normalized, Amounts: amounts}, nil
}
