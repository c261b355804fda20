package book

// SearchParameters 检索参数,每个字段都是可选的字符串数组
// 例: /books/search?titles=go&authors=Rob%20Pike&authors=Ken%20Thompson
type SearchParameters struct {
	Titles  []string `form:"titles" json:"titles"`
	Authors []string `form:"authors" json:"authors"`
	Isbns   []string `form:"isbns" json:"isbns"`
	Prices  []string `form:"prices" json:"prices"`
}

// fieldOrder 构建顺序固定,保证同样的输入得到同样的谓词列表
var fieldOrder = []Field{FieldTitle, FieldAuthor, FieldISBN, FieldPrice}

// 查询参数名 → 字段
var paramFields = map[string]Field{
	"titles":  FieldTitle,
	"authors": FieldAuthor,
	"isbns":   FieldISBN,
	"prices":  FieldPrice,
}

func (p SearchParameters) values() map[Field][]string {
	return map[Field][]string{
		FieldTitle:  p.Titles,
		FieldAuthor: p.Authors,
		FieldISBN:   p.Isbns,
		FieldPrice:  p.Prices,
	}
}

// IsEmpty 没有任何检索字段
func (p SearchParameters) IsEmpty() bool {
	for _, v := range p.values() {
		if len(nonEmpty(v)) > 0 {
			return false
		}
	}
	return true
}

// SpecificationBuilder 把检索参数组合成Specification
type SpecificationBuilder struct {
	registry *Registry
}

// NewSpecificationBuilder 创建构建器
func NewSpecificationBuilder(registry *Registry) *SpecificationBuilder {
	return &SpecificationBuilder{registry: registry}
}

// Build 对每个非空字段取Provider生成谓词,全部AND在一起
// 没有任何非空字段时返回恒真过滤器
func (b *SpecificationBuilder) Build(params SearchParameters) (Specification, error) {
	return b.build(params.values())
}

// BuildFromValues 从原始查询参数构建(如url.Values)
// 不认识的参数名直接忽略
func (b *SpecificationBuilder) BuildFromValues(values map[string][]string) (Specification, error) {
	byField := make(map[Field][]string, len(paramFields))
	for name, v := range values {
		if field, ok := paramFields[name]; ok {
			byField[field] = append(byField[field], v...)
		}
	}
	return b.build(byField)
}

func (b *SpecificationBuilder) build(byField map[Field][]string) (Specification, error) {
	var spec Specification
	for _, field := range fieldOrder {
		values := nonEmpty(byField[field])
		if len(values) == 0 {
			continue
		}

		provider, ok := b.registry.Provider(field)
		if !ok {
			continue
		}

		predicate, err := provider(values)
		if err != nil {
			return Specification{}, err
		}
		spec = spec.And(predicate)
	}
	return spec, nil
}

// nonEmpty 去掉空字符串(?titles=&authors=x 中的titles视为未提供)
func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
