package book

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Field 可检索字段
type Field string

const (
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
	FieldISBN   Field = "isbn"
	FieldPrice  Field = "price"
)

// Op 谓词运算
type Op int

const (
	// OpInFold 忽略大小写,等于任意一个值
	OpInFold Op = iota + 1
	// OpContainsFold 忽略大小写,包含Values[0]
	OpContainsFold
	// OpInDecimal 数值等于任意一个金额
	OpInDecimal
)

func (o Op) String() string {
	switch o {
	case OpInFold:
		return "in_fold"
	case OpContainsFold:
		return "contains_fold"
	case OpInDecimal:
		return "in_decimal"
	default:
		return "unknown"
	}
}

// Predicate 单字段过滤条件
// 字符串运算的Values已转为小写；OpInDecimal使用Amounts
type Predicate struct {
	Field   Field
	Op      Op
	Values  []string
	Amounts []decimal.Decimal
}

// Match 在内存中对单本图书求值
func (p Predicate) Match(b *Book) bool {
	if b == nil {
		return false
	}

	switch p.Op {
	case OpInFold:
		v := strings.ToLower(p.fieldValue(b))
		for _, want := range p.Values {
			if v == want {
				return true
			}
		}
		return false
	case OpContainsFold:
		if len(p.Values) == 0 {
			return true
		}
		return strings.Contains(strings.ToLower(p.fieldValue(b)), p.Values[0])
	case OpInDecimal:
		for _, amount := range p.Amounts {
			if b.Price.Equal(amount) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (p Predicate) fieldValue(b *Book) string {
	switch p.Field {
	case FieldTitle:
		return b.Title
	case FieldAuthor:
		return b.Author
	case FieldISBN:
		return b.ISBN
	case FieldPrice:
		return b.Price.String()
	default:
		return ""
	}
}

// Specification 谓词的合取(AND)
// 零值即恒真过滤器
type Specification struct {
	predicates []Predicate
}

// And 返回追加了p的新Specification,原值不变
func (s Specification) And(p Predicate) Specification {
	next := make([]Predicate, len(s.predicates), len(s.predicates)+1)
	copy(next, s.predicates)
	return Specification{predicates: append(next, p)}
}

// Predicates 谓词列表副本(按构建顺序)
func (s Specification) Predicates() []Predicate {
	out := make([]Predicate, len(s.predicates))
	copy(out, s.predicates)
	return out
}

// MatchesAll 是否为恒真过滤器
func (s Specification) MatchesAll() bool {
	return len(s.predicates) == 0
}

// IsSatisfiedBy 所有谓词均满足
func (s Specification) IsSatisfiedBy(b *Book) bool {
	for _, p := range s.predicates {
		if !p.Match(b) {
			return false
		}
	}
	return true
}
