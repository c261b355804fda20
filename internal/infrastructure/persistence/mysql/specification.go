package mysql

import (
	"gorm.io/gorm"

	"github.com/xiebiao/onlinebookstore/internal/domain/book"
)

// bookColumns 检索字段 → 列名
var bookColumns = map[book.Field]string{
	book.FieldTitle:  "books.title",
	book.FieldAuthor: "books.author",
	book.FieldISBN:   "books.isbn",
	book.FieldPrice:  "books.price",
}

// applySpecification 把Specification翻译成WHERE条件
//
//	OpInFold       → LOWER(col) IN (?)
//	OpContainsFold → LOWER(col) LIKE '%v%' ESCAPE '!'
//	OpInDecimal    → col IN (?)
//
// 谓词的Values在构建时已转为小写
func applySpecification(query *gorm.DB, spec book.Specification) *gorm.DB {
	for _, p := range spec.Predicates() {
		col, ok := bookColumns[p.Field]
		if !ok {
			continue
		}

		switch p.Op {
		case book.OpInFold:
			query = query.Where("LOWER("+col+") IN ?", p.Values)
		case book.OpContainsFold:
			if len(p.Values) == 0 {
				continue
			}
			query = query.Where("LOWER("+col+") LIKE ? ESCAPE '!'", containsPattern(p.Values[0]))
		case book.OpInDecimal:
			amounts := make([]interface{}, len(p.Amounts))
			for i, a := range p.Amounts {
				amounts[i] = a
			}
			query = query.Where(col+" IN ?", amounts)
		}
	}
	return query
}
