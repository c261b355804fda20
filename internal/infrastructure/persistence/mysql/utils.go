package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/onlinebookstore/pkg/pagination"
)

// isDuplicateError 判断是否为唯一索引冲突
// MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// paginate 分页作用域
func paginate(page pagination.Params) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Limit())
	}
}

// likeEscaper LIKE模式中的通配符转义,配合ESCAPE '!'使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
