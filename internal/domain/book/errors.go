package book

import (
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格不能为负数")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	ErrTitleRequired    = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrAuthorRequired   = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空")
	ErrCategoryRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "至少需要一个分类")

	// ErrInvalidSearchValue 检索参数无法解析(如价格不是数字)
	ErrInvalidSearchValue = apperrors.New(apperrors.ErrCodeInvalidParams, "检索参数格式错误")
)
