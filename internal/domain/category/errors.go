package category

import (
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
)

var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrNameDuplicate 分类名已存在
	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeCategoryDuplicate, "分类名已存在")

	// ErrNameRequired 分类名为空
	ErrNameRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名不能为空")
)
