package cart

import (
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
)

var (
	// ErrCartNotFound 用户没有购物车(注册流程保证不会发生,出现即数据异常)
	ErrCartNotFound = apperrors.New(apperrors.ErrCodeCartNotFound, "购物车不存在")

	// ErrCartItemNotFound 明细不存在或不属于当前用户
	ErrCartItemNotFound = apperrors.New(apperrors.ErrCodeCartItemNotFound, "购物车明细不存在")

	// ErrInvalidQuantity 数量小于1
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于等于1")
)
