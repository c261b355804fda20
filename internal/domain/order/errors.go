package order

import (
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在(或不属于当前用户)
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrOrderItemNotFound 订单明细不存在(或不属于当前用户)
	ErrOrderItemNotFound = apperrors.New(apperrors.ErrCodeOrderItemNotFound, "订单明细不存在")

	// ErrInvalidStatus 不是合法的状态枚举值
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "订单状态不合法")

	// ErrInvalidStatusTransition 开启单向流转时的非法变更
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrEmptyCart 购物车为空,不能下单
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeInvalidParams, "购物车为空")

	// ErrShippingAddressRequired 收货地址为空
	ErrShippingAddressRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "收货地址不能为空")
)
