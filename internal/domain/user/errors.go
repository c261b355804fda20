package user

import (
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
)

var (
	ErrUserNotFound    = apperrors.ErrUserNotFound
	ErrEmailDuplicate  = apperrors.ErrEmailDuplicate
	ErrInvalidPassword = apperrors.ErrInvalidPassword
	ErrWeakPassword    = apperrors.ErrWeakPassword
	ErrInvalidToken    = apperrors.ErrInvalidToken

	ErrInvalidEmail     = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrPasswordMismatch = apperrors.New(apperrors.ErrCodeInvalidParams, "两次输入的密码不一致")
	ErrNameRequired     = apperrors.New(apperrors.ErrCodeInvalidParams, "姓名不能为空")
)
