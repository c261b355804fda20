package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/pagination"
	"github.com/xiebiao/onlinebookstore/pkg/response"
)

// bindError 参数绑定或校验失败
func bindError(c *gin.Context, err error) {
	response.Error(c, apperrors.ErrInvalidParams.WithMessage("参数错误: %s", err.Error()))
}

// pathID 解析路径中的正整数ID,失败时已写出响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("参数错误: %s必须是正整数", name))
		return 0, false
	}
	return uint(id), true
}

// queryPage ?page=&page_size=,缺省取默认值
func queryPage(c *gin.Context) (pagination.Params, bool) {
	var page pagination.Params
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return page, false
	}
	return page.Normalize(), true
}
