package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/onlinebookstore/internal/application/category"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/dto"
	"github.com/xiebiao/onlinebookstore/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	categories *appcategory.CategoryUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(categories *appcategory.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=appcategory.CategoryListResponse}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}

	result, err := h.categories.List(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 分类详情
// @Summary      分类详情
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=appcategory.CategoryDTO}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 新建分类(管理员)
// @Summary      新建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "分类信息"
// @Success      201 {object} response.Response{data=appcategory.CategoryDTO}
// @Failure      409 {object} response.Response "分类名已存在"
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.categories.Create(c.Request.Context(), appcategory.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update 更新分类(管理员)
// @Summary      更新分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                 true "分类ID"
// @Param        request body dto.CategoryRequest true "分类信息"
// @Success      200 {object} response.Response{data=appcategory.CategoryDTO}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.categories.Update(c.Request.Context(), id, appcategory.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除分类(管理员)
// @Summary      删除分类
// @Description  解除与图书的关联,图书本身保留
// @Tags         分类
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      204
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
