package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/onlinebookstore/internal/application/book"
	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/internal/interface/http/dto"
	"github.com/xiebiao/onlinebookstore/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooks  *appbook.ListBooksUseCase
	manageBook *appbook.ManageBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(listBooks *appbook.ListBooksUseCase, manageBook *appbook.ManageBookUseCase) *BookHandler {
	return &BookHandler{
		listBooks:  listBooks,
		manageBook: manageBook,
	}
}

// List 图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}

	result, err := h.listBooks.Execute(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Search 组合检索
// @Summary      图书检索
// @Description  各字段可重复传值;字段之间为AND,同一字段多个值为OR(title只取第一个值做包含匹配)
// @Tags         图书
// @Produce      json
// @Param        titles    query []string false "标题包含(忽略大小写)" collectionFormat(multi)
// @Param        authors   query []string false "作者(忽略大小写)" collectionFormat(multi)
// @Param        isbns     query []string false "ISBN(忽略大小写)" collectionFormat(multi)
// @Param        prices    query []string false "价格" collectionFormat(multi)
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Failure      400 {object} response.Response "价格格式错误"
// @Router       /api/v1/books/search [get]
func (h *BookHandler) Search(c *gin.Context) {
	var params book.SearchParameters
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	page, ok := queryPage(c)
	if !ok {
		return
	}

	result, err := h.listBooks.Search(c.Request.Context(), params, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListByCategory 分类下的图书
// @Summary      分类下的图书
// @Tags         分类
// @Produce      json
// @Param        id        path  int true  "分类ID"
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id}/books [get]
func (h *BookHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := queryPage(c)
	if !ok {
		return
	}

	result, err := h.listBooks.ByCategory(c.Request.Context(), categoryID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.manageBook.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 新建图书(管理员)
// @Summary      新建图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "无权限"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.manageBook.Create(c.Request.Context(), toBookRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update 更新图书(管理员)
// @Summary      更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int             true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.manageBook.Update(c.Request.Context(), id, toBookRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 下架图书(管理员,软删除)
// @Summary      删除图书
// @Tags         图书
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      204
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.manageBook.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func toBookRequest(req dto.BookRequest) appbook.BookRequest {
	return appbook.BookRequest{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Price:       req.Price,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		CategoryIDs: req.CategoryIDs,
	}
}
