package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/api/middleware"
	"github.com/d60-Lab/inkwell/pkg/response"
)

type createPostRequest struct {
	Content string `json:"content" binding:"required,notblank,max=5000"`
}

type updatePostRequest struct {
	Content string `json:"content" binding:"required,notblank,max=5000"`
}

// ListPosts 信息流分页
// @Summary 信息流（游标分页，每页 25 条，按创建序降序）
// @Tags 帖子
// @Produce json
// @Param cursor query string false "上一页末条记录的键；缺省取首页"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	page, err := h.postService.Feed(c.Request.Context(), c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": page.Items, "next_cursor": page.NextCursor})
}

// GetPost 单帖查询
// @Summary 查询帖子
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, p)
}

// CreatePost 发帖
// @Summary 发帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.postService.Create(c.Request.Context(), middleware.CurrentUserID(c), req.Content)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, p)
}

// UpdatePost 作者编辑帖子
// @Summary 编辑帖子（仅作者）
// @Tags 帖子
// @Accept json
// @Produce json
// @Param id path int true "帖子ID"
// @Param request body updatePostRequest true "新内容"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.postService.Update(c.Request.Context(), id, middleware.CurrentUserID(c), req.Content)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePost 级联删除帖子
// @Summary 删除帖子（仅作者；连带点赞与评论一并删除）
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.postService.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}
