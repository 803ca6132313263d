package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/api/middleware"
	"github.com/d60-Lab/inkwell/pkg/response"
)

type createCommentRequest struct {
	Content         string `json:"content" binding:"required,notblank,max=300"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// ToggleLike 点赞/取消点赞
// @Summary 点赞切换（未赞则赞，已赞则取消）
// @Tags 互动
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.engagement.ToggleLike(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, res)
}

// CreateComment 发评论
// @Summary 发评论（可带 parent_comment_id 回复同帖评论）
// @Tags 互动
// @Accept json
// @Produce json
// @Param id path int true "帖子ID"
// @Param request body createCommentRequest true "评论内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/comment [post]
func (h *Handler) CreateComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.engagement.CreateComment(c.Request.Context(), id, middleware.CurrentUserID(c), req.Content, req.ParentCommentID)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, cm)
}

// ListComments 帖内评论分页
// @Summary 帖内评论（游标分页，每页 25 条）
// @Tags 互动
// @Produce json
// @Param id path int true "帖子ID"
// @Param cursor query string false "上一页末条记录的键"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.engagement.ListComments(c.Request.Context(), id, c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"comments": page.Items, "next_cursor": page.NextCursor})
}
