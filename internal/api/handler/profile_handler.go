package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/api/middleware"
	"github.com/d60-Lab/inkwell/pkg/response"
)

// MyPosts 自己的帖子
// @Summary 我的帖子（游标分页）
// @Tags 个人
// @Produce json
// @Param cursor query string false "上一页末条记录的键"
// @Success 200 {object} response.Response
// @Router /api/v1/profile/posts [get]
func (h *Handler) MyPosts(c *gin.Context) {
	page, err := h.postService.PostsByAuthor(c.Request.Context(), middleware.CurrentUserID(c), c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": page.Items, "next_cursor": page.NextCursor})
}

// MyLikedPosts 我点赞过的帖子
// @Summary 我点赞过的帖子（游标分页，按帖子创建序降序）
// @Tags 个人
// @Produce json
// @Param cursor query string false "上一页末条记录的键"
// @Success 200 {object} response.Response
// @Router /api/v1/profile/likes [get]
func (h *Handler) MyLikedPosts(c *gin.Context) {
	page, err := h.postService.LikedPosts(c.Request.Context(), middleware.CurrentUserID(c), c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": page.Items, "next_cursor": page.NextCursor})
}
