package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/pagination"
	"github.com/d60-Lab/inkwell/pkg/response"
)

type Handler struct {
	postService service.PostService
	engagement  service.EngagementService
}

func New(posts service.PostService, engagement service.EngagementService) *Handler {
	return &Handler{postService: posts, engagement: engagement}
}

func init() {
	// notblank：去空白后仍须非空（max 校验字符数上限，下限靠它）
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

// pathID 解析路径里的记录 ID
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// renderError 服务层错误到 HTTP 响应的粗粒度映射；内部细节不外漏
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pagination.ErrMalformedCursor),
		errors.Is(err, service.ErrInvalidContent),
		errors.Is(err, service.ErrInvalidParent):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
