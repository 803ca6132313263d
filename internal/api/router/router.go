package router

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/inkwell/config"
	_ "github.com/d60-Lab/inkwell/docs"
	"github.com/d60-Lab/inkwell/internal/api/handler"
	"github.com/d60-Lab/inkwell/internal/api/middleware"
)

// New 组装路由与中间件
func New(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		gzip.Gzip(gzip.DefaultCompression),
		otelgin.Middleware("inkwell"),
	)
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1", middleware.Auth(cfg.JWT.Secret))
	{
		v1.GET("/posts", h.ListPosts)
		v1.POST("/posts", h.CreatePost)
		v1.GET("/posts/:id", h.GetPost)
		v1.PUT("/posts/:id", h.UpdatePost)
		v1.DELETE("/posts/:id", h.DeletePost)
		v1.POST("/posts/:id/like", h.ToggleLike)
		v1.GET("/posts/:id/comments", h.ListComments)
		v1.POST("/posts/:id/comment", h.CreateComment)

		v1.GET("/profile/posts", h.MyPosts)
		v1.GET("/profile/likes", h.MyLikedPosts)
	}
	return r
}
