package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/inkwell/config"
	"github.com/d60-Lab/inkwell/internal/api/handler"
	"github.com/d60-Lab/inkwell/internal/api/router"
	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/database"
	"github.com/d60-Lab/inkwell/pkg/logger"
	"github.com/d60-Lab/inkwell/pkg/tracing"
)

// @title inkwell API
// @version 1.0
// @description 帖子信息流与互动服务
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// 缓存不可用只影响用户名装填，直连数据库兜底
		logger.Warn("redis unavailable, username cache disabled", zap.Error(err))
		rdb = nil
	}

	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	userCache := cache.NewUserCache(rdb, userRepo, 10*time.Minute)

	postService := service.NewPostService(db, postRepo, likeRepo, commentRepo, userCache)
	engagement := service.NewEngagementService(db, postRepo, likeRepo, commentRepo, userCache)

	h := handler.New(postService, engagement)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.New(cfg, h),
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
