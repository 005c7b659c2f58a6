package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rescue-roster/config"
	"rescue-roster/internal/api/handler"
	"rescue-roster/internal/api/router"
	"rescue-roster/internal/repository"
	"rescue-roster/internal/service"
	"rescue-roster/pkg/database"
	"rescue-roster/pkg/jwt"
	applogger "rescue-roster/pkg/logger"
	"rescue-roster/pkg/redis"
	"rescue-roster/pkg/validate"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("calendar_timezone", cfg.Calendar.Timezone),
	)

	// 3. 注册自定义校验标签
	if err := validate.RegisterGin(); err != nil {
		logger.Fatal("注册校验标签失败", zap.Error(err))
	}

	// 4. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 5. 连接 Redis（失败时降级运行：无 Token 黑名单、节假日直接查库、限流使用内存计数）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，降级运行", zap.Error(err))
		rdb = nil
	}

	// 6. 依赖注入: Repository → Service → Handler
	deps := service.Deps{
		Config: cfg,
		Repo:   repository.NewRepository(db),
		JWT:    jwt.NewManager(&cfg.Auth),
		Logger: logger,
	}
	if rdb != nil {
		deps.Blacklist = rdb
		deps.Cache = rdb
	}
	svc := service.NewService(deps)
	h := handler.NewHandler(svc)

	if admin := cfg.Auth.BootstrapAdmin; admin.Password != "" {
		if _, err := svc.User.EnsureAdmin(context.Background(), admin.Username, admin.Password); err != nil {
			logger.Fatal("初始化管理员失败", zap.Error(err))
		}
	}

	// 7. 初始化路由
	engine, err := router.Setup(cfg, h, deps.JWT, rdb, logger)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
