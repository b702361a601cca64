package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/1Swaraj1/Krishi-Scan-FYP/config"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/api/handler"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/api/router"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/classifier"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/repository"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/service"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/storage"
	"github.com/1Swaraj1/Krishi-Scan-FYP/pkg/database"
	"github.com/1Swaraj1/Krishi-Scan-FYP/pkg/jwt"
	applogger "github.com/1Swaraj1/Krishi-Scan-FYP/pkg/logger"
	"github.com/1Swaraj1/Krishi-Scan-FYP/pkg/redis"
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
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，限流放行）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，接口限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 加载识别模型（可选：加载失败时降级运行，识别接口一律拒绝）
	var clf classifier.Classifier
	if tfl, err := classifier.NewTFLite(&cfg.Model, logger); err != nil {
		logger.Warn("识别模型加载失败，识别功能将不可用",
			zap.String("path", cfg.Model.Path), zap.Error(err))
	} else {
		clf = tfl
		defer tfl.Close()
	}

	// 6. 初始化上传存储
	uploads, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		logger.Fatal("初始化上传目录失败", zap.String("dir", cfg.Upload.Dir), zap.Error(err))
	}

	// 7. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 8. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, jwtMgr, clf, uploads, logger)
	h := handler.NewHandler(svc)

	// 9. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, repo, rdb, logger)

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
