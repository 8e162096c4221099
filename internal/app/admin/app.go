/**
 * 应用装配
 * @description: 加载配置、初始化日志/MySQL/Redis、装配路由并管理HTTP服务器的生命周期
 * @func:
 * 	1.NewApp: 创建应用实例
 * 	2.Start: 启动HTTP服务器
 * 	3.Stop: 优雅关闭服务器并释放连接
 */
package admin

import (
	"context"
	"fmt"
	"net/http"

	"adminboard/internal/app/admin/router"
	"adminboard/internal/config"
	"adminboard/internal/pkg/database"
	"adminboard/internal/pkg/logger"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// App 应用程序结构体
type App struct {
	config      *config.Config
	db          *gorm.DB
	redisClient *redis.Client
	router      *router.Router
	server      *http.Server
}

// NewApp 创建新的应用程序实例
// configPath和env为空时使用环境变量与默认值
func NewApp(configPath, env string) (*App, error) {
	// 加载配置
	cfg, err := config.LoadConfig(configPath, env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化日志
	if _, err := logger.InitLogger(&cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	// 初始化MySQL连接
	db, err := database.NewMySQLConnection(&cfg.Database.MySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mysql: %w", err)
	}

	// 初始化Redis连接
	redisClient, err := database.NewRedisConnection(&cfg.Database.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	// 装配路由
	r := router.NewRouter(db, redisClient, cfg)
	r.SetupRoutes()

	// 监听配置文件变更，支持运行时热更新日志级别等配置
	if err := config.StartConfigWatcher(configPath, env); err != nil {
		logger.WithField("error", err.Error()).Warn("config watcher start failed")
	}

	server := &http.Server{
		Addr:           cfg.Server.GetAddress(),
		Handler:        r.GetEngine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return &App{
		config:      cfg,
		db:          db,
		redisClient: redisClient,
		router:      r,
		server:      server,
	}, nil
}

// GetConfig 获取应用配置
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetRouter 获取路由器实例
func (a *App) GetRouter() *router.Router {
	return a.router
}

// Start 启动HTTP服务器(阻塞直到服务器关闭)
func (a *App) Start() error {
	logger.WithFields(map[string]interface{}{
		"addr":    a.server.Addr,
		"app":     a.config.App.Name,
		"version": a.config.App.Version,
	}).Info("HTTP server starting")

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Stop 优雅关闭服务器并释放数据库连接
func (a *App) Stop(ctx context.Context) error {
	// 停止配置监听
	if err := config.StopConfigWatcher(); err != nil {
		logger.WithField("error", err.Error()).Warn("config watcher stop failed")
	}

	// 关闭HTTP服务器，等待现有请求完成
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// 关闭Redis连接
	if err := a.redisClient.Close(); err != nil {
		logger.WithField("error", err.Error()).Warn("redis close failed")
	}

	// 关闭MySQL连接
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.WithField("error", err.Error()).Warn("mysql close failed")
		}
	}

	logger.Info("application stopped")
	return nil
}
