/**
 * 路由:路由管理器
 * @description: 路由管理器，包含Router结构体、NewRouter函数和SetupRoutes主函数
 * @func:
 */
package router

import (
	"adminboard/internal/app/admin/middleware"
	"adminboard/internal/config"
	authHandler "adminboard/internal/handler/auth"
	costHandler "adminboard/internal/handler/cost"
	educationHandler "adminboard/internal/handler/education"
	hardwareHandler "adminboard/internal/handler/hardware"
	inspectionHandler "adminboard/internal/handler/inspection"
	partnerHandler "adminboard/internal/handler/partner"
	salesHandler "adminboard/internal/handler/sales"
	authPkg "adminboard/internal/pkg/auth"

	// 统一使用项目封装的日志模块，便于采集规范字段与统一输出
	"adminboard/internal/pkg/logger"
	changelogRepo "adminboard/internal/repo/mysql/changelog"
	costRepo "adminboard/internal/repo/mysql/cost"
	educationRepo "adminboard/internal/repo/mysql/education"
	hardwareRepo "adminboard/internal/repo/mysql/hardware"
	inspectionRepo "adminboard/internal/repo/mysql/inspection"
	partnerRepo "adminboard/internal/repo/mysql/partner"
	salesRepo "adminboard/internal/repo/mysql/sales"
	systemRepo "adminboard/internal/repo/mysql/system"
	redisRepo "adminboard/internal/repo/redis"
	authService "adminboard/internal/service/auth"
	changelogService "adminboard/internal/service/changelog"
	costService "adminboard/internal/service/cost"
	educationService "adminboard/internal/service/education"
	hardwareService "adminboard/internal/service/hardware"
	inspectionService "adminboard/internal/service/inspection"
	partnerService "adminboard/internal/service/partner"
	salesService "adminboard/internal/service/sales"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Router 路由管理器
type Router struct {
	config            *config.Config
	engine            *gin.Engine
	db                *gorm.DB
	redisClient       *redis.Client
	middlewareManager *middleware.MiddlewareManager
	authHandler       *authHandler.Handler
	costHandler       *costHandler.Handler
	inspectionHandler *inspectionHandler.Handler
	educationHandler  *educationHandler.Handler
	hardwareHandler   *hardwareHandler.Handler
	partnerHandler    *partnerHandler.Handler
	salesHandler      *salesHandler.Handler
}

// NewRouter 创建路由管理器实例
// 在这里完成 repo -> service -> handler 的装配
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Router {
	// 内部提取需要的配置
	jwtConfig := &cfg.Security.JWT
	securityConfig := &cfg.Security
	maxProbes := cfg.App.Allocator.MaxProbes
	dragThreshold := cfg.App.Board.DragThreshold

	// 初始化工具包
	jwtManager := authPkg.NewJWTManager(jwtConfig.Secret, jwtConfig.Issuer, jwtConfig.AccessTokenExpire, jwtConfig.RefreshTokenExpire)
	passwordManager := authPkg.NewPasswordManager(nil) // 使用默认Argon2id配置

	// 初始化认证相关服务
	sessionRepo := redisRepo.NewSessionRepository(redisClient)
	userRepo := systemRepo.NewUserRepository(db)
	jwtService := authService.NewJWTService(jwtManager, sessionRepo, userRepo, jwtConfig.RefreshTokenExpire)
	sessionService := authService.NewSessionService(userRepo, passwordManager, jwtService, sessionRepo)

	// 初始化变更日志服务(全模块共享同一个Tracker)
	logService := changelogService.NewService(changelogRepo.NewChangeLogRepository(db))
	tracker := changelogService.NewTracker(logService)

	// 初始化各业务模块服务
	costSvc := costService.NewService(costRepo.NewCostRepository(db), logService, tracker, maxProbes)
	inspectionSvc := inspectionService.NewService(inspectionRepo.NewInspectionRepository(db), logService, tracker, maxProbes)
	educationSvc := educationService.NewService(educationRepo.NewEducationRepository(db), logService, tracker, maxProbes)
	hardwareSvc := hardwareService.NewService(hardwareRepo.NewHardwareRepository(db), logService, tracker, maxProbes, dragThreshold)
	partnerSvc := partnerService.NewService(partnerRepo.NewPartnerAuditRepository(db), logService, tracker, maxProbes)
	salesSvc := salesService.NewService(salesRepo.NewSalesRepository(db), logService, tracker, maxProbes)

	// 初始化中间件管理器
	middlewareManager := middleware.NewMiddlewareManager(sessionService, securityConfig)

	// 创建Gin引擎
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	return &Router{
		config:            cfg,
		engine:            engine,
		db:                db,
		redisClient:       redisClient,
		middlewareManager: middlewareManager,
		authHandler:       authHandler.NewHandler(sessionService),
		costHandler:       costHandler.NewHandler(costSvc),
		inspectionHandler: inspectionHandler.NewHandler(inspectionSvc),
		educationHandler:  educationHandler.NewHandler(educationSvc),
		hardwareHandler:   hardwareHandler.NewHandler(hardwareSvc),
		partnerHandler:    partnerHandler.NewHandler(partnerSvc),
		salesHandler:      salesHandler.NewHandler(salesSvc),
	}
}

// SetupRoutes 设置全局中间件和路由
// 在这里配置调用各个路由模块
func (r *Router) SetupRoutes() {
	// 1) 先注册全局中间件；2) 再注册各模块路由。
	r.registerGlobalMiddleware()
	r.registerRoutes()
}

// GetEngine 获取Gin引擎实例
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// registerGlobalMiddleware 注册全局中间件
// 将全局中间件的挂载集中在一个方法中，便于统一管理与测试
func (r *Router) registerGlobalMiddleware() {
	// 系统恢复中间件，防止 panic 直接导致进程崩溃
	r.engine.Use(gin.Recovery())

	if r.middlewareManager != nil {
		// 请求ID中间件
		r.engine.Use(r.middlewareManager.GinRequestIDMiddleware())
		// CORS 中间件
		r.engine.Use(r.middlewareManager.GinCORSMiddleware())
		// 安全响应头中间件
		r.engine.Use(r.middlewareManager.GinSecurityHeadersMiddleware())
		// 统一日志中间件
		r.engine.Use(r.middlewareManager.GinLoggingMiddleware())
		// 限流中间件
		r.engine.Use(r.middlewareManager.GinRateLimitMiddleware())
	}
}

// registerRoutes 注册路由
// 将"中间件注册"和"各模块路由注册"的步骤分离，提升可维护性与可测试性
func (r *Router) registerRoutes() {
	logger.WithFields(map[string]interface{}{
		"operation": "register_routes",
		"func_name": "router.registerRoutes",
	}).Info("开始注册路由")

	// API 版本路由组：/api/v1
	api := r.engine.Group("/api")
	v1 := api.Group("/v1")

	// 公共路由（不需要认证）
	r.setupPublicRoutes(v1)
	// 用户认证路由（需要 JWT 认证）
	r.setupUserRoutes(v1)
	// 业务模块路由（需要 JWT 认证）
	r.setupCostRoutes(v1)
	r.setupInspectionRoutes(v1)
	r.setupEducationRoutes(v1)
	r.setupHardwareRoutes(v1)
	r.setupPartnerRoutes(v1)
	r.setupSalesRoutes(v1)
	// 健康检查路由
	r.setupHealthRoutes(api)

	logger.WithFields(map[string]interface{}{
		"operation": "register_routes",
		"func_name": "router.registerRoutes",
	}).Info("路由注册完成")
}
