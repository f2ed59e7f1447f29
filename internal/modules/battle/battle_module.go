package battle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	custommiddleware "battle-of-monsters/internal/middleware"
	"battle-of-monsters/internal/modules/battle/handler"
	"battle-of-monsters/internal/modules/battle/service"
	"battle-of-monsters/internal/modules/battle/tasks"
	"battle-of-monsters/internal/pkg/config"
	"battle-of-monsters/internal/pkg/i18n"
	"battle-of-monsters/internal/pkg/log"
	"battle-of-monsters/internal/pkg/metrics"
	natsHealth "battle-of-monsters/internal/pkg/nats"
	"battle-of-monsters/internal/pkg/notify"
	redisClient "battle-of-monsters/internal/pkg/redis"
	"battle-of-monsters/internal/pkg/response"
	"battle-of-monsters/internal/pkg/trace"
	"battle-of-monsters/internal/pkg/validator"
	"battle-of-monsters/internal/pkg/xerrors"

	_ "battle-of-monsters/docs/battle" // Swagger 生成的文档

	"github.com/labstack/echo/v4"
	"github.com/liangdas/mqant/conf"
	"github.com/liangdas/mqant/module"
	basemodule "github.com/liangdas/mqant/module/base"
	"github.com/liangdas/mqant/server"
	_ "github.com/lib/pq"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const moduleName = "battle"

type BattleModule struct {
	basemodule.BaseModule
	cfg              *config.Battle
	logger           log.Logger
	db               *sql.DB
	redis            *redisClient.Client
	httpServer       *echo.Echo
	respWriter       response.Writer
	serviceContainer *service.ServiceContainer
	monsterHandler   *handler.MonsterHandler
	battleHandler    *handler.BattleHandler
	battleRPCHandler *handler.BattleRPCHandler
	purgeTask        *tasks.PurgeTask
	natsChecker      *natsHealth.HealthChecker
	stopMonitoring   context.CancelFunc
}

func (m *BattleModule) GetType() string {
	return moduleName
}

func (m *BattleModule) Version() string {
	return "1.0.0"
}

// OnAppConfigurationLoaded 当App初始化时调用
func (m *BattleModule) OnAppConfigurationLoaded(app module.App) {
	m.BaseModule.OnAppConfigurationLoaded(app)
}

// OnInit module initialization
func (m *BattleModule) OnInit(app module.App, settings *conf.ModuleSettings) {
	metrics.SetServiceName(moduleName)
	// TTL 必须大于心跳间隔
	m.BaseModule.OnInit(m, app, settings,
		server.RegisterInterval(15*time.Second),
		server.RegisterTTL(30*time.Second),
	)

	// 1. 加载配置并初始化日志
	var moduleSettings map[string]interface{}
	if settings != nil {
		moduleSettings = settings.Settings
	}
	cfg, err := config.LoadBattle(moduleSettings)
	if err != nil {
		panic(fmt.Sprintf("Failed to load battle config: %v", err))
	}
	m.cfg = cfg
	log.Init(log.ParseLevel(cfg.LogLevel), cfg.Environment)
	m.logger = log.GetLogger()
	m.logger.Info("[Battle Module] 配置已加载", log.Any("config", cfg.ForLog()))

	// 2. Initialize database connection
	if err := m.initDatabase(); err != nil {
		panic(fmt.Sprintf("Failed to initialize database: %v", err))
	}

	// 3. Redis 可选，不可用时怪物缓存降级为不缓存
	m.initRedis()

	// 4. Initialize response writer
	m.respWriter = response.NewResponseHandler(m.logger, cfg.Environment)

	// 5. Initialize HTTP server
	m.initHTTPServer()

	// 6. Initialize Services and Handlers
	m.initServicesAndHandlers()

	// 7. Setup routes
	m.setupRoutes()

	// 8. Setup RPC methods
	m.setupRPCMethods()

	// 9. Start cron tasks
	m.startCronTasks()

	// 10. NATS 健康检查与资源监控
	m.startMonitoring()

	// 11. Start HTTP server in background
	go m.startHTTPServer()
}

// initDatabase initializes database connection
func (m *BattleModule) initDatabase() error {
	db, err := sql.Open("postgres", m.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(m.cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(m.cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(m.cfg.DBConnMaxLife)

	m.db = db
	m.logger.Info("[Battle Module] Database initialized successfully")
	return nil
}

// initRedis initializes Redis client for monster cache
func (m *BattleModule) initRedis() {
	if !m.cfg.CacheEnabled {
		m.logger.Info("[Battle Module] Monster cache disabled")
		return
	}

	client, err := redisClient.NewClient(redisClient.Config{
		Host:     m.cfg.RedisHost,
		Port:     m.cfg.RedisPort,
		Password: m.cfg.RedisPassword,
		DB:       m.cfg.RedisDB,
	}, metrics.GetServiceName())
	if err != nil {
		m.logger.Warn("[Battle Module] Redis 不可用，怪物缓存已关闭", log.Any("error", err))
		return
	}

	m.redis = client
	m.logger.Info("[Battle Module] Redis connected successfully",
		log.String("host", m.cfg.RedisHost),
		log.Int("port", m.cfg.RedisPort),
		log.Int("db", m.cfg.RedisDB),
	)
}

// initHTTPServer initializes HTTP server
func (m *BattleModule) initHTTPServer() {
	m.httpServer = echo.New()
	m.httpServer.HideBanner = true
	m.httpServer.HidePort = true
	m.httpServer.Validator = validator.New()
	m.httpServer.HTTPErrorHandler = custommiddleware.HTTPErrorHandler(m.respWriter, m.logger)

	// ========== 中间件配置（顺序很重要！） ==========

	// 1. TraceID 中间件 - 最先执行，生成或提取 TraceID
	m.httpServer.Use(trace.Middleware())

	// 2. Metrics 中间件 - 记录请求数、耗时和进行中的请求
	m.httpServer.Use(metrics.Middleware())

	// 3. i18n 中间件 - 语言检测和设置
	m.httpServer.Use(i18n.Middleware())

	// 4. Logging 中间件 - 记录请求日志（依赖 TraceID）
	loggingConfig := custommiddleware.DefaultLoggingConfig()
	if m.cfg.Environment == "development" {
		loggingConfig.DetailedLog = true
		loggingConfig.LogRequestBody = true
	}
	m.httpServer.Use(custommiddleware.LoggingMiddlewareWithConfig(m.logger, loggingConfig))

	// 5. Recovery 中间件 - 捕获 panic
	m.httpServer.Use(custommiddleware.RecoveryMiddleware(m.respWriter, m.logger))

	// 6. Error 中间件 - 统一错误处理
	m.httpServer.Use(custommiddleware.ErrorMiddleware(m.respWriter, m.logger))

	// 7. CORS / 安全头 / 限流
	m.httpServer.Use(custommiddleware.CORSMiddleware(m.cfg.CORSAllowOrigins))
	m.httpServer.Use(custommiddleware.SecurityMiddleware())
	m.httpServer.Use(custommiddleware.RateLimitMiddleware(m.cfg.RateLimitPerSecond))

	m.logger.Info("[Battle Module] HTTP middlewares configured",
		log.String("environment", m.cfg.Environment),
		log.Any("rate_limit", m.cfg.RateLimitPerSecond),
	)
}

// initServicesAndHandlers initializes services and HTTP handlers
func (m *BattleModule) initServicesAndHandlers() {
	var cache service.MonsterCache = service.NoopMonsterCache{}
	if m.redis != nil {
		cache = service.NewRedisMonsterCache(m.redis, m.cfg.MonsterCacheTTL, m.logger)
	}
	m.serviceContainer = service.NewServiceContainer(m.db, cache, m.logger)

	m.monsterHandler = handler.NewMonsterHandler(m.serviceContainer, m.respWriter, m.cfg.MaxImportBytes)
	m.battleHandler = handler.NewBattleHandler(m.serviceContainer, m.respWriter)
	m.battleRPCHandler = handler.NewBattleRPCHandler(m.serviceContainer)
}

// setupRoutes sets up HTTP routes
func (m *BattleModule) setupRoutes() {
	v1 := m.httpServer.Group("/api/v1")

	monsters := v1.Group("/monsters", custommiddleware.UUIDValidationMiddleware(func(id string) error {
		return xerrors.NewMonsterNotFoundError(id)
	}))
	{
		monsters.GET("", m.monsterHandler.ListMonsters)
		monsters.POST("", m.monsterHandler.CreateMonster)
		monsters.POST("/import", m.monsterHandler.ImportMonsters)
		monsters.GET("/:id", m.monsterHandler.GetMonster)
		monsters.PUT("/:id", m.monsterHandler.UpdateMonster)
		monsters.DELETE("/:id", m.monsterHandler.DeleteMonster)
	}

	battles := v1.Group("/battles", custommiddleware.UUIDValidationMiddleware(func(id string) error {
		return xerrors.NewBattleNotFoundError(id)
	}))
	{
		battles.GET("", m.battleHandler.ListBattles)
		battles.POST("", m.battleHandler.CreateBattle)
		battles.GET("/:id", m.battleHandler.GetBattle)
		battles.DELETE("/:id", m.battleHandler.DeleteBattle)
	}

	// Swagger UI
	m.httpServer.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health check
	m.httpServer.GET("/health", m.health)

	// Prometheus metrics endpoint
	m.httpServer.GET("/metrics", metrics.EchoHandler())

	m.logger.Info("[Battle Module] Routes configured successfully",
		log.String("swagger", fmt.Sprintf("http://%s/swagger/index.html", m.cfg.HTTPAddress())),
	)
}

// health 数据库不可用时返回 503；NATS 只影响事件投递，不影响可用性
func (m *BattleModule) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]interface{}{
		"status":   "ok",
		"module":   moduleName,
		"database": "ok",
		"nats":     "disconnected",
		"cache":    "disabled",
	}
	if err := m.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		body["database"] = err.Error()
	}
	if m.natsChecker != nil && m.natsChecker.IsHealthy() {
		body["nats"] = "ok"
	}
	if m.redis != nil {
		body["cache"] = "redis"
	}
	return c.JSON(status, body)
}

// setupRPCMethods 注册 RPC 方法，供其他模块发起对战
func (m *BattleModule) setupRPCMethods() {
	m.GetServer().RegisterGO("ResolveBattle", m.battleRPCHandler.ResolveBattle)
	m.logger.Info("[Battle Module] RPC methods registered", log.String("methods", "ResolveBattle"))
}

// startCronTasks starts cron scheduled tasks
func (m *BattleModule) startCronTasks() {
	m.purgeTask = tasks.NewPurgeTask(m.serviceContainer.GetBattleService(), m.cfg.PurgeSchedule, m.cfg.PurgeRetentionDays, m.logger)
	if err := m.purgeTask.Start(); err != nil {
		m.logger.Error("[Battle Module] 对战记录清理任务启动失败", err)
		m.purgeTask = nil
	}
}

// startMonitoring 启动 NATS 健康检查和连接池监控
func (m *BattleModule) startMonitoring() {
	ctx, cancel := context.WithCancel(context.Background())
	m.stopMonitoring = cancel

	m.natsChecker = natsHealth.NewHealthChecker(notify.Conn(), 10*time.Second)
	m.natsChecker.OnChange(func(healthy bool) {
		if healthy {
			m.logger.Info("[Battle Module] NATS 连接已恢复")
		} else {
			m.logger.Warn("[Battle Module] NATS 连接断开，对战事件将不会投递")
		}
	})
	go m.natsChecker.Start(ctx)

	go m.startPoolMonitoring(ctx)
}

// startPoolMonitoring 每 30 秒上报一次数据库和 Redis 连接池状态
func (m *BattleModule) startPoolMonitoring(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.DefaultResourceMetrics.RecordSQLDBStats(metrics.GetServiceName(), "postgres", m.db.Stats())
			if m.redis != nil {
				m.redis.RecordPoolStats()
			}
		}
	}
}

// startHTTPServer starts HTTP server
func (m *BattleModule) startHTTPServer() {
	addr := m.cfg.HTTPAddress()
	m.logger.Info("[Battle Module] Starting HTTP server", log.String("address", addr))

	if err := m.httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		m.logger.Error("[Battle Module] HTTP server error", err)
	}
}

// Run module run
func (m *BattleModule) Run(closeSig chan bool) {
	m.logger.Info("[Battle Module] Started successfully")
	<-closeSig
}

// OnDestroy module destroy
func (m *BattleModule) OnDestroy() {
	if m.purgeTask != nil {
		m.purgeTask.Stop()
	}
	if m.stopMonitoring != nil {
		m.stopMonitoring()
	}
	if m.natsChecker != nil {
		m.natsChecker.Stop()
	}

	// 先停止接收请求，再关闭依赖
	if m.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
		if err := m.httpServer.Shutdown(ctx); err != nil {
			m.logger.Error("[Battle Module] Failed to shutdown HTTP server", err)
		} else {
			m.logger.Info("[Battle Module] HTTP server closed")
		}
		cancel()
	}

	if m.redis != nil {
		if err := m.redis.Close(); err != nil {
			m.logger.Error("[Battle Module] Failed to close Redis", err)
		}
	}

	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.logger.Error("[Battle Module] Failed to close database", err)
		} else {
			m.logger.Info("[Battle Module] Database connection closed")
		}
	}

	m.BaseModule.OnDestroy()
	m.logger.Info("[Battle Module] Destroyed")
}

// Module creates Battle module instance
func Module() module.Module {
	return new(BattleModule)
}
