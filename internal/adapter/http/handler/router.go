package handler

import (
	"casino-round-engine/config"
	"casino-round-engine/internal/adapter/http/middleware"
	redisStore "casino-round-engine/internal/adapter/storage/redis"
	"casino-round-engine/internal/adapter/ws"
	"casino-round-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WalletSvc      ports.WalletService
	SessionSvc     ports.SessionService
	AutoplaySvc    ports.AutoplayService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	Games          config.GamesConfig
	Hub            *ws.Hub                    // nil = WebSocket push disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.WalletSvc)
	statsHandler := NewStatsHandler(deps.ReportingSvc)
	gameHandler := NewGameHandler(deps.SessionSvc, deps.AutoplaySvc, deps.ReportingSvc, deps.Games)

	players := v1.Group("/players", jwtAuth)
	{
		players.GET("/me", rl("reads"), authHandler.Me)
	}

	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.GET("/balance", rl("reads"), walletHandler.GetBalance)
		wallets.POST("/deposit", rl("wallet"), walletHandler.Deposit)
		wallets.POST("/withdraw", rl("wallet"), walletHandler.Withdraw)
		wallets.GET("/reconcile", rl("reads"), statsHandler.Reconcile)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.GET("", rl("reads"), statsHandler.ListTransactions)
	}

	stats := v1.Group("/stats", jwtAuth)
	{
		stats.GET("", rl("reads"), statsHandler.GetStats)
	}

	// Round-by-id and autoplay-by-id live outside /games so no static
	// segment shares a tree position with the :game wildcard.
	games := v1.Group("/games", jwtAuth)
	{
		games.POST("/:game/rounds", rl("bets"), gameHandler.StartRound)
		games.GET("/:game/history", rl("reads"), gameHandler.GetHistory)
		games.GET("/:game/config", rl("reads"), gameHandler.GetConfig)
		games.POST("/:game/autoplay", rl("bets"), gameHandler.StartAutoplay)
	}

	rounds := v1.Group("/rounds", jwtAuth)
	{
		rounds.POST("/:id/action", rl("bets"), gameHandler.Action)
		rounds.GET("/:id", rl("reads"), gameHandler.GetRound)
	}

	autoplay := v1.Group("/autoplay", jwtAuth)
	{
		autoplay.GET("/:id", rl("reads"), gameHandler.GetAutoplay)
		autoplay.DELETE("/:id", rl("bets"), gameHandler.StopAutoplay)
	}

	// --- WebSocket push channel ---
	if deps.Hub != nil {
		v1.GET("/ws", jwtAuth, ws.ServeWS(deps.Hub, deps.Logger))
	}

	return r
}
