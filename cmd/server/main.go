package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/vereinhub/backend/internal/application/identity"
	membershipapp "github.com/vereinhub/backend/internal/application/membership"
	"github.com/vereinhub/backend/internal/infrastructure/auth"
	"github.com/vereinhub/backend/internal/infrastructure/cache"
	"github.com/vereinhub/backend/internal/infrastructure/config"
	"github.com/vereinhub/backend/internal/infrastructure/event"
	"github.com/vereinhub/backend/internal/infrastructure/logger"
	"github.com/vereinhub/backend/internal/infrastructure/persistence"
	"github.com/vereinhub/backend/internal/interfaces/http/handler"
	"github.com/vereinhub/backend/internal/interfaces/http/middleware"
	"github.com/vereinhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting VereinHub backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	requestRepo := persistence.NewGormMembershipRequestRepository(db.DB)
	voteRepo := persistence.NewGormBoardVoteRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	ownershipRepo := persistence.NewGormOwnershipRepository(db.DB)

	// Event bus for domain events. The audit handler subscribes as a
	// wildcard and writes the governance audit trail to the log.
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	// Token infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable for token blacklist, using in-memory fallback", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Idempotency store for membership request submissions
	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	deletionService := identityapp.NewDeletionService(userRepo, ownershipRepo, log)
	deletionService.SetEventPublisher(eventBus)

	requestService := membershipapp.NewRequestService(requestRepo, voteRepo, memberRepo, userRepo)
	requestService.SetIdempotencyStore(idempotencyStore)
	requestService.SetEventPublisher(eventBus)
	requestService.SetPolicy(membershipapp.Policy{
		QuorumFraction: cfg.Membership.QuorumFraction,
		AutoFinalize:   cfg.Membership.AutoFinalize,
		IdempotencyTTL: cfg.Membership.IdempotencyTTL,
	})
	votingService := membershipapp.NewVotingService(requestRepo, voteRepo, userRepo, requestService)
	memberService := membershipapp.NewMemberService(memberRepo)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService, deletionService)
	requestHandler := handler.NewMembershipRequestHandler(requestService)
	voteHandler := handler.NewVoteHandler(votingService)
	memberHandler := handler.NewMemberHandler(memberService)
	systemHandler := handler.NewSystemHandler()

	// Gin setup
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", healthHandler(db, log))

	// Public membership intake. Applicants submit without an account, so
	// the route is registered before the JWT middleware takes effect.
	engine.POST("/api/v1/membership/requests", requestHandler.Submit)

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
		},
		Logger: log,
	}))

	authGroup := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authGroup.Use(middleware.RateLimit(authLimiter))
	}
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.RefreshToken)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.GetCurrentUser)
	authGroup.PUT("/password", authHandler.ChangePassword)

	userGroup := router.NewDomainGroup("users", "/users")
	userGroup.POST("", userHandler.Create)
	userGroup.GET("", userHandler.List)
	userGroup.GET("/count", userHandler.Count)
	userGroup.GET("/:id", userHandler.GetByID)
	userGroup.POST("/:id/activate", userHandler.Activate)
	userGroup.POST("/:id/deactivate", userHandler.Deactivate)
	userGroup.PUT("/:id/roles", userHandler.AssignRoles)
	userGroup.POST("/:id/reset-password", userHandler.ResetPassword)
	userGroup.GET("/:id/owned-content", userHandler.GetOwnedContent)
	userGroup.DELETE("/:id", userHandler.Delete)

	membershipGroup := router.NewDomainGroup("membership", "/membership")
	membershipGroup.GET("/requests", requestHandler.List)
	membershipGroup.GET("/requests/:id", requestHandler.GetByID)
	membershipGroup.GET("/requests/number/:number", requestHandler.GetByNumber)
	membershipGroup.PATCH("/requests/:id/status", requestHandler.UpdateStatus)
	membershipGroup.PUT("/requests/:id/votes", voteHandler.CastVote)
	membershipGroup.GET("/requests/:id/votes", voteHandler.ListVotes)
	membershipGroup.GET("/requests/:id/tally", voteHandler.GetTally)

	memberGroup := router.NewDomainGroup("members", "/members")
	memberGroup.GET("", memberHandler.List)
	memberGroup.GET("/:id", memberHandler.GetByID)
	memberGroup.GET("/number/:number", memberHandler.GetByNumber)
	memberGroup.POST("/:id/resign", memberHandler.Resign)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.GET("/info", systemHandler.GetSystemInfo)
	systemGroup.GET("/ping", systemHandler.Ping)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(authGroup).
		Register(userGroup).
		Register(membershipGroup).
		Register(memberGroup).
		Register(systemGroup)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// healthHandler reports process and database health for load balancers.
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		body := gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		if stats, err := db.Stats(); err == nil {
			body["database"] = gin.H{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
