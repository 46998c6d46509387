package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"skillswap_backend/database"
	"skillswap_backend/internal/auth"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/handlers"
	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/middleware"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/routes"
	"skillswap_backend/internal/services"
	"skillswap_backend/internal/skilltest"
	"skillswap_backend/internal/validator"
	"skillswap_backend/internal/workers"
	"skillswap_backend/pkg/apperrors"
	"skillswap_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN, !cfg.IsProduction())
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter, err := SetupRouter(ctx, cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	workers.NewNotificationWorker(
		gormDB,
		repositories.NewNotificationRepository(),
		time.Duration(cfg.Notifications.RetentionDays)*24*time.Hour,
		time.Duration(cfg.Notifications.CleanupInterval)*time.Minute,
	).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	_ = sqlDB.Close()
}

// SetupRouter wires repositories, services and handlers onto a new gin engine.
// Background pieces (websocket hub, redis client) live until ctx is cancelled.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, error) {
	apperrors.SetDebug(!cfg.IsProduction())

	bank, err := skilltest.DefaultBank()
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	catalog := cfg.Skills.Catalog
	if len(catalog) == 0 {
		catalog = bank.Skills()
	}
	if err := database.SeedSkills(gormDB.WithContext(ctx), catalog); err != nil {
		return nil, err
	}

	sessions, err := newSessionStore(ctx, cfg, bank)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	wsManager := ws.NewWebSocketManager(gormDB)
	go wsManager.Run(ctx)

	serviceContainer := initializeServices(cfg, tokens, bank, sessions, wsManager)
	wsManager.UseChatService(serviceContainer.ChatService)

	appHandlers := initializeHandlers(cfg, serviceContainer, tokens, wsManager)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, bank *skilltest.Bank) (skilltest.SessionStore, error) {
	grace := time.Duration(cfg.Tests.GraceSeconds) * time.Second

	switch cfg.Tests.SessionStore {
	case config.SessionStoreRedis:
		store, err := skilltest.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, grace)
		if err != nil {
			return nil, fmt.Errorf("connect test session store: %w", err)
		}
		go func() {
			<-ctx.Done()
			_ = store.Close()
		}()
		logger.Info("Skill test sessions stored in redis", "addr", cfg.Redis.Addr)
		return store, nil
	default:
		logger.Info("Skill test sessions use signed tokens")
		return skilltest.NewSignedCodec(cfg.Tests.SessionSecret, bank, grace), nil
	}
}

func initializeServices(
	cfg *config.Config,
	tokens *auth.TokenManager,
	bank *skilltest.Bank,
	sessions skilltest.SessionStore,
	broadcaster services.Broadcaster,
) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	skillRepo := repositories.NewSkillRepository()
	videoRepo := repositories.NewVideoRepository()
	testRepo := repositories.NewSkillTestRepository()
	notificationRepo := repositories.NewNotificationRepository()
	chatRepo := repositories.NewChatRepository()

	notificationService := services.NewNotificationService(notificationRepo, broadcaster)
	engine := skilltest.NewEngine(bank, nil)
	grace := time.Duration(cfg.Tests.GraceSeconds) * time.Second

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo, tokens),
		UserService:         services.NewUserService(userRepo, skillRepo, videoRepo),
		TokenService:        services.NewTokenService(userRepo, videoRepo, notificationService),
		RatingService:       services.NewRatingService(userRepo, videoRepo, notificationService),
		SkillTestService:    services.NewSkillTestService(engine, sessions, grace, testRepo, userRepo, notificationService),
		MatchingService:     services.NewMatchingService(userRepo, notificationService),
		NotificationService: notificationService,
		ChatService:         services.NewChatService(chatRepo, userRepo, notificationService, broadcaster),
		AssistantService:    services.NewAssistantService(),
	}
}

func initializeHandlers(
	cfg *config.Config,
	svc *services.ServiceContainer,
	tokens *auth.TokenManager,
	wsManager *ws.WebSocketManager,
) *handlers.AppHandlers {
	requireAuth := middleware.AuthMiddleware(tokens)
	baseHandler := handlers.NewBaseHandler(validator.New(), requireAuth)

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, svc.AuthService, cfg.IsProduction()),
		UserHandler:      handlers.NewUserHandler(baseHandler, svc.UserService, svc.TokenService, svc.RatingService, svc.NotificationService),
		SkillTestHandler: handlers.NewSkillTestHandler(baseHandler, svc.SkillTestService),
		MatchingHandler:  handlers.NewMatchingHandler(baseHandler, svc.MatchingService),
		ChatHandler:      handlers.NewChatHandler(baseHandler, svc.ChatService),
		UtilHandler:      handlers.NewUtilHandler(baseHandler, svc.UserService, svc.AssistantService),
		WSHandler:        ws.NewWebSocketHandler(wsManager, requireAuth, allowedOrigins(cfg)),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.FrontendURL))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func allowedOrigins(cfg *config.Config) []string {
	if !cfg.IsProduction() || cfg.Server.FrontendURL == "" {
		return nil
	}
	return []string{cfg.Server.FrontendURL}
}
