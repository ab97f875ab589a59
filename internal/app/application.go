package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cater-menu-backend/internal/config"
	"cater-menu-backend/internal/handlers"
	"cater-menu-backend/internal/middleware"
	"cater-menu-backend/internal/models"
	"cater-menu-backend/internal/repository"
	"cater-menu-backend/internal/service"
	"cater-menu-backend/pkg/cache"
	"cater-menu-backend/pkg/logger"
	"cater-menu-backend/pkg/validator"
)

type Application struct {
	cfg *config.Config

	db            *gorm.DB
	cache         *cache.Cache
	rateLimiter   *middleware.RateLimitManager
	menuValidator *validator.MenuValidator

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	Event  repository.EventRepository
	User   repository.UserRepository
	Upload repository.UploadRepository
}

type serviceContainer struct {
	Event  *service.EventService
	Auth   *service.AuthService
	Upload *service.UploadService
}

type handlerContainer struct {
	Menu   *handlers.MenuHandler
	Auth   *handlers.AuthHandler
	Admin  *handlers.AdminHandler
	Upload *handlers.UploadHandler
	Health *handlers.HealthHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.initRepositories()
	app.initServices()

	if err := app.services.Auth.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("failed to ensure admin account: %w", err)
	}

	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.MenuEvent{},
		&models.MenuItem{},
		&models.AdminUser{},
		&models.MenuUpload{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_menu_events_date ON menu_events(event_date_iso)",
		"CREATE INDEX IF NOT EXISTS idx_menu_items_event ON menu_items(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_menu_uploads_processed ON menu_uploads(processed_at DESC)",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() error {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		// The catalog cache is an optimization; a dead Redis is degraded
		// service, not downtime.
		logger.Error(err, "Cache unavailable, continuing without it", nil)
		c, _ = cache.NewCache("", false)
	}
	a.cache = c
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		Event:  repository.NewEventRepository(a.db),
		User:   repository.NewUserRepository(a.db),
		Upload: repository.NewUploadRepository(a.db),
	}
}

func (a *Application) initServices() {
	menuValidator := validator.New(validator.Options{
		RecognizedPreferences: a.cfg.RecognizedPreferences,
		DateWindowDays:        a.cfg.EventDateWindowDays,
	})

	eventService := service.NewEventService(a.repositories.Event, a.cache, menuValidator)

	a.services = serviceContainer{
		Event:  eventService,
		Auth:   service.NewAuthService(a.repositories.User, menuValidator, a.cfg.JWTSecret),
		Upload: service.NewUploadService(eventService, a.repositories.Upload, a.cfg.PDFParserCommand),
	}

	a.menuValidator = menuValidator
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Menu:   handlers.NewMenuHandler(a.services.Event, a.menuValidator),
		Auth:   handlers.NewAuthHandler(a.services.Auth),
		Admin:  handlers.NewAdminHandler(a.services.Event),
		Upload: handlers.NewUploadHandler(a.services.Upload, a.cfg.UploadDir, a.cfg.MaxUploadSize),
		Health: handlers.NewHealthHandler(a.db, a.cache),
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.rateLimiter = middleware.NewRateLimitManager()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	router.Use(middleware.SecurityHeadersMiddleware())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.RateLimitMiddleware(a.cfg, a.rateLimiter))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.handlers.Health.Health)
	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/events", a.handlers.Menu.ListEvents)
		api.GET("/events/previous", a.handlers.Menu.ListPreviousEvents)
		api.GET("/cuisines", a.handlers.Menu.ListCuisines)
		api.GET("/menu/:date/:slug", a.handlers.Menu.GetMenu)

		admin := api.Group("/admin")
		admin.POST("/login", a.handlers.Auth.Login)

		protected := admin.Group("")
		protected.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		{
			protected.POST("/events", a.handlers.Admin.CreateEvent)
			protected.PUT("/events/:id", a.handlers.Admin.UpdateEvent)
			protected.DELETE("/events/:id", a.handlers.Admin.DeleteEvent)
			protected.POST("/upload-menu", a.handlers.Upload.UploadMenu)
			protected.GET("/uploads", a.handlers.Upload.ListUploads)
		}
	}

	a.router = router
}
