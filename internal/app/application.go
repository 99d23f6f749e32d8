package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"udacitrivia/internal/background"
	"udacitrivia/internal/config"
	"udacitrivia/internal/handlers"
	"udacitrivia/internal/middleware"
	"udacitrivia/internal/models"
	"udacitrivia/internal/repository"
	"udacitrivia/internal/seed"
	"udacitrivia/internal/service"
	"udacitrivia/pkg/cache"
	"udacitrivia/pkg/logger"
	"udacitrivia/pkg/navigation"
	"udacitrivia/pkg/utils"
	"udacitrivia/web"
)

type Application struct {
	cfg *config.Config

	db          *gorm.DB
	cache       *cache.Cache
	rateLimiter *middleware.RateLimitManager
	scheduler   *background.Scheduler
	stopJobs    context.CancelFunc

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	templateHandler *handlers.TemplateHandler
	router          *gin.Engine
	server          *http.Server
}

type repositoryContainer struct {
	Category repository.CategoryRepository
	Question repository.QuestionRepository
}

type serviceContainer struct {
	Category *service.CategoryService
	Question *service.QuestionService
	Quiz     *service.QuizService
}

type handlerContainer struct {
	Category   *handlers.CategoryHandler
	Question   *handlers.QuestionHandler
	Quiz       *handlers.QuizHandler
	Navigation *handlers.NavigationHandler
}

// New connects to the configured database and wires the application.
func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	return NewWithDatabase(cfg, db)
}

// NewWithDatabase wires the application on an already opened database.
func NewWithDatabase(cfg *config.Config, db *gorm.DB) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	app := &Application{
		cfg: cfg,
		db:  db,
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	app.initCache()
	app.initRepositories()
	app.initServices()

	if cfg.SeedCategories {
		seed.EnsureDefaultCategories(app.services.Category)
	}

	if err := app.initHandlers(); err != nil {
		return nil, err
	}

	if err := app.initRouter(); err != nil {
		return nil, err
	}
	app.startBackgroundJobs()

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
		_ = a.rateLimiter.Shutdown()
	}

	if a.stopJobs != nil {
		a.stopJobs()
	}
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Background jobs did not stop in time", nil)
		}
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

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.UseSQLite() {
		logger.Info("Opening SQLite database", map[string]interface{}{"path": cfg.SQLitePath})
		dialector = sqlite.Open(cfg.SQLitePath)
	} else {
		logger.Info("Connecting to database", map[string]interface{}{"host": cfg.DBHost, "name": cfg.DBName})
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.UseSQLite() {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

func (a *Application) runMigrations() error {
	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.Category{},
		&models.Question{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) initCache() {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		logger.Error(err, "Redis unavailable, continuing without cache", map[string]interface{}{"addr": a.cfg.RedisURL})
		c, _ = cache.NewCache("", false)
	}
	a.cache = c
}

// startBackgroundJobs warms the category cache at startup and then once per
// CacheWarmupInterval minutes, ahead of the cache TTL.
func (a *Application) startBackgroundJobs() {
	if !a.cache.Enabled() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.stopJobs = cancel

	a.scheduler = background.NewScheduler(background.SchedulerConfig{WorkerCount: 1})
	a.scheduler.Start(ctx)

	warm := background.Job{
		Name:        "category-cache-warmup",
		Run:         a.services.Category.WarmCache,
		Timeout:     10 * time.Second,
		RetryPolicy: background.RetryPolicy{MaxRetries: 3, Backoff: 5 * time.Second},
	}
	a.scheduleWarmup(warm)

	if a.cfg.CacheWarmupInterval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(time.Duration(a.cfg.CacheWarmupInterval) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.scheduleWarmup(warm)
			}
		}
	}()
}

func (a *Application) scheduleWarmup(job background.Job) {
	err := a.scheduler.ScheduleUnique(job)
	if err != nil && !errors.Is(err, background.ErrJobAlreadyScheduled) {
		logger.Error(err, "Failed to schedule background job", map[string]interface{}{"job": job.Name})
	}
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		Category: repository.NewCategoryRepository(a.db),
		Question: repository.NewQuestionRepository(a.db),
	}
}

func (a *Application) initServices() {
	a.services = serviceContainer{
		Category: service.NewCategoryService(a.repositories.Category, a.cache),
		Question: service.NewQuestionService(a.repositories.Question, a.repositories.Category),
		Quiz:     service.NewQuizService(a.repositories.Question, a.repositories.Category),
	}
}

func (a *Application) initHandlers() error {
	header := navigation.NewHeader()
	origins, err := navigation.NewOriginResolver(a.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to configure trusted proxies: %w", err)
	}

	a.handlers = handlerContainer{
		Category:   handlers.NewCategoryHandler(a.services.Category, a.services.Question),
		Question:   handlers.NewQuestionHandler(a.services.Question, a.services.Category),
		Quiz:       handlers.NewQuizHandler(a.services.Quiz),
		Navigation: handlers.NewNavigationHandler(header, origins),
	}

	templates, err := utils.LoadTemplates(web.Templates())
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	logger.Info("Templates loaded successfully", nil)

	templateHandler, err := handlers.NewTemplateHandler(
		a.services.Question,
		a.services.Category,
		a.services.Quiz,
		a.cfg,
		templates,
		header,
		origins,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize template handler: %w", err)
	}

	a.templateHandler = templateHandler
	return nil
}

func (a *Application) initRouter() error {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.rateLimiter = middleware.NewRateLimitManager(context.Background())

	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(a.cfg.TrustedProxies); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	router.Use(middleware.SecurityHeadersMiddleware())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.RateLimitMiddleware(a.rateLimiter, a.cfg))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.StaticFS("/static", http.FS(web.Static()))

	router.GET("/", a.templateHandler.RenderIndex)
	router.GET("/add", a.templateHandler.RenderAdd)
	router.POST("/add", a.templateHandler.SubmitAdd)
	router.GET("/play", a.templateHandler.RenderPlay)
	router.POST("/play", a.templateHandler.SubmitPlay)
	router.POST("/questions/:id/delete", a.templateHandler.DeleteQuestion)
	router.GET("/nav/:label", a.handlers.Navigation.Navigate)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/navigation", a.handlers.Navigation.List)

		v1.GET("/categories", a.handlers.Category.GetAll)
		v1.GET("/categories/:id/questions", a.handlers.Category.GetQuestions)

		v1.GET("/questions", a.handlers.Question.GetAll)
		v1.POST("/questions", a.handlers.Question.Post)
		v1.DELETE("/questions/:id", a.handlers.Question.Delete)

		v1.POST("/quizzes", a.handlers.Quiz.Next)
	}

	router.NoRoute(func(c *gin.Context) {
		if isAPIRequest(c.Request) {
			handlers.NoRoute(c)
			return
		}
		a.templateHandler.NoRoute(c)
	})

	router.NoMethod(func(c *gin.Context) {
		if isAPIRequest(c.Request) {
			handlers.NoMethod(c)
			return
		}
		c.String(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	a.router = router
	return nil
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
