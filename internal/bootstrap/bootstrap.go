package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/timetable/internal/app/controllers"
	appMigrations "github.com/yigit/timetable/internal/app/migrations"
	appRepos "github.com/yigit/timetable/internal/app/repositories"
	"github.com/yigit/timetable/internal/app/repositories/memory"
	"github.com/yigit/timetable/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/timetable/internal/app/routes"
	appServices "github.com/yigit/timetable/internal/app/services"
	"github.com/yigit/timetable/internal/config"
	"github.com/yigit/timetable/internal/db"
	appMiddleware "github.com/yigit/timetable/internal/middleware"
	pkgAuth "github.com/yigit/timetable/internal/pkg/auth"
	"github.com/yigit/timetable/internal/pkg/cache"
	"github.com/yigit/timetable/internal/pkg/helpers"
	"github.com/yigit/timetable/internal/pkg/logger"
	"github.com/yigit/timetable/internal/pkg/validation"
	"github.com/yigit/timetable/internal/pkg/websocket"
	"github.com/yigit/timetable/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store    appRepos.Store
	Cache    cache.Cache
	Hub      *websocket.Hub
	Notifier *appServices.ScheduleNotifier

	UserService       *appServices.UserService
	TermService       *appServices.TermService
	ClassService      *appServices.ClassService
	CourseService     *appServices.CourseService
	EnrollmentService *appServices.EnrollmentService
	ConflictService   *appServices.ConflictService
	ScheduleService   *appServices.ScheduleService
	ExportService     *appServices.ExportService

	ScheduleController *appControllers.ScheduleController
	TermController     *appControllers.TermController
	CourseController   *appControllers.CourseController
	ClassController    *appControllers.ClassController
	UserController     *appControllers.UserController
	WSHandler          *websocket.Handler

	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger

	// Closers release resources in reverse order of acquisition
	Closers []func()
}

// Close releases every resource acquired while building the dependencies
func (d *Dependencies) Close() {
	for i := len(d.Closers) - 1; i >= 0; i-- {
		d.Closers[i]()
	}
	d.Closers = nil
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured storage backend and runs migrations.
// The returned func closes it.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory storage, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Migrate(ctx); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return postgres.NewStore(database), database.Close, nil
}

// SetupCache connects to Redis when enabled. Without Redis, the memory
// store gets a process-local cache and PostgreSQL is read directly.
func SetupCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (cache.Cache, func()) {
	if !cfg.Redis.Enabled {
		if cfg.Database.Driver == config.DriverMemory {
			return cache.NewMemory(), func() {}
		}
		return cache.Noop{}, func() {}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := cache.Connect(connectCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, schedule cache disabled")
		return cache.Noop{}, func() {}
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Schedule cache connected to Redis")
	ttl := helpers.ParseDuration(cfg.Redis.TTL, 5*time.Minute)
	return cache.NewRedis(client, ttl), func() { _ = client.Close() }
}

// BuildDependencies initializes the store, services and controllers. The
// WebSocket hub runs until ctx is done.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	store, closeStore, err := SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps.Store = store
	deps.Closers = append(deps.Closers, closeStore)

	var closeCache func()
	deps.Cache, closeCache = SetupCache(ctx, cfg, lgr)
	deps.Closers = append(deps.Closers, closeCache)

	deps.Hub = websocket.NewHub(lgr.With().Str("component", "hub").Logger())
	go deps.Hub.Run(ctx)

	deps.Notifier = appServices.NewScheduleNotifier(deps.Cache, deps.Hub, lgr)

	deps.UserService = appServices.NewUserService(store, lgr)
	deps.TermService = appServices.NewTermService(store, deps.Notifier, lgr)
	deps.ClassService = appServices.NewClassService(store, lgr)
	deps.CourseService = appServices.NewCourseService(store, deps.Notifier, lgr)
	deps.EnrollmentService = appServices.NewEnrollmentService(store, deps.Notifier, lgr)
	deps.ConflictService = appServices.NewConflictService(store, lgr)
	deps.ScheduleService = appServices.NewScheduleService(store, deps.Cache, deps.Notifier, lgr)
	deps.ExportService = appServices.NewExportService(deps.ScheduleService, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.ScheduleController = appControllers.NewScheduleController(deps.ScheduleService, deps.ConflictService, deps.ExportService)
	deps.TermController = appControllers.NewTermController(deps.TermService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.EnrollmentService)
	deps.ClassController = appControllers.NewClassController(deps.ClassService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr)

	if cfg.Seed.Enabled {
		err := seed.CreateDefaultData(ctx, seed.Services{
			Users:      deps.UserService,
			Terms:      deps.TermService,
			Classes:    deps.ClassService,
			Courses:    deps.CourseService,
			Enrollment: deps.EnrollmentService,
			Schedules:  deps.ScheduleService,
		}, deps.JWTService, lgr)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.CORS(cfg.Server.AllowedOrigins...))

	appRoutes.SetupRouter(router,
		deps.ScheduleController,
		deps.TermController,
		deps.CourseController,
		deps.ClassController,
		deps.UserController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router, nil
}
