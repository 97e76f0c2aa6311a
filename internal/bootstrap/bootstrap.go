package bootstrap

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yigit/campusdesk/internal/app/client"
	appControllers "github.com/yigit/campusdesk/internal/app/controllers"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	appRoutes "github.com/yigit/campusdesk/internal/app/routes"
	"github.com/yigit/campusdesk/internal/app/store"
	"github.com/yigit/campusdesk/internal/app/views"
	"github.com/yigit/campusdesk/internal/config"
	appMiddleware "github.com/yigit/campusdesk/internal/middleware"
	pkgAuth "github.com/yigit/campusdesk/internal/pkg/auth"
	"github.com/yigit/campusdesk/internal/pkg/logger"
	"github.com/yigit/campusdesk/internal/pkg/validation"
	"github.com/yigit/campusdesk/internal/pkg/websocket"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Client         *client.Client
	Sessions       *store.Registry
	Validator      *validator.Validate
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Hub            *websocket.Hub
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// BuildDependencies initializes the backend client, the session stores and the controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	backend, err := client.New(client.Config{
		BaseURL:      cfg.Backend.BaseURL,
		Timeout:      cfg.BackendTimeout(),
		ServiceToken: cfg.Backend.ServiceToken,
	}, logger.Component(lgr, "backend"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create backend client")
		return nil, err
	}
	deps.Client = backend

	deps.Validator = validation.New(models.RefTypes...)

	// dashboards re-render from the change feed
	deps.Hub = websocket.NewHub(logger.Component(lgr, "live"))

	// every signed-in identity gets its own cache; the backend scopes reads by token
	deps.Sessions = store.NewRegistry(func(owner string) *store.Stores {
		stores := store.New(backend, deps.Validator, lgr.With().Str("session", owner).Logger())
		stores.Watch(func(state dto.CollectionState) {
			deps.Hub.Publish(owner, state)
		})
		return stores
	}, store.RegistryConfig{
		MaxSessions:   cfg.Cache.MaxSessions,
		IdleTTL:       cfg.SessionTTL(),
		WarmUp:        cfg.Cache.WarmSessions,
		WarmUpTimeout: cfg.BackendTimeout(),
	}, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	if !deps.JWTService.Verifies() {
		lgr.Warn().Msg("No JWT secret configured; unsigned session tokens are confirmed with the backend")
	}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService,
		appMiddleware.WithSessionCheck(backend, cfg.SessionCheckTTL()),
	)

	deps.Controllers = buildControllers(deps, cfg.Cache.Locale)
	return deps, nil
}

// buildControllers wires one controller per collection plus the derived views
func buildControllers(deps *Dependencies, locale string) appRoutes.Controllers {
	sessions := deps.Sessions

	collections := map[string]appRoutes.CollectionHandlers{
		store.ResourceCourses: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Course] { return s.Academic.Courses },
			views.CourseSchema, locale,
		),
		store.ResourceModules: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Module] { return s.Academic.Modules },
			views.ModuleSchema, locale,
			appControllers.WithUpdate(func(s *store.Stores, ctx context.Context, id string, m models.Module) store.Result[models.Module] {
				return s.Academic.UpdateModule(ctx, id, m)
			}),
		),
		store.ResourceLecturers: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Lecturer] { return s.Academic.Lecturers },
			views.LecturerSchema, locale,
			appControllers.WithCreate(func(s *store.Stores, ctx context.Context, l models.Lecturer) store.Result[models.Lecturer] {
				return s.Academic.CreateLecturer(ctx, l)
			}),
			appControllers.WithUpdate(func(s *store.Stores, ctx context.Context, id string, l models.Lecturer) store.Result[models.Lecturer] {
				return s.Academic.UpdateLecturer(ctx, id, l)
			}),
		),
		store.ResourceStudents: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Student] { return s.Academic.Students },
			views.StudentSchema, locale,
		),
		store.ResourceIntakeCourses: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.IntakeCourse] { return s.Academic.IntakeCourses },
			views.IntakeCourseSchema, locale,
		),
		store.ResourceIntakes: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Intake] { return s.Academic.Intakes },
			views.IntakeSchema, locale,
		),
		store.ResourceDepartments: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Department] { return s.Academic.Departments },
			views.DepartmentSchema, locale,
		),
		store.ResourceUsers: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.User] { return s.Users.Users },
			views.UserSchema, locale,
			appControllers.WithCreate(func(s *store.Stores, ctx context.Context, u models.User) store.Result[models.User] {
				return s.Users.CreateUser(ctx, u)
			}),
		),
		store.ResourceResources: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Resource] { return s.Facilities.Resources },
			views.ResourceSchema, locale,
		),
		store.ResourceBookings: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Booking] { return s.Facilities.Bookings },
			views.BookingSchema, locale,
			appControllers.WithCreate(func(s *store.Stores, ctx context.Context, b models.Booking) store.Result[models.Booking] {
				return s.Facilities.CreateBooking(ctx, b)
			}),
		),
		store.ResourceBilling: appControllers.NewCollectionController(sessions,
			func(s *store.Stores) *store.Collection[models.Billing] { return s.Billing.Billing },
			views.BillingSchema, locale,
		),
	}

	return appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.Client, logger.Component(deps.Logger, "auth")),
		Academic:    appControllers.NewAcademicController(sessions, deps.Validator),
		Users:       appControllers.NewUserController(sessions, deps.Validator),
		Facility:    appControllers.NewFacilityController(sessions, deps.Validator),
		Billing:     appControllers.NewBillingController(sessions),
		Cache:       appControllers.NewCacheController(sessions),
		Live:        websocket.NewHandler(deps.Hub, logger.Component(deps.Logger, "live")),
		Collections: collections,
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger(logger.Component(lgr, "http")))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
