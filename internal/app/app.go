package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roamstay/server/internal/module/auth"
	"github.com/roamstay/server/internal/module/hotel"
	"github.com/roamstay/server/internal/module/notification"
	"github.com/roamstay/server/internal/module/payment"
	paymentprovider "github.com/roamstay/server/internal/module/payment/provider"
	"github.com/roamstay/server/internal/module/reservation"
	"github.com/roamstay/server/internal/module/review"
	"github.com/roamstay/server/internal/module/user"
	sharedcache "github.com/roamstay/server/internal/shared/cache"
	"github.com/roamstay/server/internal/shared/config"
	"github.com/roamstay/server/internal/shared/database"
	"github.com/roamstay/server/internal/shared/events"
	"github.com/roamstay/server/internal/shared/logger"
	"github.com/roamstay/server/internal/shared/metrics"
	"github.com/roamstay/server/internal/shared/middleware"
)

// App wires configuration, storage, modules and routes together.
type App struct {
	config *config.Config
	db     *gorm.DB
	redis  redis.UniversalClient
	router *gin.Engine
	logger *zap.Logger

	eventBus *events.Bus
	metrics  *metrics.Metrics

	rateLimiter *sharedcache.RateLimiter
	jwtManager  *auth.JWTManager

	// Services for cross-module dependencies
	userRepo           user.Repository
	userService        *user.Service
	hotelService       *hotel.Service
	reservationService *reservation.Service
	paymentService     *payment.Service
	reviewService      *review.Service

	userHandler        *user.Handler
	hotelHandler       *hotel.Handler
	reservationHandler *reservation.Handler
	paymentHandler     *payment.Handler
	webhookHandler     *payment.WebhookHandler
	reviewHandler      *review.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New("roamstay"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := app.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Redis is optional: rate limiting and idempotency caching degrade
	// to no-ops without it.
	if cfg.Redis.Address != "" {
		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("redis connection failed, continuing without it", zap.Error(err))
		} else {
			app.redis = redisClient
			app.rateLimiter = sharedcache.NewRateLimiter(redisClient)
		}
	}

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

// migrate applies the schema for all module models.
func (a *App) migrate() error {
	return a.db.AutoMigrate(
		&user.User{},
		&hotel.Hotel{},
		&hotel.RoomType{},
		&hotel.Amenity{},
		&hotel.Package{},
		&hotel.HotelImage{},
		&reservation.Reservation{},
		&review.Review{},
		&payment.Payment{},
		&payment.BillingAddress{},
		&payment.WebhookEvent{},
	)
}

// initModules initializes all application modules.
func (a *App) initModules() error {
	a.eventBus = events.NewBus(a.logger)

	a.jwtManager = auth.NewJWTManager(&auth.JWTConfig{
		Secret:            a.config.Auth.JWTSecret,
		AccessTokenExpiry: a.config.Auth.AccessTokenExpiry,
		Issuer:            a.config.Auth.Issuer,
	})

	// user
	a.userRepo = user.NewRepository(a.db)
	a.userService = user.NewService(a.userRepo, a.jwtManager, a.metrics, a.logger)
	a.userHandler = user.NewHandler(a.userService)

	// hotel catalog, with optional object storage for images
	var imageStorage hotel.ObjectStorage
	if a.config.Storage.Bucket != "" {
		storage, err := hotel.NewS3Storage(&a.config.Storage)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		imageStorage = storage
	} else {
		a.logger.Warn("object storage not configured, hotel images disabled")
	}
	hotelRepo := hotel.NewRepository(a.db)
	a.hotelService = hotel.NewService(hotelRepo, imageStorage, a.logger)
	a.hotelHandler = hotel.NewHandler(a.hotelService)

	// reservation
	reservationRepo := reservation.NewRepository(a.db)
	a.reservationService = reservation.NewService(reservationRepo, a.hotelService, a.logger)
	a.reservationHandler = reservation.NewHandler(a.reservationService)

	// payment
	stripeProvider := paymentprovider.NewStripeProvider(&paymentprovider.StripeConfig{
		SecretKey:     a.config.Stripe.SecretKey,
		WebhookSecret: a.config.Stripe.WebhookSecret,
	}, a.metrics, a.logger)

	paymentRepo := payment.NewRepository(a.db)
	a.paymentService = payment.NewService(
		paymentRepo,
		stripeProvider,
		a.reservationService,
		a.userRepo,
		a.hotelService,
		a.eventBus,
		a.metrics,
		a.logger,
	)
	a.paymentHandler = payment.NewHandler(a.paymentService)
	a.webhookHandler = payment.NewWebhookHandler(a.paymentService, a.metrics, a.logger)

	// review
	reviewRepo := review.NewRepository(a.db)
	a.reviewService = review.NewService(reviewRepo, a.logger)
	a.reviewHandler = review.NewHandler(a.reviewService)

	a.registerEventHandlers()

	return nil
}

// registerEventHandlers registers all domain event handlers.
func (a *App) registerEventHandlers() {
	sender := notification.NewSender(&a.config.Email, a.logger)
	a.eventBus.Register(notification.NewPaymentEventHandler(sender, a.userRepo, a.logger))
}

// setupRouter creates and configures the gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes registers all module routes.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")

	public := v1.Group("")
	if a.rateLimiter != nil {
		public.Use(middleware.RateLimitByIP(a.rateLimiter, 100, time.Minute))
	}

	protected := v1.Group("")
	protected.Use(middleware.RequireAuth(a.jwtManager))

	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAuth(a.jwtManager))
	admin.Use(middleware.RequireRole("admin"))

	a.userHandler.RegisterRoutes(public)
	a.userHandler.RegisterProtectedRoutes(protected)
	a.userHandler.RegisterAdminRoutes(admin)

	a.hotelHandler.RegisterRoutes(public)
	a.hotelHandler.RegisterAdminRoutes(admin)

	a.reservationHandler.RegisterProtectedRoutes(protected)
	a.reservationHandler.RegisterAdminRoutes(admin)

	// Retried intent creations replay the cached response instead of
	// minting a second Stripe intent.
	payments := protected.Group("")
	if a.redis != nil {
		payments.Use(middleware.Idempotency(a.redis, middleware.IdempotencyConfig{
			TTL: 24 * time.Hour,
		}))
	}
	a.paymentHandler.RegisterProtectedRoutes(payments)
	a.paymentHandler.RegisterAdminRoutes(admin)

	a.reviewHandler.RegisterRoutes(public)
	a.reviewHandler.RegisterProtectedRoutes(protected)

	webhooks := a.router.Group("/webhooks")
	a.webhookHandler.RegisterRoutes(webhooks)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases application resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Error("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
