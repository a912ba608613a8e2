package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	attributeapp "github.com/emlak/backend/internal/application/attribute"
	branchapp "github.com/emlak/backend/internal/application/branch"
	consultantapp "github.com/emlak/backend/internal/application/consultant"
	identityapp "github.com/emlak/backend/internal/application/identity"
	leadapp "github.com/emlak/backend/internal/application/lead"
	listingapp "github.com/emlak/backend/internal/application/listing"
	locationapp "github.com/emlak/backend/internal/application/location"
	"github.com/emlak/backend/internal/application/media"
	siteapp "github.com/emlak/backend/internal/application/site"
	"github.com/emlak/backend/internal/domain/identity"
	"github.com/emlak/backend/internal/infrastructure/auth"
	"github.com/emlak/backend/internal/infrastructure/brochure"
	"github.com/emlak/backend/internal/infrastructure/cache"
	"github.com/emlak/backend/internal/infrastructure/config"
	"github.com/emlak/backend/internal/infrastructure/event"
	"github.com/emlak/backend/internal/infrastructure/logger"
	"github.com/emlak/backend/internal/infrastructure/notification"
	"github.com/emlak/backend/internal/infrastructure/persistence"
	"github.com/emlak/backend/internal/infrastructure/storage"
	"github.com/emlak/backend/internal/infrastructure/telemetry"
	"github.com/emlak/backend/internal/interfaces/http/handler"
	"github.com/emlak/backend/internal/interfaces/http/middleware"
	"github.com/emlak/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	_ "github.com/emlak/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Emlak Backend API
//	@version		1.0
//	@description	Real estate brokerage portal: public listing search and the back office API

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = providers.WrapLogger(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting Emlak Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Reference data cache and token revocations share Redis when it answers
	refCache, redisClient, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to create cache", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(redisClient, "emlak:revoked:")
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	if closer, ok := refCache.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	var objects media.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Could not ensure image bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		objects = s3
	} else {
		log.Warn("Object storage disabled, images are kept in memory")
		objects = storage.NewMemoryObjectStorage()
	}
	uploader := media.NewUploader(objects, cfg.Storage.MaxImageSize)
	urls := media.NewURLBuilder(cfg.Storage.PublicBaseURL)

	// Repositories
	listingRepo := persistence.NewGormListingRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	consultantRepo := persistence.NewGormConsultantRepository(db.DB)
	cityRepo := persistence.NewGormCityRepository(db.DB)
	districtRepo := persistence.NewGormDistrictRepository(db.DB)
	neighborhoodRepo := persistence.NewGormNeighborhoodRepository(db.DB)
	attributeRepo := persistence.NewGormAttributeDefinitionRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	pageRepo := persistence.NewGormPageRepository(db.DB)
	requestRepo := persistence.NewGormCustomerRequestRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Domain events
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	portalMetrics, err := telemetry.NewPortalMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Fatal("Failed to create portal metrics", zap.Error(err))
	}
	eventBus.Subscribe(portalMetrics)

	if cfg.RabbitMQ.Enabled {
		forwarder := event.NewAMQPForwarder(cfg.RabbitMQ, log)
		defer func() { _ = forwarder.Close() }()
		eventBus.Subscribe(forwarder)
		log.Info("Forwarding domain events", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.JWT.MaxLoginAttempts,
		LockDuration:     cfg.JWT.LockDuration,
	}, log)

	settingsProvider := siteapp.NewSettingsProvider(settingsRepo, refCache, log)
	pageService := siteapp.NewPageService(pageRepo)
	locationService := locationapp.NewLocationService(cityRepo, districtRepo, neighborhoodRepo, listingRepo, refCache, log)
	definitionService := attributeapp.NewDefinitionService(attributeRepo)
	branchService := branchapp.NewBranchService(branchRepo, consultantRepo, listingRepo, uploader, urls, log)
	consultantService := consultantapp.NewConsultantService(consultantRepo, branchRepo, listingRepo, uploader, urls, log)

	listingService := listingapp.NewListingService(listingapp.ListingServiceDeps{
		Listings:      listingRepo,
		Branches:      branchRepo,
		Consultants:   consultantRepo,
		Cities:        cityRepo,
		Districts:     districtRepo,
		Neighborhoods: neighborhoodRepo,
		Validator:     attributeapp.NewSchemaValidator(attributeRepo),
		Uploader:      uploader,
		URLs:          urls,
		Logger:        log,
	})
	listingService.SetEventPublisher(eventBus)
	queryService := listingapp.NewQueryService(listingRepo, branchRepo, urls)

	renderer := brochure.NewRenderer(cfg.Brochure, log)
	if closer, ok := renderer.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	brochureService := listingapp.NewBrochureService(listingRepo, branchRepo, consultantRepo,
		cityRepo, districtRepo, renderer, urls, log)

	requestService := leadapp.NewRequestService(requestRepo, listingRepo, log)
	requestService.SetEventPublisher(eventBus)
	eventBus.Subscribe(leadapp.NewNotificationHandler(branchRepo, settingsProvider,
		notification.NewMailer(cfg.Mail, log), log).WithFallbackRecipient(cfg.Mail.NotifyAddress))

	// HTTP
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics, err := middleware.HTTPMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.Env == "production"

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure(securityCfg))
	if cors := middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}); cors != nil {
		engine.Use(cors)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)
	if redisClient != nil {
		systemHandler.WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	engine.GET("/health", systemHandler.Health)

	jwtAuth := middleware.JWTAuth(middleware.JWTConfig{
		JWTService:  jwtService,
		Revocations: blacklist,
		Logger:      log,
	})

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	guards := router.Guards{
		Authenticate: jwtAuth,
		Staff:        middleware.RequireRole(string(identity.RoleAdmin), string(identity.RoleConsultant)),
		Admin:        middleware.RequireRole(string(identity.RoleAdmin)),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		guards.AuthLimit = middleware.RateLimit(authLimiter)

		submitLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer submitLimiter.Stop()
		guards.SubmitLimit = middleware.RateLimit(submitLimiter)
	}

	r := router.NewRouter(engine)
	r.Use(
		middleware.TenantResolver(cfg.App.DefaultTenant()),
		middleware.SpanAttributes(),
		httpMetrics,
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.Telemetry.ProfilingEnabled {
		r.Use(middleware.ProfilingLabels())
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		r.Use(middleware.RateLimit(limiter))
	}

	router.RegisterPortal(r, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Listing:      handler.NewListingHandler(queryService, brochureService),
		ListingAdmin: handler.NewListingAdminHandler(listingService),
		Branch:       handler.NewBranchHandler(branchService),
		Consultant:   handler.NewConsultantHandler(consultantService),
		Location:     handler.NewLocationHandler(locationService),
		Attribute:    handler.NewAttributeHandler(definitionService),
		Site:         handler.NewSiteHandler(settingsProvider, pageService),
		Request:      handler.NewCustomerRequestHandler(requestService),
		System:       systemHandler,
	}, guards)
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
