package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	accessapp "github.com/shopadmin/backend/internal/application/access"
	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	customerapp "github.com/shopadmin/backend/internal/application/customer"
	orderapp "github.com/shopadmin/backend/internal/application/order"
	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/infrastructure/cache"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/shopadmin/backend/internal/infrastructure/firebase"
	"github.com/shopadmin/backend/internal/infrastructure/identity"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/infrastructure/mail"
	"github.com/shopadmin/backend/internal/infrastructure/persistence"
	"github.com/shopadmin/backend/internal/infrastructure/storage"
	"github.com/shopadmin/backend/internal/infrastructure/telemetry"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
	"github.com/shopadmin/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shopadmin:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	providers, err := telemetry.Start(ctx, telemetry.SettingsFromConfig(cfg.Telemetry, version), bootLog)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}

	log := bootLog
	if providers.Logs.Enabled() {
		log, err = logger.New(logCfg, providers.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			return fmt.Errorf("initialize otel logger: %w", err)
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting shop admin backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	var closers []namedCloser
	closers = append(closers, namedCloser{"telemetry", providers.Shutdown})
	defer func() {
		if err := closeAll(closers); err != nil {
			log.Error("Shutdown finished with errors", zap.Error(err))
		}
	}()

	adminMetrics, err := telemetry.NewAdminMetrics(providers.Metrics.Meter("shopadmin"))
	if err != nil {
		return fmt.Errorf("register admin metrics: %w", err)
	}

	// Firebase
	fbApp, err := firebase.NewApp(ctx, cfg.Firebase)
	if err != nil {
		return err
	}
	closers = append(closers, namedCloser{"firestore", func(context.Context) error { return fbApp.Close() }})
	log.Info("Firebase initialized", zap.String("project_id", cfg.Firebase.ProjectID))

	allowListRepo := persistence.NewFirestoreAllowListRepository(fbApp.Firestore, log)
	userRepo := persistence.NewFirestoreUserRepository(fbApp.Firestore, log)
	productRepo := persistence.NewFirestoreProductRepository(fbApp.Firestore, log)
	orderRepo := persistence.NewFirestoreOrderRepository(fbApp.Firestore, log)
	trackingRepo := persistence.NewFirestoreTrackingRepository(fbApp.Firestore, log)
	customOrderRepo := persistence.NewFirestoreCustomOrderRepository(fbApp.Firestore, log)
	verifier := identity.NewFirebaseIdentity(fbApp.Auth, log)

	// Access
	owner := access.NewOwner(cfg.Access.OwnerEmail)
	gate := accessapp.NewGate(owner, allowListRepo, accessapp.NewAllowListCache(cfg.Access.CacheTTL), log)
	registry := accessapp.NewRegistry(allowListRepo, gate, log)

	healthChecks := []handler.HealthCheck{{
		Name:  "firestore",
		Check: func(ctx context.Context) error { return persistence.Ping(ctx, fbApp.Firestore) },
	}}

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		closers = append(closers, namedCloser{"redis", func(context.Context) error { return redisClient.Close() }})
		blacklist = auth.NewRedisTokenBlacklist(redisClient)

		invalidator := cache.NewRedisAllowListInvalidator(redisClient, cache.WithInvalidatorLogger(log))
		gate.SetInvalidationPublisher(invalidator)
		go func() {
			if err := invalidator.Subscribe(ctx, gate.InvalidateLocal); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Allow-list invalidation subscription stopped", zap.Error(err))
			}
		}()
		closers = append(closers, namedCloser{"allow-list invalidator", func(context.Context) error { return invalidator.Close() }})

		healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Check: redisPing(redisClient)})
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, token revocation and allow-list invalidation are local to this instance")
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	sessions := accessapp.NewSessionService(verifier, gate, jwtService, blacklist, log)
	sessions.SetRecorder(adminMetrics)

	// Customers
	mailer, err := mail.NewMailer(cfg.Mail, log)
	if err != nil {
		return fmt.Errorf("initialize mailer: %w", err)
	}
	users := customerapp.NewService(userRepo, verifier, mailer, log)

	// Catalog
	mediaHost, err := storage.NewMediaHost(ctx, cfg.Media, log)
	if err != nil {
		return fmt.Errorf("initialize media host: %w", err)
	}
	products := catalogapp.NewProductService(productRepo, mediaHost, log)
	feed := catalogapp.NewProductFeed(productRepo, log)
	feedCtx, stopFeed := context.WithCancel(ctx)
	feedDone := make(chan struct{})
	go func() {
		defer close(feedDone)
		if err := feed.Run(feedCtx); err != nil {
			log.Error("Product feed stopped", zap.Error(err))
		}
	}()
	closers = append(closers, namedCloser{"product feed", func(ctx context.Context) error {
		stopFeed()
		select {
		case <-feedDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}})

	// Orders
	orders := orderapp.NewService(orderRepo, trackingRepo, customOrderRepo, log)
	orders.SetRecorder(adminMetrics)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, providers.Traces.Enabled()))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(providers.Metrics.Meter("shopadmin/http"), log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.RunCleanup(ctx)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	limits := router.Limits{
		MaxBodySize:   cfg.HTTP.MaxBodySize,
		MaxUploadSize: cfg.HTTP.MaxUploadSize,
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go authLimiter.RunCleanup(ctx)
		limits.AuthLimit = middleware.RateLimit(authLimiter)
	}

	handlers := router.Handlers{
		Auth:   handler.NewAuthHandler(sessions),
		Admins: handler.NewAdminHandler(registry, owner),
		Users:  handler.NewUserHandler(users),
		Products: handler.NewProductHandler(products, feed,
			handler.WithStreamHeartbeat(cfg.HTTP.StreamHeartbeat),
			handler.WithProductRecorder(adminMetrics)),
		Orders: handler.NewOrderHandler(orders),
		Health: handler.NewHealthHandler(version, healthChecks...),
	}

	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})
	router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithAuth(jwtAuth)).
		Public(router.PublicGroups(handlers, limits)...).
		Protected(router.ProtectedGroups(handlers, limits)...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Stopping the feed closes every open product stream
	srv.RegisterOnShutdown(stopFeed)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	return nil
}

func redisPing(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

type namedCloser struct {
	name  string
	close func(ctx context.Context) error
}

// closeAll releases resources in reverse order of acquisition and collects every failure
func closeAll(closers []namedCloser) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var result *multierror.Error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].close(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("close %s: %w", closers[i].name, err))
		}
	}
	return result.ErrorOrNil()
}
