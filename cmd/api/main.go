package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-service/internal/api/http"
	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/engagement"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/lock"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	dependencies := map[string]handlers.Pinger{"postgres": pg}
	var locker lock.Locker = lock.NewStripedLocker(0)
	if cfg.Engagement.LockBackend == config.LockBackendRedis {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		dependencies["redis"] = redis
		locker = lock.NewRedisLocker(redis.Client, cfg.Engagement.LockTTL(), cfg.Engagement.LockWait(), logger)
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	viewRepo := repository.NewViewRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(func(event events.Event, err error) {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	})
	worker.StartActivityWorker(service.NewActivityService(dispatcher, logger.Named("activity")))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	ownership := auth.NewOwnershipEngine(cfg.Auth.BcryptCost)

	viewEngine := engagement.NewViewDedupEngine(engagement.ViewDependencies{
		Views:      viewRepo,
		Posts:      postRepo,
		Locker:     locker,
		Cooldown:   cfg.Engagement.ViewCooldown(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	likeEngine := engagement.NewLikeToggleEngine(engagement.LikeDependencies{
		Likes:      likeRepo,
		Posts:      postRepo,
		Locker:     locker,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authService := service.NewAuthService(cfg.Auth, userRepo, tokens, logger)
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminNickname); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:     postRepo,
		CategoryRepo: categoryRepo,
		Views:        viewEngine,
		Logger:       logger,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		UserRepo:    userRepo,
		Posts:       postRepo,
		Ownership:   ownership,
		Dispatcher:  dispatcher,
	})

	metrics := observability.NewMetrics()
	clientIP := handlers.IPResolver(handlers.ClientIP)

	app := fiber.New(httptransport.NewServerConfig(cfg.App))
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:   logger,
		Metrics:  metrics,
		Timeout:  cfg.App.RequestTimeout(),
		Resolver: auth.NewResolver(tokens),
		ClientIP: clientIP,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Users:        handlers.NewUsersHandler(authService),
		Posts:        handlers.NewPostsHandler(postService, clientIP),
		Categories:   handlers.NewCategoriesHandler(categoryService),
		Comments:     handlers.NewCommentsHandler(commentService, clientIP),
		Likes:        handlers.NewLikesHandler(likeEngine, clientIP),
		LoginLimiter: httptransport.NewIPRateLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst, clientIP),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
