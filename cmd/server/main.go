package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myblog/internal/cache"
	lru_cache "myblog/internal/cache/lru"
	redis_cache "myblog/internal/cache/redis"
	"myblog/internal/config"
	delivery_grpc "myblog/internal/delivery/grpc"
	delivery_http "myblog/internal/delivery/http"
	metrics_server "myblog/internal/delivery/metrics"
	"myblog/internal/logger"
	"myblog/internal/mailer"
	"myblog/internal/metrics"
	prometheus_metrics "myblog/internal/metrics/prometheus"
	"myblog/internal/migrations"
	"myblog/internal/repository"
	follow_repository "myblog/internal/repository/follow"
	follow_postgres "myblog/internal/repository/follow/postgres"
	follow_sqlite "myblog/internal/repository/follow/sqlite"
	post_repository "myblog/internal/repository/post"
	post_postgres "myblog/internal/repository/post/postgres"
	post_sqlite "myblog/internal/repository/post/sqlite"
	"myblog/internal/repository/postgres"
	"myblog/internal/repository/sqlite"
	user_repository "myblog/internal/repository/user"
	user_postgres "myblog/internal/repository/user/postgres"
	user_sqlite "myblog/internal/repository/user/sqlite"
	password_service "myblog/internal/service/password"
	post_service "myblog/internal/service/post"
	user_service "myblog/internal/service/user"
	"myblog/internal/session"
	"myblog/internal/token"
)

const (
	memoryCacheSize = 1024
	memoryCacheTTL  = 15 * time.Minute
)

// storage is one configured backend: its repositories, its unit of work and
// a way to check and release it.
type storage struct {
	users   user_repository.Repository
	posts   post_repository.Repository
	follows follow_repository.Repository
	uow     repository.UnitOfWork
	pinger  delivery_grpc.Pinger
	close   func()
}

func openStorage(ctx context.Context, cfg config.Database, log *logger.Logger, metrics metrics.MetricsProvider) (*storage, error) {
	switch cfg.Driver {
	case "postgres":
		if cfg.AutoMigrate {
			m, err := migrations.Postgres(cfg.URL)
			if err != nil {
				return nil, fmt.Errorf("prepare migrations: %w", err)
			}
			err = migrations.Up(m, log)
			if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
				log.Warn("Failed to close migrator", slog.Any("source_error", srcErr), slog.Any("database_error", dbErr))
			}
			if err != nil {
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}

		pool, err := postgres.NewPool(ctx, cfg.URL, cfg.MaxConns)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:   user_postgres.NewUserRepository(pool, log, metrics),
			posts:   post_postgres.NewPostRepository(pool, log, metrics),
			follows: follow_postgres.NewFollowRepository(pool, log, metrics),
			uow:     postgres.NewPostgresUOW(pool, log, metrics),
			pinger:  pool,
			close:   pool.Close,
		}, nil

	case "sqlite":
		conn, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			// The sqlite migrator owns conn once created; it is left open.
			m, err := migrations.SQLite(conn)
			if err != nil {
				_ = conn.Close()
				return nil, fmt.Errorf("prepare migrations: %w", err)
			}
			if err := migrations.Up(m, log); err != nil {
				_ = conn.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		return &storage{
			users:   user_sqlite.NewUserRepository(conn, log, metrics),
			posts:   post_sqlite.NewPostRepository(conn, log, metrics),
			follows: follow_sqlite.NewFollowRepository(conn, log, metrics),
			uow:     sqlite.NewSQLiteUOW(conn, log, metrics),
			pinger:  delivery_grpc.PingFunc(conn.PingContext),
			close: func() {
				if err := conn.Close(); err != nil {
					log.Error("Failed to close sqlite database", slog.String("error", err.Error()))
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func newMailer(cfg config.Mail, log *logger.Logger) mailer.Mailer {
	if cfg.Server == "" {
		log.Warn("No mail server configured, outgoing mail will only be logged")
		return mailer.NewLogMailer(log)
	}
	return mailer.NewSMTPMailer(cfg)
}

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()
	log := logger.New(cfg.Env)

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	store, err := openStorage(ctx, cfg.Database, log, metrics)
	if err != nil {
		log.Error("Failed to open storage", slog.String("driver", cfg.Database.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.close()

	var (
		userCache    cache.UserCache
		sessionStore session.Store
	)
	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_cache.NewClient(cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()
		userCache = redis_cache.NewUserCache(redisClient, log, metrics)
		sessionStore = session.NewRedisStore(redisClient)
	} else {
		log.Info("Redis disabled, using in-process cache and sessions")
		userCache = lru_cache.NewUserCache(memoryCacheSize, memoryCacheTTL, log, metrics)
		sessionStore = session.NewMemoryStore()
	}

	outbound := mailer.NewAsync(newMailer(cfg.Mail, log), log, metrics)
	adminAlert := mailer.NewAdminAlert(outbound, cfg.Admins, log)

	userService := user_service.NewUserServiceCacheDecorator(
		user_service.NewUserService(store.users, store.follows, store.uow, log, metrics),
		userCache,
		log,
	)
	postService := post_service.NewPostService(store.posts, store.users, store.uow, log, metrics, cfg.PostsPerPage)
	passwordService := password_service.NewPasswordService(
		store.users,
		store.uow,
		token.NewResetTokens(cfg.SecretKey, cfg.PasswordReset.TTL),
		outbound,
		cfg.HTTPServer.ExternalURL+"/reset_password",
		log,
		metrics,
	)
	sessions := session.NewManager(sessionStore, cfg.Session, log, metrics)

	handler := delivery_http.NewHandler(userService, postService, passwordService, sessions, log)
	router := delivery_http.NewRouter(handler, cfg.HTTPServer, adminAlert, log, metrics)
	httpServer := delivery_http.NewServer(router,
		cfg.HTTPServer.Address, cfg.HTTPServer.Port,
		cfg.HTTPServer.ReadTimeout, cfg.HTTPServer.WriteTimeout, log)

	grpcServer := delivery_grpc.NewServer(store.pinger, cfg.GRPCServer.HealthInterval,
		cfg.GRPCServer.Address, cfg.GRPCServer.Port, log, metrics)

	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 3)
	done := make(chan bool, 3)
	run := func(name string, fn func() error) {
		go func() {
			if err := fn(); err != nil {
				log.Error("Server error", slog.String("server", name), slog.String("error", err.Error()))
				errs <- err
			}
			done <- true
		}()
	}
	run("http", httpServer.Run)
	run("grpc", grpcServer.Run)
	run("metrics", metricsServer.Run)

	select {
	case <-quit:
	case err := <-errs:
		log.Error("Stopping after server failure", slog.String("error", err.Error()))
	}
	log.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}
	if err := grpcServer.Shutdown(); err != nil {
		log.Error("gRPC server shutdown error", slog.String("error", err.Error()))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	for i := 0; i < 3; i++ {
		<-done
	}
	outbound.Wait()

	log.Info("Server exited")
}
