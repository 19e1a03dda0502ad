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

	"mudskip/leaderboard/internal/config"
	"mudskip/leaderboard/internal/handlers"
	"mudskip/leaderboard/internal/jobs"
	"mudskip/leaderboard/internal/metrics"
	authmw "mudskip/leaderboard/internal/middleware"
	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/routers"
	"mudskip/leaderboard/internal/services"
	"mudskip/leaderboard/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

// overridable in tests
var (
	newLogger       = zap.NewProduction
	gormOpen        = openPostgres
	runAutoMigrate  = func(db *gorm.DB, dst ...interface{}) error { return db.AutoMigrate(dst...) }
	httpListenServe = func(server *http.Server) error { return server.ListenAndServe() }
	retryInterval   = 2 * time.Second
	logFatal        = func(logger *zap.Logger, msg string, err error) { logger.Fatal(msg, zap.Error(err)) }
)

func resetServerGlobals() {
	newLogger = zap.NewProduction
	gormOpen = openPostgres
	runAutoMigrate = func(db *gorm.DB, dst ...interface{}) error { return db.AutoMigrate(dst...) }
	httpListenServe = func(server *http.Server) error { return server.ListenAndServe() }
	retryInterval = 2 * time.Second
	logFatal = func(logger *zap.Logger, msg string, err error) { logger.Fatal(msg, zap.Error(err)) }
}

func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// connectWithRetry keeps dialing the database until it answers a ping or the
// timeout elapses.
func connectWithRetry(dsn string, timeout time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for attempt := 1; ; attempt++ {
		db, err := gormOpen(dsn)
		if err == nil {
			if err = pingDB(db); err == nil {
				return db, nil
			}
			closeDB(db)
		}
		lastErr = err
		if time.Now().Add(retryInterval).After(deadline) {
			break
		}
		logger.Warn("database not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("failed to connect to database within %s: %w", timeout, lastErr)
}

func pingDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

type app struct {
	users    *repositories.UserRepository
	levels   *repositories.LevelRepository
	scores   *repositories.HighscoreRepository
	stats    *repositories.LevelStatsRepository
	reviews  *repositories.ReviewRepository
	service  *services.HighscoreService
	sessions *session.Store
	cookies  session.CookieCodec
	health   *handlers.HealthHandler
}

func newRouter(cfg *config.Config, a *app, logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)
	router.Use(authmw.Authenticate(a.cookies, a.sessions, logger))

	requireAdmin := authmw.RequireAdmin(a.users, logger)

	routers.HealthRoutes(router, a.health)
	routers.UserRoutes(router, &handlers.UserHandler{Repo: a.users, Sessions: a.sessions, Cookies: a.cookies, Logger: logger}, requireAdmin)
	routers.HighscoreRoutes(router, &handlers.HighscoreHandler{Levels: a.levels, Scores: a.scores, Submitter: a.service, Logger: logger}, requireAdmin)
	routers.LevelRoutes(router, &handlers.LevelHandler{Repo: a.levels, Logger: logger}, requireAdmin)
	routers.LevelStatsRoutes(router, &handlers.LevelStatsHandler{Repo: a.stats, Logger: logger}, requireAdmin)
	routers.ReviewRoutes(router, &handlers.ReviewHandler{Users: a.users, Reviews: a.reviews, Logger: logger}, requireAdmin)

	return router
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.SessionSecret == "dev" {
		logger.Warn("SESSION_SECRET not set, using development secret")
	}

	db, err := connectWithRetry(cfg.Postgres.DSN(), cfg.DBConnectTimeout, logger)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := runAutoMigrate(db, models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	a := &app{
		users:   &repositories.UserRepository{DB: db},
		levels:  &repositories.LevelRepository{DB: db},
		scores:  &repositories.HighscoreRepository{DB: db},
		stats:   &repositories.LevelStatsRepository{DB: db},
		reviews: &repositories.ReviewRepository{DB: db},
		service: services.NewHighscoreService(db, logger),
		cookies: session.CookieCodec{Secret: []byte(cfg.SessionSecret), Secure: cfg.SessionCookieSecure},
	}

	names, err := config.LoadLevelSeed(cfg.LevelSeedFile)
	if err != nil {
		return err
	}
	if len(names) > 0 {
		created, err := a.levels.EnsureNames(context.Background(), names)
		if err != nil {
			return fmt.Errorf("failed to seed levels: %w", err)
		}
		logger.Info("level seed applied", zap.String("file", cfg.LevelSeedFile), zap.Int("created", created))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	a.sessions = session.NewStore(rdb, cfg.SessionIdleTimeout)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.sessions.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}

	a.health = handlers.NewHealthHandler(map[string]handlers.Checker{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": a.sessions.Ping,
	})

	snapshotJob := jobs.NewStatsSnapshotJob(a.stats, cfg.StatsSnapshotSchedule, logger)
	if err := snapshotJob.Start(); err != nil {
		return err
	}
	defer snapshotJob.Stop()

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      newRouter(cfg, a, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Leaderboard service starting", zap.String("addr", serverAddr))
		serveErr <- httpListenServe(server)
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownChan)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-shutdownChan:
	}

	logger.Info("Leaderboard service shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Leaderboard service exited")
	return nil
}

func main() {
	if err := run(); err != nil {
		logger, _ := zap.NewProduction()
		logFatal(logger, "leaderboard service failed", err)
	}
}
