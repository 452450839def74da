package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/recipebox/recipebox-go/internal/config"
	"github.com/recipebox/recipebox-go/internal/handler"
	"github.com/recipebox/recipebox-go/internal/logging"
	"github.com/recipebox/recipebox-go/internal/migrations"
	"github.com/recipebox/recipebox-go/internal/repository"
	"github.com/recipebox/recipebox-go/internal/service"
	"github.com/recipebox/recipebox-go/internal/session"
)

type stores struct {
	users   service.UserStore
	recipes service.RecipeStore
	health  handler.Pinger
	db      *sql.DB
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg.Env, cfg.LogLevel))

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("opening storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	if st.db != nil {
		defer st.db.Close()
	}

	sessionStore, rdb, err := openSessionStore(ctx, cfg)
	if err != nil {
		slog.Error("opening session store", "redis_addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	sessions := session.NewManager(sessionStore, session.Options{
		CookieName: cfg.SessionCookieName,
		Secret:     cfg.SessionSecret,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.CookieSecure,
	})

	authService, err := service.NewAuthService(st.users, cfg.BcryptCost)
	if err != nil {
		slog.Error("creating auth service", "error", err)
		os.Exit(1)
	}
	recipeService := service.NewRecipeService(st.recipes)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:          handler.NewAuthHandler(authService, sessions),
		Recipes:       handler.NewRecipeHandler(recipeService),
		Sessions:      sessions,
		Health:        st.health,
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.Storage == config.StorageMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryDB()
		return stores{
			users:   repository.NewMemoryUserRepository(mem),
			recipes: repository.NewMemoryRecipeRepository(mem),
		}, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return stores{}, err
	}

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, db); err != nil {
			db.Close()
			return stores{}, err
		}
	}

	return stores{
		users:   repository.NewUserRepository(db),
		recipes: repository.NewRecipeRepository(db),
		health:  db,
		db:      db,
	}, nil
}

func openSessionStore(ctx context.Context, cfg config.Config) (session.Store, *redis.Client, error) {
	if cfg.RedisAddr == "" {
		slog.Info("REDIS_ADDR not set, keeping sessions in memory")
		return session.NewMemoryStore(cfg.SessionTTL), nil, nil
	}

	rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(rdb, cfg.SessionTTL), rdb, nil
}
