package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skufu/GlucoRisk/internal/classifier"
	"github.com/Skufu/GlucoRisk/internal/dashboard"
	"github.com/Skufu/GlucoRisk/internal/observability"
	"github.com/Skufu/GlucoRisk/internal/risk"
)

const defaultModelPath = "models/random_forest_model.json"

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Config struct {
	GinMode         string
	Port            string
	ModelPath       string
	ExplainerLayout classifier.Layout
	LogLevel        string
	LogFormat       string
	DatabaseURL     string
	EnableDB        bool
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	forest, err := classifier.Load(cfg.ModelPath, risk.ModelSchema())
	if err != nil {
		logger.Error("model load failed", "path", cfg.ModelPath, "error", err)
		os.Exit(1)
	}
	logger.Info("model loaded",
		"path", cfg.ModelPath,
		"classes", forest.Classes(),
		"features", forest.FeatureNames(),
		"explainer_layout", cfg.ExplainerLayout.String(),
	)

	ctx := context.Background()
	var db HealthChecker
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		db = pool
	}

	assessor := risk.NewAssessor(forest, classifier.NewExplainer(forest, cfg.ExplainerLayout), logger)
	router, err := setupRouter(logger, db, dashboard.NewHandler(assessor, logger))
	if err != nil {
		logger.Error("router setup failed", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	waitForShutdown(logger, server)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	layout, err := classifier.ParseLayout(getEnv("EXPLAINER_LAYOUT", "class-first"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GinMode:         getEnv("GIN_MODE", gin.ReleaseMode),
		Port:            getEnv("PORT", "8080"),
		ModelPath:       resolveModelPath(getEnv("MODEL_PATH", defaultModelPath)),
		ExplainerLayout: layout,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		EnableDB:        strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func setupRouter(logger *slog.Logger, db HealthChecker, dash *dashboard.Handler) (*gin.Engine, error) {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		observability.RequestID(),
		observability.AccessLog(logger),
		observability.Metrics(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", observability.RequestIDHeader},
			MaxAge:       12 * time.Hour,
		}),
	)

	if err := dash.Register(router); err != nil {
		return nil, err
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "model": "loaded", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"model":  "loaded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"model":  "loaded",
			"db":     "ok",
		})
	})

	return router, nil
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// resolveModelPath looks for a relative artifact path in the working
// directory and its two parents so the server can start from cmd/server.
// Absolute paths and misses are returned unchanged; Load reports the miss.
func resolveModelPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	startDir, err := os.Getwd()
	if err != nil {
		return path
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, dir := range candidates {
		if fileExists(filepath.Join(dir, path)) {
			return filepath.Join(dir, path)
		}
	}

	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
