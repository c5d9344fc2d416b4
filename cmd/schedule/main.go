package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"service-schedule/internal/app"
	servicemigrations "service-schedule/migrations"
)

func main() {
	// Missing .env is fine; real deployments configure via environment.
	_ = godotenv.Load()

	config, err := loadConfig()
	if err != nil {
		fallback := zap.NewExample()
		fallback.Fatal("config error", zap.Error(err))
	}

	logger := newLogger(config.LogLevel, config.LogFile)
	defer func() { _ = logger.Sync() }()

	logger.Debug("config loaded",
		zap.String("http_addr", config.HTTPAddr),
		zap.String("identity_base_url", config.IdentityBaseURL),
		zap.Int("db_max_open", config.DBMaxOpenConns),
		zap.Int("db_max_idle", config.DBMaxIdleConns),
		zap.Duration("db_conn_max_lifetime", config.DBConnMaxLifetime),
		zap.Bool("demo_seed", config.DemoSeed),
	)

	db, err := sql.Open("pgx", config.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(config.DBConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	logger.Debug("database connection successful")

	if err := servicemigrations.Up(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Debug("migrations completed successfully")

	application := app.New(db, config.IdentityBaseURL, logger)
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.DemoSeed {
		logger.Warn("DEMO_SEED is set, seeding randomized demo week")
		if err := application.SeedDemoWeek(shutdownCtx); err != nil {
			logger.Fatal("demo seed failed", zap.Error(err))
		}
	}

	digestCron := startDigestCron(application, logger)
	defer digestCron.Stop()

	server := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           application.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("http shutdown error", zap.Error(err))
		}
	}()

	logger.Info("service-schedule listening", zap.String("addr", config.HTTPAddr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("http server error", zap.Error(err))
	}
}

func newLogger(level string, logFile string) *zap.Logger {
	minLevel := zapcore.InfoLevel
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		minLevel = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	sink := zapcore.AddSync(os.Stdout)
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(rotating))
	}

	return zap.New(zapcore.NewCore(encoder, sink, minLevel))
}

func startDigestCron(application *app.App, logger *zap.Logger) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		if err := application.EmitDailyDigestIfDue(context.Background(), time.Now()); err != nil {
			logger.Error("digest tick error", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("failed to schedule digest job", zap.Error(err))
	}
	c.Start()
	return c
}

type config struct {
	DatabaseURL       string
	HTTPAddr          string
	LogLevel          string
	LogFile           string
	IdentityBaseURL   string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DemoSeed          bool
}

func loadConfig() (config, error) {
	var cfg config

	var err error
	if cfg.DatabaseURL, err = getRequiredEnv("DATABASE_URL"); err != nil {
		return cfg, err
	}
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFile = getEnv("LOG_FILE", "")
	if cfg.IdentityBaseURL, err = getRequiredEnv("IDENTITY_BASE_URL"); err != nil {
		return cfg, err
	}
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return cfg, err
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return cfg, err
	}
	if cfg.DBConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return cfg, err
	}
	cfg.DemoSeed = strings.EqualFold(getEnv("DEMO_SEED", "false"), "true")

	return cfg, nil
}

func getRequiredEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", &configError{message: "missing required environment variable: " + key}
	}
	return value, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, &configError{message: "invalid int for " + key + ": " + err.Error()}
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, &configError{message: "invalid duration for " + key + ": " + err.Error()}
	}
	return parsed, nil
}

type configError struct {
	message string
}

func (e *configError) Error() string {
	return e.message
}

var _ error = (*configError)(nil)
