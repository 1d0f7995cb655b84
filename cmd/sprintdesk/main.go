package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/sprintdesk/internal/api"
	"github.com/terraincognita07/sprintdesk/internal/cli"
	"github.com/terraincognita07/sprintdesk/internal/config"
	"github.com/terraincognita07/sprintdesk/internal/db"
	"gorm.io/gorm"
)

const resetPasswordUsage = "usage: sprintdesk reset-password <email> [--prompt]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		logrus.WithError(err).Fatal("sprintdesk exited")
	}
}

// run returns instead of exiting so deferred flushes and closes always run.
func run(args []string) error {
	config.LoadDotEnv(".env")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := newLogger(cfg)

	if len(args) > 0 && args[0] == "reset-password" {
		if err := runResetPassword(cfg, log, args[1:]); err != nil {
			return fmt.Errorf("reset-password: %w", err)
		}
		return nil
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			log.WithError(err).Warn("sentry init failed, continuing without error reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN(), log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	options := api.HandlerOptions{
		SecretKey:         cfg.SecretKey,
		TokenTTL:          cfg.TokenTTL,
		CookieSecure:      cfg.IsProduction(),
		Logger:            log,
		JoinAttemptLimit:  cfg.JoinAttempts.Limit,
		JoinAttemptWindow: cfg.JoinAttempts.Window,
	}
	if cfg.RedisURL != "" {
		client, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
		defer client.Close()
		options.JoinLimiter = api.NewRedisAttemptLimiter(client)
	}

	handler, err := api.NewHandler(database, options)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(handler, cfg)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"db_driver":   cfg.Database.Driver,
		"environment": cfg.Environment,
		"redis":       cfg.RedisURL != "",
	}).Info("sprintdesk listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(cfg.LogLevel)
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func newRedisClient(rawURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func newApp(handler *api.Handler, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "SprintDesk",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

type resetPasswordArgs struct {
	email  string
	prompt bool
}

func parseResetPasswordArgs(args []string) (resetPasswordArgs, error) {
	var parsed resetPasswordArgs
	for _, arg := range args {
		switch {
		case arg == "--prompt":
			parsed.prompt = true
		case strings.HasPrefix(arg, "-"):
			return resetPasswordArgs{}, fmt.Errorf("unknown flag %q\n%s", arg, resetPasswordUsage)
		case parsed.email == "":
			parsed.email = arg
		default:
			return resetPasswordArgs{}, errors.New(resetPasswordUsage)
		}
	}
	if parsed.email == "" {
		return resetPasswordArgs{}, errors.New(resetPasswordUsage)
	}
	return parsed, nil
}

func runResetPassword(cfg config.Config, log logrus.FieldLogger, args []string) error {
	parsed, err := parseResetPasswordArgs(args)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN(), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDatabase(database)

	return cli.RunResetPasswordCommand(db.NewUserRepository(database), cli.ResetPasswordOptions{
		Email:  parsed.email,
		Prompt: parsed.prompt,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	})
}

func closeDatabase(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
