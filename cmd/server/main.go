// Command server runs the storefront backend: account auth with OTP
// password reset, and the product catalog.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/wintercraft/storefront/internal/auth"
	"github.com/wintercraft/storefront/internal/config"
	"github.com/wintercraft/storefront/internal/handlers"
	"github.com/wintercraft/storefront/internal/media"
	"github.com/wintercraft/storefront/internal/notify"
	"github.com/wintercraft/storefront/internal/routes"
	"github.com/wintercraft/storefront/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Error("mongo error", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDB)
	accounts := store.NewAccountStore(db)
	products := store.NewProductStore(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		log.Error("index error", "error", err)
		os.Exit(1)
	}
	if err := products.EnsureIndexes(ctx); err != nil {
		log.Error("index error", "error", err)
		os.Exit(1)
	}

	hasher, err := auth.NewHasher(auth.DefaultHashCost)
	if err != nil {
		log.Error("hasher error", "error", err)
		os.Exit(1)
	}

	// Missing SECRET_KEY already aborted in config.Load; this catches an
	// all-whitespace value.
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret: []byte(strings.TrimSpace(cfg.SecretKey)),
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		log.Error("token manager error", "error", err)
		os.Exit(1)
	}

	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})
	if !mailer.Configured() {
		log.Warn("smtp not configured; forgot-password will fail until it is")
	}

	svc := auth.NewService(accounts, hasher, tokens, mailer, auth.ServiceConfig{
		OTPDigits: cfg.OTPDigits,
		OTPTTL:    cfg.OTPTTL,
	})

	var cache handlers.ProductCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("redis error", "error", err)
			os.Exit(1)
		}
		cache = store.NewProductCache(rdb, cfg.CacheTTL)
	}

	uploader := media.NewUploader(cfg.UploadURL, cfg.UploadPreset)

	if strings.EqualFold(cfg.AppEnv, "production") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, routes.Deps{
		Auth:     handlers.NewAuthHandler(svc, cfg.TokenTTL, log),
		Products: handlers.NewProductHandler(products, cache, uploader, log),
		Tokens:   tokens,
	})

	log.Info("listening", "addr", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
