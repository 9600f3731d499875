package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/adapters/events"
	"github.com/layer-3/walletauth/adapters/signature"
	"github.com/layer-3/walletauth/adapters/store"
	"github.com/layer-3/walletauth/adapters/tokenizer"
	"github.com/layer-3/walletauth/config"
	"github.com/layer-3/walletauth/internal/logging"
	"github.com/layer-3/walletauth/ports"
	"github.com/layer-3/walletauth/service"
	transport "github.com/layer-3/walletauth/transport/http"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New("walletauth", cfg.LogLevel)
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	clk := clock.New()

	scheme, err := signature.New(cfg.SignatureScheme)
	if err != nil {
		logger.Fatalf("Failed to select signature scheme: %v", err)
	}

	var (
		nonceStore ports.NonceStore
		publisher  message.Publisher
	)

	wmLogger := watermill.NewStdLogger(false, false)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatalf("Failed to parse Redis URL: %v", err)
		}

		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			wmLogger,
		)
		if err != nil {
			logger.Fatalf("Failed to create Redis publisher: %v", err)
		}

		nonceStore = store.NewRedisStore(redisClient)
		logger.Info("Using Redis nonce store and event stream")
	} else {
		publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
		nonceStore = store.NewMemoryStore()
		logger.Info("Using in-memory nonce store, sessions survive restarts but challenges do not")
	}
	defer publisher.Close()

	nonces := service.NewNonceRegistry(nonceStore, clk, cfg.NonceTTL, logger)
	tk := tokenizer.NewHMACTokenizer(cfg.Secret, cfg.SessionTTL, clk, logger)
	eventPub := events.NewWatermillPublisher(publisher, clk)

	authService := service.NewAuthService(nonces, scheme, tk, eventPub, logger, service.Options{
		AppName: cfg.AppName,
		Clock:   clk,
	})

	// Setup Gin router
	router := transport.SetupRouter(authService, transport.RouterConfig{
		Cookie: transport.CookieConfig{
			Name:   cfg.CookieName,
			Domain: cfg.CookieDomain,
			Secure: cfg.Production(),
		},
		ChallengeRateLimit: cfg.ChallengeRateLimit,
		TrustedProxies:     cfg.TrustedProxies,
		Clock:              clk,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           transport.WithCORS(router, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Listening on %s (scheme %s)", cfg.HTTPAddr, scheme.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
