package http

import (
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/service"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// RouterConfig holds transport settings
type RouterConfig struct {
	Cookie             CookieConfig
	ChallengeRateLimit int // Nonce requests per IP per minute, 0 disables
	// TrustedProxies may set the client IP through X-Forwarded-For.
	// Empty means the peer address is always used.
	TrustedProxies []string
	Clock          clock.Clock
}

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, cfg RouterConfig, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.WithError(err).Warn("Invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), RequestID(), LimitBody(maxBodyBytes))

	// Create handlers
	handlers := NewAuthHandlers(authService, cfg.Cookie, log)

	router.GET("/healthz", handlers.Health)

	// Wallet auth routes
	wallet := router.Group("/api/auth/wallet")
	{
		wallet.POST("/nonce", RateLimit(cfg.ChallengeRateLimit, time.Minute, cfg.Clock), handlers.Nonce)
		wallet.POST("/verify", handlers.Verify)
		wallet.GET("/session", handlers.Session)
		wallet.POST("/logout", handlers.Logout)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(handlers.RequireSession())
	{
		api.GET("/me", handlers.Me)
	}

	return router
}

// WithCORS allows credentialed requests from origins. With no origins the
// handler is returned unchanged and the API is same-origin only.
func WithCORS(handler http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return handler
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", requestIDHeader},
		AllowCredentials: true,
	}).Handler(handler)
}
