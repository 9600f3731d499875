package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/service"
	"github.com/sirupsen/logrus"
)

// AuthHandlers contains HTTP handlers for wallet auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
	cookie      CookieConfig
	log         logrus.FieldLogger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService, cookie CookieConfig, log logrus.FieldLogger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		cookie:      cookie,
		log:         log,
	}
}

// Nonce issues a challenge message for a wallet address
func (h *AuthHandlers) Nonce(c *gin.Context) {
	var req struct {
		Address string `json:"address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, core.ErrInvalidPayload)
		return
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required."})
		return
	}

	challenge, err := h.authService.RequestChallenge(c.Request.Context(), address)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        challenge.Message,
		"nonceExpiresAt": core.FormatTimestamp(challenge.ExpiresAt),
	})
}

// Verify checks a signed challenge and sets the session cookie
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		Address   string `json:"address"`
		Message   string `json:"message"`
		Signature string `json:"signature"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, core.ErrInvalidPayload)
		return
	}

	address := strings.TrimSpace(req.Address)
	if address == "" || req.Message == "" || req.Signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address, message, and signature are required."})
		return
	}

	token, err := h.authService.VerifyAndIssueSession(c.Request.Context(), address, req.Message, req.Signature)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, token, h.authService.SessionTTL())

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"address": address,
	})
}

// Session reports whether the request carries a valid session. It never fails.
func (h *AuthHandlers) Session(c *gin.Context) {
	session := h.authService.ReadSession(c.Request.Context(), h.sessionToken(c))
	if !session.Authenticated {
		c.JSON(http.StatusOK, gin.H{"authenticated": false, "address": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"address":       session.Address,
	})
}

// Logout clears the session cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), h.sessionToken(c))
	h.clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the authenticated address
func (h *AuthHandlers) Me(c *gin.Context) {
	// Set by RequireSession
	address, exists := c.Get(ContextAddressKey)
	if !exists {
		h.respondError(c, core.ErrTokenRejected)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
	})
}

// Health reports liveness
func (h *AuthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
