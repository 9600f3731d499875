package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie shared by issue and read paths
type CookieConfig struct {
	Name   string
	Domain string // Empty for a host-only cookie
	Secure bool   // Set in production
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(ttl.Seconds()), "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandlers) sessionToken(c *gin.Context) string {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil {
		return ""
	}
	return token
}
