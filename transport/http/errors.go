package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/core"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// Client-visible outcome of each service error. Rejection reasons for
// nonces and tokens are deliberately coarse.
var errorMappings = []errorMapping{
	{core.ErrInvalidPayload, http.StatusBadRequest, "Invalid request payload."},
	{core.ErrInvalidAddress, http.StatusBadRequest, "Invalid wallet address."},
	{core.ErrNonceNotFoundInMessage, http.StatusBadRequest, "Nonce not found in message."},
	{core.ErrInvalidSignatureEncoding, http.StatusBadRequest, "Invalid signature encoding."},
	{core.ErrNonceInvalidOrExpired, http.StatusUnauthorized, "Nonce is invalid, expired, or belongs to another wallet."},
	{core.ErrSignatureVerificationFailed, http.StatusUnauthorized, "Signature verification failed."},
	{core.ErrTokenRejected, http.StatusUnauthorized, "Not authenticated."},
}

func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}

	return http.StatusInternalServerError, "Internal server error."
}

func (h *AuthHandlers) respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}

	c.JSON(status, gin.H{"error": message})
}
