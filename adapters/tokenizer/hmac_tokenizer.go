package tokenizer

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"github.com/sirupsen/logrus"
)

const DefaultSessionTTL = 7 * 24 * time.Hour

var encoding = base64.RawURLEncoding

// HMACTokenizer implements the SessionTokenizer interface.
// A token is base64url(JSON payload) "." base64url(HMAC-SHA256 of the encoded payload).
type HMACTokenizer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	log    logrus.FieldLogger
}

// NewHMACTokenizer creates a new session tokenizer
func NewHMACTokenizer(secret []byte, ttl time.Duration, clk clock.Clock, log logrus.FieldLogger) ports.SessionTokenizer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &HMACTokenizer{
		secret: secret,
		ttl:    ttl,
		clock:  clk,
		log:    log,
	}
}

// TTL returns the session lifetime
func (t *HMACTokenizer) TTL() time.Duration {
	return t.ttl
}

// Encode mints a token for address valid until now + TTL
func (t *HMACTokenizer) Encode(address string, now time.Time) (string, error) {
	payload, err := json.Marshal(core.SessionPayload{
		Address: address,
		Exp:     now.Add(t.ttl).UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session payload: %w", err)
	}

	encoded := encoding.EncodeToString(payload)

	sig, err := t.sign(encoded)
	if err != nil {
		return "", err
	}

	return encoded + "." + sig, nil
}

// Decode verifies a token and returns its payload.
// Every rejection looks the same to the caller.
func (t *HMACTokenizer) Decode(token string) (*core.SessionPayload, bool) {
	payload, err := t.decode(token)
	if err != nil {
		t.log.WithError(err).Debug("session token rejected")
		return nil, false
	}

	return payload, true
}

func (t *HMACTokenizer) decode(token string) (*core.SessionPayload, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" {
		return nil, ErrTokenMalformed
	}

	expected, err := t.sign(encoded)
	if err != nil {
		return nil, err
	}

	// Length is already observable, equal length is required by the constant-time compare
	if len(sig) != len(expected) {
		return nil, ErrTokenSignature
	}
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) != 1 {
		return nil, ErrTokenSignature
	}

	raw, err := encoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Join(ErrTokenMalformed, err)
	}

	var payload core.SessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Join(ErrTokenMalformed, err)
	}

	if payload.Exp < t.clock.Now().UnixMilli() {
		return nil, ErrTokenExpired
	}
	if payload.Address == "" {
		return nil, ErrTokenMissingAddress
	}

	return &payload, nil
}

func (t *HMACTokenizer) sign(encoded string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(encoded, t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return encoding.EncodeToString(sig), nil
}
