package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"github.com/sirupsen/logrus"
)

const (
	DefaultNonceTTL = 5 * time.Minute
	nonceBytes      = 24
)

// NonceRegistry issues one-time challenge nonces and consumes them
type NonceRegistry struct {
	store ports.NonceStore
	clock clock.Clock
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewNonceRegistry creates a registry backed by store
func NewNonceRegistry(store ports.NonceStore, clk clock.Clock, ttl time.Duration, log logrus.FieldLogger) *NonceRegistry {
	if ttl <= 0 {
		ttl = DefaultNonceTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &NonceRegistry{
		store: store,
		clock: clk,
		ttl:   ttl,
		log:   log,
	}
}

// TTL returns how long an issued nonce stays valid
func (r *NonceRegistry) TTL() time.Duration {
	return r.ttl
}

// Issue stores a fresh nonce for address, replacing any unconsumed one
func (r *NonceRegistry) Issue(ctx context.Context, address string) (core.NonceRecord, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return core.NonceRecord{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	record := core.NonceRecord{
		Nonce:     base64.RawURLEncoding.EncodeToString(buf),
		ExpiresAt: r.clock.Now().Add(r.ttl),
	}

	if err := r.store.Put(ctx, address, record, r.ttl); err != nil {
		return core.NonceRecord{}, fmt.Errorf("failed to store nonce: %w", err)
	}

	return record, nil
}

// Consume removes the nonce held for address and reports whether it matched.
// The record is removed on every call, so each issued nonce gets one attempt.
func (r *NonceRegistry) Consume(ctx context.Context, address, nonce string) bool {
	record, found, err := r.store.Take(ctx, address)
	if err != nil {
		r.log.WithError(err).WithField("address", address).Warn("nonce store take failed")
		return false
	}

	switch {
	case !found:
		r.log.WithField("address", address).Debug("no nonce issued")
		return false
	case record.Expired(r.clock.Now()):
		r.log.WithField("address", address).Debug("nonce expired")
		return false
	case record.Nonce != nonce:
		r.log.WithField("address", address).Debug("nonce mismatch")
		return false
	}

	return true
}
