package ports

import (
	"context"
	"time"

	"github.com/layer-3/walletauth/core"
)

// NonceStore holds at most one nonce record per address
type NonceStore interface {
	// Put stores the record for address, replacing any previous one
	Put(ctx context.Context, address string, record core.NonceRecord, ttl time.Duration) error

	// Take atomically reads and removes the record for address.
	// found is false when no record exists.
	Take(ctx context.Context, address string) (record core.NonceRecord, found bool, err error)
}
