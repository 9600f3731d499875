package ports

import (
	"time"

	"github.com/layer-3/walletauth/core"
)

// SessionTokenizer converts between session payloads and self-contained tokens
type SessionTokenizer interface {
	Encode(address string, now time.Time) (string, error)

	// Decode returns false for every kind of rejection without saying which
	Decode(token string) (*core.SessionPayload, bool)

	TTL() time.Duration
}
