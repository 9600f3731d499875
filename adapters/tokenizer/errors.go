package tokenizer

import (
	"fmt"

	"github.com/layer-3/walletauth/core"
)

// Rejection reasons are logged but never returned to callers of Decode
var (
	ErrTokenMalformed      = fmt.Errorf("malformed token: %w", core.ErrTokenRejected)
	ErrTokenSignature      = fmt.Errorf("signature mismatch: %w", core.ErrTokenRejected)
	ErrTokenExpired        = fmt.Errorf("token has expired: %w", core.ErrTokenRejected)
	ErrTokenMissingAddress = fmt.Errorf("token has no address: %w", core.ErrTokenRejected)
)
