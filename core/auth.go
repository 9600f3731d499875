package core

import "time"

// NonceRecord is the single live challenge nonce held for an address
type NonceRecord struct {
	Nonce     string    // Random nonce embedded in the challenge message
	ExpiresAt time.Time // When the nonce stops being accepted
}

// Expired reports whether the record is no longer acceptable at now
func (r NonceRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Challenge represents an authentication challenge handed to a wallet
type Challenge struct {
	Address   string    // Wallet address the challenge was issued for
	Message   string    // Human-readable text the wallet signs
	IssuedAt  time.Time // When the challenge was created
	ExpiresAt time.Time // When the embedded nonce expires
}

// SessionPayload is the content of a session token
type SessionPayload struct {
	Address string `json:"address"`
	Exp     int64  `json:"exp"` // Unix milliseconds
}

// ExpiresAt returns the payload expiry as a time
func (p SessionPayload) ExpiresAt() time.Time {
	return time.UnixMilli(p.Exp)
}

// Session is the answer to "who is this, if anyone"
type Session struct {
	Authenticated bool
	Address       string
}
