package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 123_000_000, time.FixedZone("CET", 3600))
	msg := BuildMessage("", "addr", "nonce-1", issued, issued.Add(5*time.Minute))

	assert.Equal(t, strings.Join([]string{
		"Sign in to Superteam Academy",
		"Address: addr",
		"Nonce: nonce-1",
		"Issued At: 2025-03-01T11:00:00.123Z",
		"Expiration Time: 2025-03-01T11:05:00.123Z",
	}, "\n"), msg)

	assert.True(t, strings.HasPrefix(BuildMessage("Acme", "a", "n", issued, issued), "Sign in to Acme\n"))
}

func TestExtractNonce(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
		ok      bool
	}{
		{"embedded", "...\nNonce: abc123\n...", "abc123", true},
		{"absent", "no nonce here", "", false},
		{"case insensitive", "NONCE:xyz", "xyz", true},
		{"trims", "Nonce:   padded \t", "padded", true},
		{"empty value", "Nonce:   \nNonce: later", "", false},
		{"first wins", "Nonce: first\nNonce: second", "first", true},
		{"crlf", "Address: a\r\nNonce: abc\r\n", "abc", true},
		{"built message", BuildMessage("", "a", "n-1", time.Unix(0, 0), time.Unix(0, 0)), "n-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractNonce(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNonceRecordExpired(t *testing.T) {
	now := time.Now()
	r := NonceRecord{ExpiresAt: now}

	assert.False(t, r.Expired(now))
	assert.True(t, r.Expired(now.Add(time.Nanosecond)))
}
