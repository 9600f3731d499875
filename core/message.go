package core

import (
	"regexp"
	"strings"
	"time"
)

// DefaultAppName is the application named in the sign-in purpose line
const DefaultAppName = "Superteam Academy"

// TimestampLayout renders UTC timestamps with millisecond precision and a Z suffix
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var nonceLine = regexp.MustCompile(`(?i)nonce:(.*)`)

// BuildMessage renders the challenge text a wallet displays and signs.
// Field order and labels must not change: clients show this text verbatim.
func BuildMessage(appName, address, nonce string, issuedAt, expiresAt time.Time) string {
	if appName == "" {
		appName = DefaultAppName
	}

	return strings.Join([]string{
		"Sign in to " + appName,
		"Address: " + address,
		"Nonce: " + nonce,
		"Issued At: " + FormatTimestamp(issuedAt),
		"Expiration Time: " + FormatTimestamp(expiresAt),
	}, "\n")
}

// ExtractNonce returns the value of the first "Nonce:" line of a message.
// Only the nonce line is load-bearing; the other fields are not validated.
func ExtractNonce(message string) (string, bool) {
	for _, line := range strings.Split(message, "\n") {
		m := nonceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		nonce := strings.TrimSpace(m[1])
		if nonce == "" {
			return "", false
		}
		return nonce, true
	}

	return "", false
}

// FormatTimestamp formats t as ISO-8601 in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
