package signature

import (
	"crypto/ed25519"
	"fmt"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"github.com/mr-tron/base58"
)

const SchemeSolana = "solana"

// Longest base58 encodings of 32 and 64 bytes. Decoding is quadratic in the
// input length, so anything longer is rejected first.
const (
	maxAddressLen   = 44
	maxSignatureLen = 88
)

// SolanaScheme verifies ed25519 signatures from Solana wallets.
// Addresses and signatures are base58 encoded.
type SolanaScheme struct{}

// NewSolanaScheme creates a new Solana signature scheme
func NewSolanaScheme() ports.SignatureScheme {
	return SolanaScheme{}
}

func (SolanaScheme) Name() string { return SchemeSolana }

// ValidateAddress decodes a base58 address into a 32 byte public key
func (SolanaScheme) ValidateAddress(address string) ([]byte, error) {
	if address == "" || len(address) > maxAddressLen {
		return nil, core.ErrInvalidAddress
	}

	key, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("address is not base58: %w", core.ErrInvalidAddress)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("address must decode to %d bytes: %w", ed25519.PublicKeySize, core.ErrInvalidAddress)
	}

	return key, nil
}

// DecodeSignature decodes a base58 signature into 64 bytes
func (SolanaScheme) DecodeSignature(encoded string) ([]byte, error) {
	if len(encoded) > maxSignatureLen {
		return nil, fmt.Errorf("signature longer than %d characters: %w", maxSignatureLen, core.ErrInvalidSignatureEncoding)
	}

	sig, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("signature is not base58: %w", core.ErrInvalidSignatureEncoding)
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("signature must be %d bytes: %w", ed25519.SignatureSize, core.ErrInvalidSignatureEncoding)
	}

	return sig, nil
}

// Verify checks an ed25519 detached signature
func (SolanaScheme) Verify(message, signature, key []byte) bool {
	if len(key) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(key), message, signature)
}
