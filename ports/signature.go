package ports

// SignatureScheme validates wallet addresses and verifies detached signatures
type SignatureScheme interface {
	Name() string

	// ValidateAddress returns the key material the address encodes,
	// or core.ErrInvalidAddress
	ValidateAddress(address string) ([]byte, error)

	// DecodeSignature decodes the transport encoding of a signature,
	// or returns core.ErrInvalidSignatureEncoding
	DecodeSignature(encoded string) ([]byte, error)

	// Verify checks signature over the exact message bytes
	Verify(message, signature, key []byte) bool
}
