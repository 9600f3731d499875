package signature

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

const SchemeEthereum = "ethereum"

// EthereumScheme verifies EIP-191 personal_sign signatures.
// Addresses are 0x-prefixed hex, signatures are 65 byte hex R || S || V.
type EthereumScheme struct{}

// NewEthereumScheme creates a new Ethereum signature scheme
func NewEthereumScheme() ports.SignatureScheme {
	return EthereumScheme{}
}

func (EthereumScheme) Name() string { return SchemeEthereum }

// ValidateAddress checks the hex form and returns the 20 address bytes
func (EthereumScheme) ValidateAddress(address string) ([]byte, error) {
	if !common.IsHexAddress(address) {
		return nil, core.ErrInvalidAddress
	}

	return common.HexToAddress(address).Bytes(), nil
}

// DecodeSignature decodes a 0x-prefixed 65 byte signature
func (EthereumScheme) DecodeSignature(encoded string) ([]byte, error) {
	sig, err := hexutil.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", core.ErrInvalidSignatureEncoding)
	}
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes: %w", crypto.SignatureLength, core.ErrInvalidSignatureEncoding)
	}

	return sig, nil
}

// Verify recovers the signer of the EIP-191 text hash and compares it to key
func (EthereumScheme) Verify(message, signature, key []byte) bool {
	if len(signature) != crypto.SignatureLength || len(key) != common.AddressLength {
		return false
	}

	// Wallets produce V as 27/28, recovery expects 0/1
	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return false
	}

	return bytes.Equal(crypto.PubkeyToAddress(*pub).Bytes(), key)
}
