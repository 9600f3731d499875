package signature

import (
	"fmt"

	"github.com/layer-3/walletauth/ports"
)

// New returns the signature scheme registered under name
func New(name string) (ports.SignatureScheme, error) {
	switch name {
	case "", SchemeSolana:
		return NewSolanaScheme(), nil
	case SchemeEthereum:
		return NewEthereumScheme(), nil
	default:
		return nil, fmt.Errorf("unknown signature scheme %q", name)
	}
}
