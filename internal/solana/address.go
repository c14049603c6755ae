package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// decode32 base58-decodes an address and checks it is exactly 32 bytes.
func decode32(raw string) ([]byte, error) {
	b, err := base58.Decode(raw)
	if err != nil || len(b) != 32 {
		return nil, fmt.Errorf("%q is not a valid Solana address", raw)
	}
	return b, nil
}

// CanonicalizeWallet validates a wallet address: it must base58-decode
// to 32 bytes that form a valid point on the edwards25519 curve
// (off-curve keys cannot be account owners). The canonical form is the
// original base58 string.
func CanonicalizeWallet(raw string) (string, error) {
	b, err := decode32(raw)
	if err != nil {
		return "", err
	}
	if _, err := new(edwards25519.Point).SetBytes(b); err != nil {
		return "", fmt.Errorf("%q is not a valid Solana address", raw)
	}
	return raw, nil
}

// CanonicalizeToken validates a token mint address. Mints may be
// program-derived and thus off-curve, so only the 32-byte decode is
// required.
func CanonicalizeToken(raw string) (string, error) {
	if _, err := decode32(raw); err != nil {
		return "", err
	}
	return raw, nil
}
