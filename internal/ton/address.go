package ton

import (
	"fmt"

	"github.com/xssnick/tonutils-go/address"
)

func parse(raw string) (*address.Address, error) {
	a, err := address.ParseAddr(raw)
	if err == nil {
		return a, nil
	}
	a, err = address.ParseRawAddr(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid Ton address", raw)
	}
	return a, nil
}

func canonicalize(raw string, bounceable bool) (string, error) {
	a, err := parse(raw)
	if err != nil {
		return "", err
	}
	return a.Bounce(bounceable).Testnet(false).String(), nil
}

// CanonicalizeWallet accepts a user-friendly base64-url or raw hex
// address and re-encodes it in the non-bounceable wallet flavor.
func CanonicalizeWallet(raw string) (string, error) {
	return canonicalize(raw, false)
}

// CanonicalizeToken re-encodes an address in the bounceable flavor used
// for jetton masters. Wallet and token flavors are mutually exclusive
// on TON.
func CanonicalizeToken(raw string) (string, error) {
	return canonicalize(raw, true)
}
