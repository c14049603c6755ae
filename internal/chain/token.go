package chain

import "math/big"

// Token describes an on-chain asset. Address is the family-specific
// canonical form and doubles as the lookup key against the price
// aggregator. Tokens are immutable once created; edits replace them.
type Token struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
}

// Hardcode builds a token whose metadata is known up front, such as a
// chain's native token.
func Hardcode(symbol, address string, decimals int) Token {
	return Token{Symbol: symbol, Address: address, Decimals: decimals}
}

// Holding is one (token address, raw balance) pair returned by a
// holdings enumeration call. The address is already canonicalized by
// the reporting client.
type Holding struct {
	TokenAddress string
	Balance      *big.Int
}
