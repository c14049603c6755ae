package chain

import (
	"context"
	"math/big"
)

// Client is the uniform capability contract every chain family
// implements. Balance and metadata calls perform a single attempt
// against the endpoint at the given rotation index; retry and failover
// are layered on top by the caller so that retry state stays per-call.
//
// Transient failures (network errors, malformed responses, rate limits)
// surface as errors; rate limits specifically as *retry.RateLimited so
// the retry layer can honor the server's backoff hint.
type Client interface {
	// Descriptor returns the chain's static configuration.
	Descriptor() *Descriptor

	// NativeBalance fetches the native token balance in base units.
	NativeBalance(ctx context.Context, address string, endpoint int) (*big.Int, error)

	// TokenBalance fetches the balance of one configured token in base units.
	TokenBalance(ctx context.Context, token Token, address string, endpoint int) (*big.Int, error)

	// TokenDecimals resolves the decimal precision of a token from
	// on-chain metadata.
	TokenDecimals(ctx context.Context, tokenAddress string, endpoint int) (int, error)

	// Holdings enumerates every token balance held by the address in a
	// single call. Families without an enumeration primitive return
	// NotSupported.
	Holdings(ctx context.Context, address string, endpoint int) (Support[[]Holding], error)

	// ScanTokens discovers tokens held by the address, cross-referenced
	// against the price aggregator to recover symbols.
	ScanTokens(ctx context.Context, address string, endpoint int) (Support[[]Token], error)

	// EnumeratesHoldings reports whether Holdings is offered, letting the
	// aggregator partition obligations without issuing probe calls.
	EnumeratesHoldings() bool

	// ParseWalletAddress validates a wallet address and returns its
	// canonical form. It never performs network calls.
	ParseWalletAddress(raw string) (string, error)

	// ParseTokenAddress validates a token address and returns its
	// canonical form. For most families this coincides with wallet
	// validation; TON uses a distinct flavor.
	ParseTokenAddress(raw string) (string, error)
}
