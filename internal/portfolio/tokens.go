package portfolio

import (
	"context"
	"fmt"

	"book-of-profits/internal/chain"
	"book-of-profits/internal/retry"
)

// ResolveToken builds a Token for a user-supplied address: the address
// is validated and canonicalized by the chain's codec, decimals come
// from on-chain metadata and the symbol from the price aggregator.
// Validation happens before any network call.
func ResolveToken(ctx context.Context, client chain.Client, prices PriceSource, raw string, policy retry.Policy) (chain.Token, error) {
	address, err := client.ParseTokenAddress(raw)
	if err != nil {
		return chain.Token{}, err
	}

	decimals, err := retry.Do(ctx, policy, func(ctx context.Context, ep int) (int, error) {
		return client.TokenDecimals(ctx, address, ep)
	})
	if err != nil {
		return chain.Token{}, fmt.Errorf("could not fetch token info: %w", err)
	}

	symbols, err := prices.Symbols(ctx, []string{address})
	if err != nil {
		return chain.Token{}, fmt.Errorf("could not fetch token info: %w", err)
	}
	symbol, ok := symbols[address]
	if !ok {
		return chain.Token{}, fmt.Errorf("could not fetch token info: no symbol for %s", address)
	}

	return chain.Token{Symbol: symbol, Address: address, Decimals: decimals}, nil
}

// Scan runs the chain's token discovery for one account under the retry
// policy. The tri-state outcome passes through untouched so callers can
// distinguish "nothing found" from "not supported on this chain".
func Scan(ctx context.Context, client chain.Client, address string, policy retry.Policy) (chain.Support[[]chain.Token], error) {
	return retry.Do(ctx, policy, func(ctx context.Context, ep int) (chain.Support[[]chain.Token], error) {
		return client.ScanTokens(ctx, address, ep)
	})
}
