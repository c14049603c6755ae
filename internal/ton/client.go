// Package ton implements the chain client for TON over the tonapi-style
// REST interface. TON is the one family with holdings enumeration: a
// single call returns every jetton balance of an account together with
// its metadata.
package ton

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"book-of-profits/internal/chain"
	"book-of-profits/internal/retry"
)

// DefaultTimeout bounds one HTTP attempt; retries are the caller's job.
const DefaultTimeout = 30 * time.Second

// Client issues TON REST calls for one chain descriptor. The
// descriptor's AuthToken, when set, is sent as a bearer header.
type Client struct {
	desc   *chain.Descriptor
	client *http.Client
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.client = h
	}
}

// New creates a TON chain client.
func New(desc *chain.Descriptor, opts ...Option) *Client {
	c := &Client{
		desc:   desc,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Descriptor returns the chain's static configuration.
func (c *Client) Descriptor() *chain.Descriptor {
	return c.desc
}

// get performs a single REST attempt, decoding the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint int, route string, out any) error {
	url := fmt.Sprintf("%s/%s", c.desc.Endpoint(endpoint), route)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.desc.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.desc.AuthToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if rl := retry.FromResponse(resp); rl != nil {
		return rl
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// NativeBalance fetches the account balance in nanotons.
func (c *Client) NativeBalance(ctx context.Context, address string, endpoint int) (*big.Int, error) {
	var result struct {
		Balance int64 `json:"balance"`
	}
	if err := c.get(ctx, endpoint, "accounts/"+address, &result); err != nil {
		return nil, err
	}
	return big.NewInt(result.Balance), nil
}

type jettonMeta struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type jettonBalance struct {
	Balance string     `json:"balance"`
	Jetton  jettonMeta `json:"jetton"`
}

// TokenBalance fetches one jetton balance for an account.
func (c *Client) TokenBalance(ctx context.Context, token chain.Token, address string, endpoint int) (*big.Int, error) {
	var result jettonBalance
	route := fmt.Sprintf("accounts/%s/jettons/%s", address, token.Address)
	if err := c.get(ctx, endpoint, route, &result); err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(result.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("bad jetton balance %q", result.Balance)
	}
	return v, nil
}

// TokenDecimals resolves a jetton master's precision from its metadata.
func (c *Client) TokenDecimals(ctx context.Context, tokenAddress string, endpoint int) (int, error) {
	var result struct {
		Metadata struct {
			Decimals string `json:"decimals"`
		} `json:"metadata"`
	}
	if err := c.get(ctx, endpoint, "jettons/"+tokenAddress, &result); err != nil {
		return 0, err
	}
	d, err := strconv.Atoi(result.Metadata.Decimals)
	if err != nil {
		return 0, fmt.Errorf("bad jetton decimals %q", result.Metadata.Decimals)
	}
	return d, nil
}

func (c *Client) accountJettons(ctx context.Context, address string, endpoint int) ([]jettonBalance, error) {
	canonical, err := CanonicalizeWallet(address)
	if err != nil {
		return nil, err
	}
	var result struct {
		Balances []jettonBalance `json:"balances"`
	}
	if err := c.get(ctx, endpoint, "accounts/"+canonical+"/jettons", &result); err != nil {
		return nil, err
	}
	return result.Balances, nil
}

// Holdings enumerates every jetton balance of the account in one call.
func (c *Client) Holdings(ctx context.Context, address string, endpoint int) (chain.Support[[]chain.Holding], error) {
	balances, err := c.accountJettons(ctx, address, endpoint)
	if err != nil {
		return chain.Support[[]chain.Holding]{}, err
	}
	holdings := make([]chain.Holding, 0, len(balances))
	for _, b := range balances {
		tokenAddr, err := CanonicalizeToken(b.Jetton.Address)
		if err != nil {
			return chain.Support[[]chain.Holding]{}, err
		}
		v, ok := new(big.Int).SetString(b.Balance, 10)
		if !ok {
			return chain.Support[[]chain.Holding]{}, fmt.Errorf("bad jetton balance %q", b.Balance)
		}
		holdings = append(holdings, chain.Holding{TokenAddress: tokenAddr, Balance: v})
	}
	if len(holdings) == 0 {
		return chain.SupportedEmpty[[]chain.Holding](), nil
	}
	return chain.SupportedValue(holdings), nil
}

// ScanTokens reuses the jetton enumeration; symbols come from on-chain
// metadata, so no aggregator cross-reference is needed.
func (c *Client) ScanTokens(ctx context.Context, address string, endpoint int) (chain.Support[[]chain.Token], error) {
	balances, err := c.accountJettons(ctx, address, endpoint)
	if err != nil {
		return chain.Support[[]chain.Token]{}, err
	}
	tokens := make([]chain.Token, 0, len(balances))
	for _, b := range balances {
		tokenAddr, err := CanonicalizeToken(b.Jetton.Address)
		if err != nil {
			return chain.Support[[]chain.Token]{}, err
		}
		tokens = append(tokens, chain.Token{
			Symbol:   b.Jetton.Symbol,
			Address:  tokenAddr,
			Decimals: b.Jetton.Decimals,
		})
	}
	if len(tokens) == 0 {
		return chain.SupportedEmpty[[]chain.Token](), nil
	}
	return chain.SupportedValue(tokens), nil
}

// EnumeratesHoldings reports that TON resolves all tokens in one call.
func (c *Client) EnumeratesHoldings() bool {
	return true
}

// ParseWalletAddress validates and re-encodes in the wallet flavor.
func (c *Client) ParseWalletAddress(raw string) (string, error) {
	return CanonicalizeWallet(raw)
}

// ParseTokenAddress validates and re-encodes in the jetton flavor.
func (c *Client) ParseTokenAddress(raw string) (string, error) {
	return CanonicalizeToken(raw)
}
