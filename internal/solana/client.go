// Package solana implements the chain client for Solana over JSON-RPC
// 2.0, including SPL token account queries and token discovery.
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"book-of-profits/internal/chain"
	"book-of-profits/internal/retry"
)

// DefaultTimeout bounds one HTTP attempt; retries are the caller's job.
const DefaultTimeout = 30 * time.Second

// TokenProgramID is the SPL token program, used to enumerate token
// accounts during a scan.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// SymbolSource resolves token symbols through the price aggregator.
// Scanned mints are cross-referenced against it because on-chain token
// accounts carry no symbol.
type SymbolSource interface {
	Symbols(ctx context.Context, addresses []string) (map[string]string, error)
}

// Client issues Solana JSON-RPC calls for one chain descriptor.
type Client struct {
	desc    *chain.Descriptor
	client  *http.Client
	symbols SymbolSource
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.client = h
	}
}

// New creates a Solana chain client. symbols may be nil, in which case
// ScanTokens reports no discoveries.
func New(desc *chain.Descriptor, symbols SymbolSource, opts ...Option) *Client {
	c := &Client{
		desc:    desc,
		client:  &http.Client{Timeout: DefaultTimeout},
		symbols: symbols,
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

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a single JSON-RPC attempt against the endpoint at the
// given rotation index, decoding the result field into out.
func (c *Client) call(ctx context.Context, endpoint int, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "1",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.desc.Endpoint(endpoint), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if rl := retry.FromResponse(resp); rl != nil {
		return rl
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if out != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return nil
}

// NativeBalance fetches the account balance in lamports via getBalance.
func (c *Client) NativeBalance(ctx context.Context, address string, endpoint int) (*big.Int, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := c.call(ctx, endpoint, "getBalance", []any{address}, &result); err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(result.Value), nil
}

// tokenAccount mirrors the jsonParsed projection of an SPL token
// account returned by getTokenAccountsByOwner.
type tokenAccount struct {
	Account struct {
		Data struct {
			Parsed struct {
				Info struct {
					Mint        string `json:"mint"`
					TokenAmount struct {
						Amount   string `json:"amount"`
						Decimals int    `json:"decimals"`
					} `json:"tokenAmount"`
				} `json:"info"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"account"`
}

type tokenAccountsResult struct {
	Value []tokenAccount `json:"value"`
}

// TokenBalance fetches an SPL token balance via getTokenAccountsByOwner
// filtered by mint. An owner with no token account for the mint holds a
// balance of zero; that is a value, not an absence.
func (c *Client) TokenBalance(ctx context.Context, token chain.Token, address string, endpoint int) (*big.Int, error) {
	params := []any{
		address,
		map[string]any{"mint": token.Address},
		map[string]any{"encoding": "jsonParsed"},
	}
	var result tokenAccountsResult
	if err := c.call(ctx, endpoint, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}
	if len(result.Value) == 0 {
		return big.NewInt(0), nil
	}
	raw := result.Value[0].Account.Data.Parsed.Info.TokenAmount.Amount
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("bad token amount %q", raw)
	}
	return v, nil
}

// TokenDecimals resolves a mint's precision via getAccountInfo.
func (c *Client) TokenDecimals(ctx context.Context, tokenAddress string, endpoint int) (int, error) {
	params := []any{
		tokenAddress,
		map[string]any{"encoding": "jsonParsed"},
	}
	var result struct {
		Value *struct {
			Data struct {
				Parsed struct {
					Info struct {
						Decimals int `json:"decimals"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"value"`
	}
	if err := c.call(ctx, endpoint, "getAccountInfo", params, &result); err != nil {
		return 0, err
	}
	if result.Value == nil {
		return 0, fmt.Errorf("mint %s not found", tokenAddress)
	}
	return result.Value.Data.Parsed.Info.Decimals, nil
}

// Holdings is not offered: Solana has no single-call enumeration with
// the metadata the aggregator needs.
func (c *Client) Holdings(ctx context.Context, address string, endpoint int) (chain.Support[[]chain.Holding], error) {
	return chain.NotSupported[[]chain.Holding](), nil
}

// ScanTokens enumerates the address's SPL token accounts and keeps the
// mints the price aggregator knows a symbol for.
func (c *Client) ScanTokens(ctx context.Context, address string, endpoint int) (chain.Support[[]chain.Token], error) {
	if c.symbols == nil {
		return chain.NotSupported[[]chain.Token](), nil
	}
	params := []any{
		address,
		map[string]any{"programId": TokenProgramID},
		map[string]any{"encoding": "jsonParsed"},
	}
	var result tokenAccountsResult
	if err := c.call(ctx, endpoint, "getTokenAccountsByOwner", params, &result); err != nil {
		return chain.Support[[]chain.Token]{}, err
	}
	if len(result.Value) == 0 {
		return chain.SupportedEmpty[[]chain.Token](), nil
	}

	mints := make([]string, 0, len(result.Value))
	decimals := make(map[string]int, len(result.Value))
	for _, acct := range result.Value {
		info := acct.Account.Data.Parsed.Info
		mints = append(mints, info.Mint)
		decimals[info.Mint] = info.TokenAmount.Decimals
	}

	symbols, err := c.symbols.Symbols(ctx, mints)
	if err != nil {
		return chain.Support[[]chain.Token]{}, err
	}

	var tokens []chain.Token
	for _, mint := range mints {
		symbol, ok := symbols[mint]
		if !ok {
			continue
		}
		tokens = append(tokens, chain.Token{
			Symbol:   symbol,
			Address:  mint,
			Decimals: decimals[mint],
		})
	}
	return chain.SupportedValue(tokens), nil
}

// EnumeratesHoldings reports that Solana queries tokens one by one.
func (c *Client) EnumeratesHoldings() bool {
	return false
}

// ParseWalletAddress validates an on-curve account address.
func (c *Client) ParseWalletAddress(raw string) (string, error) {
	return CanonicalizeWallet(raw)
}

// ParseTokenAddress validates a mint address, which may be off-curve.
func (c *Client) ParseTokenAddress(raw string) (string, error) {
	return CanonicalizeToken(raw)
}
