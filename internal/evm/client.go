// Package evm implements the chain client for account-based EVM chains
// over JSON-RPC 2.0.
package evm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"book-of-profits/internal/chain"
	"book-of-profits/internal/retry"
)

// DefaultTimeout bounds one HTTP attempt; retries are the caller's job.
const DefaultTimeout = 30 * time.Second

// ERC-20 function selectors.
const (
	selectorBalanceOf = "0x70a08231"
	selectorDecimals  = "0x313ce567"
)

// Client issues EVM JSON-RPC calls for one chain descriptor.
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

// New creates an EVM chain client.
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

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a single JSON-RPC attempt against the endpoint at the
// given rotation index and returns the raw hex result string.
func (c *Client) call(ctx context.Context, endpoint int, method string, params []any) (string, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "1",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.desc.Endpoint(endpoint), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if rl := retry.FromResponse(resp); rl != nil {
		return "", rl
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return "", rpcResp.Error
	}
	return rpcResp.Result, nil
}

// parseHexBig decodes a 0x-prefixed hex quantity into a big.Int.
func parseHexBig(s string) (*big.Int, error) {
	hexPart := strings.TrimPrefix(s, "0x")
	if hexPart == "" {
		return nil, fmt.Errorf("empty hex result")
	}
	v, ok := new(big.Int).SetString(hexPart, 16)
	if !ok {
		return nil, fmt.Errorf("bad hex result %q", s)
	}
	return v, nil
}

// NativeBalance fetches the account balance in wei via eth_getBalance.
func (c *Client) NativeBalance(ctx context.Context, address string, endpoint int) (*big.Int, error) {
	result, err := c.call(ctx, endpoint, "eth_getBalance", []any{address, "latest"})
	if err != nil {
		return nil, err
	}
	return parseHexBig(result)
}

// TokenBalance fetches an ERC-20 balance via eth_call to balanceOf.
func (c *Client) TokenBalance(ctx context.Context, token chain.Token, address string, endpoint int) (*big.Int, error) {
	data := selectorBalanceOf + strings.Repeat("0", 24) + strings.ToLower(strings.TrimPrefix(address, "0x"))
	result, err := c.call(ctx, endpoint, "eth_call", []any{
		map[string]any{"to": token.Address, "data": data},
		"latest",
	})
	if err != nil {
		return nil, err
	}
	return parseHexBig(result)
}

// TokenDecimals resolves an ERC-20's precision via eth_call to decimals.
func (c *Client) TokenDecimals(ctx context.Context, tokenAddress string, endpoint int) (int, error) {
	result, err := c.call(ctx, endpoint, "eth_call", []any{
		map[string]any{"to": tokenAddress, "data": selectorDecimals},
		"latest",
	})
	if err != nil {
		return 0, err
	}
	v, err := parseHexBig(result)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("decimals out of range: %s", v)
	}
	return int(v.Int64()), nil
}

// Holdings is not offered: EVM has no generic token enumeration primitive.
func (c *Client) Holdings(ctx context.Context, address string, endpoint int) (chain.Support[[]chain.Holding], error) {
	return chain.NotSupported[[]chain.Holding](), nil
}

// ScanTokens is not offered for the same reason as Holdings.
func (c *Client) ScanTokens(ctx context.Context, address string, endpoint int) (chain.Support[[]chain.Token], error) {
	return chain.NotSupported[[]chain.Token](), nil
}

// EnumeratesHoldings reports that EVM chains query tokens one by one.
func (c *Client) EnumeratesHoldings() bool {
	return false
}

// ParseWalletAddress validates and checksums an address.
func (c *Client) ParseWalletAddress(raw string) (string, error) {
	return Canonicalize(raw)
}

// ParseTokenAddress coincides with wallet validation on EVM.
func (c *Client) ParseTokenAddress(raw string) (string, error) {
	return Canonicalize(raw)
}
