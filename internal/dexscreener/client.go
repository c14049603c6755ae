// Package dexscreener queries the DexScreener aggregator for token
// trading pairs and USD prices. Lookups are one request per token,
// issued through the shared retry policy under a bounded concurrency
// window; addresses in the stable-token set short-circuit to $1 without
// touching the network.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"book-of-profits/internal/pool"
	"book-of-profits/internal/retry"
)

// DefaultBaseURL is the public DexScreener API.
const DefaultBaseURL = "https://api.dexscreener.com"

// DefaultTimeout bounds one HTTP attempt.
const DefaultTimeout = 30 * time.Second

// PairToken is one side of a trading pair.
type PairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity is a pair's pooled liquidity. USD may be absent.
type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// Pair is one trading pair as reported by the aggregator.
type Pair struct {
	ChainID     string     `json:"chainId"`
	DexID       string     `json:"dexId"`
	URL         string     `json:"url"`
	PairAddress string     `json:"pairAddress"`
	BaseToken   PairToken  `json:"baseToken"`
	QuoteToken  PairToken  `json:"quoteToken"`
	PriceNative string     `json:"priceNative"`
	PriceUSD    string     `json:"priceUsd"`
	MarketCap   float64    `json:"marketCap"`
	Liquidity   *Liquidity `json:"liquidity"`
}

func (p *Pair) liquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}

// Client queries the aggregator.
type Client struct {
	baseURL string
	client  *http.Client
	policy  retry.Policy
	window  int
	stables map[string]struct{}
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.client = h
	}
}

// WithPolicy sets the retry policy for pair lookups.
func WithPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithWindow sets the concurrency window for batched lookups.
func WithWindow(n int) Option {
	return func(c *Client) {
		c.window = n
	}
}

// WithStables registers token addresses known to be pegged to $1.
// Matching is case-insensitive.
func WithStables(addresses []string) Option {
	return func(c *Client) {
		for _, a := range addresses {
			c.stables[strings.ToLower(a)] = struct{}{}
		}
	}
}

// New creates an aggregator client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		window:  pool.DefaultWindow,
		stables: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) isStable(address string) bool {
	_, ok := c.stables[strings.ToLower(address)]
	return ok
}

type pairsResponse struct {
	Pairs []Pair `json:"pairs"`
}

// TokenPairs performs a single lookup attempt for one token address.
// A null pairs field means "no pairs known" and yields an empty slice.
func (c *Client) TokenPairs(ctx context.Context, address string) ([]Pair, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if rl := retry.FromResponse(resp); rl != nil {
		return nil, rl
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed pairsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Pairs == nil {
		return []Pair{}, nil
	}
	return parsed.Pairs, nil
}

// BestPairs resolves the authoritative pair for each distinct address:
// among a token's pairs, the one with the greatest USD liquidity wins
// (missing liquidity counts as zero). Stable-set addresses produce a
// synthetic $1 pair with no network call. Addresses with no pairs are
// left out of the result. progress, when non-nil, is called once per
// resolved address.
func (c *Client) BestPairs(ctx context.Context, addresses []string, progress func()) (map[string]Pair, error) {
	return c.bestPairs(ctx, addresses, true, progress)
}

func (c *Client) bestPairs(ctx context.Context, addresses []string, useStables bool, progress func()) (map[string]Pair, error) {
	distinct := dedupe(addresses)
	results := make([][]Pair, len(distinct))
	errs := make([]error, len(distinct))

	pool.Each(c.window, len(distinct), func(i int) {
		addr := distinct[i]
		if useStables && c.isStable(addr) {
			results[i] = []Pair{{
				BaseToken: PairToken{Address: addr},
				PriceUSD:  "1.0",
			}}
			if progress != nil {
				progress()
			}
			return
		}
		pairs, err := retry.Do(ctx, c.policy, func(ctx context.Context, _ int) ([]Pair, error) {
			return c.TokenPairs(ctx, addr)
		})
		if err != nil {
			errs[i] = err
			return
		}
		results[i] = pairs
		if progress != nil {
			progress()
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("could not fetch token pairs: %w", err)
		}
	}

	best := make(map[string]Pair, len(distinct))
	for i, addr := range distinct {
		var top *Pair
		for j := range results[i] {
			p := &results[i][j]
			if p.BaseToken.Address != addr {
				continue
			}
			if top == nil || p.liquidityUSD() > top.liquidityUSD() {
				top = p
			}
		}
		if top != nil {
			best[addr] = *top
		}
	}
	return best, nil
}

// Prices resolves USD prices for each address through BestPairs.
// Tokens with no discoverable pair or an unparseable price are simply
// absent from the result.
func (c *Client) Prices(ctx context.Context, addresses []string, progress func()) (map[string]float64, error) {
	best, err := c.BestPairs(ctx, addresses, progress)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(best))
	for addr, pair := range best {
		if pair.PriceUSD == "" {
			continue
		}
		v, err := strconv.ParseFloat(pair.PriceUSD, 64)
		if err != nil {
			continue
		}
		prices[addr] = v
	}
	return prices, nil
}

// Symbols recovers token symbols for the given addresses from their
// best pair. Addresses without pairs are absent from the result. The
// stable short-circuit is bypassed here: a pegged token still has a
// real symbol to discover.
func (c *Client) Symbols(ctx context.Context, addresses []string) (map[string]string, error) {
	best, err := c.bestPairs(ctx, addresses, false, nil)
	if err != nil {
		return nil, err
	}
	symbols := make(map[string]string, len(best))
	for addr, pair := range best {
		if pair.BaseToken.Symbol != "" {
			symbols[addr] = pair.BaseToken.Symbol
		}
	}
	return symbols, nil
}

func dedupe(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	var out []string
	for _, a := range addresses {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
