// Package portfolio fans balance obligations out across every watched
// account and enabled chain, and fans the results back into a single
// USD-ordered report.
package portfolio

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/sirupsen/logrus"

	"book-of-profits/internal/amount"
	"book-of-profits/internal/chain"
	"book-of-profits/internal/config"
	"book-of-profits/internal/pool"
	"book-of-profits/internal/retry"
)

// PriceSource attaches USD prices and symbols to token addresses.
// Implemented by the dexscreener client.
type PriceSource interface {
	Prices(ctx context.Context, addresses []string, progress func()) (map[string]float64, error)
	Symbols(ctx context.Context, addresses []string) (map[string]string, error)
}

// Entry is one resolved balance line: a non-zero token holding of one
// account on one chain, with its USD value attached (zero when the
// price aggregator knows no pair).
type Entry struct {
	Account string
	Chain   string
	Token   chain.Token
	Balance *big.Int
	USD     float64
}

// Report is the outcome of one aggregation run. When the pricing phase
// failed wholesale, PricingErr is set and every entry carries USD 0;
// the balance phase is never discarded because of pricing.
type Report struct {
	Entries    []Entry
	PricingErr error
}

// TotalUSD sums the report's USD values.
func (r *Report) TotalUSD() float64 {
	var sum float64
	for _, e := range r.Entries {
		sum += e.USD
	}
	return sum
}

// Aggregator executes balance aggregation runs.
type Aggregator struct {
	registry *chain.Registry
	cfg      *config.Config
	prices   PriceSource
	policy   retry.Policy
	window   int
	log      *logrus.Logger
}

// Options for creating an Aggregator.
type Options struct {
	Registry *chain.Registry
	Config   *config.Config
	Prices   PriceSource
	Policy   retry.Policy
	Window   int
	Logger   *logrus.Logger
}

// New creates an Aggregator.
func New(opts Options) *Aggregator {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	window := opts.Window
	if window <= 0 {
		window = pool.DefaultWindow
	}
	return &Aggregator{
		registry: opts.Registry,
		cfg:      opts.Config,
		prices:   opts.Prices,
		policy:   opts.Policy,
		window:   window,
		log:      log,
	}
}

// nativeObligation queries one account's native balance on one chain.
// holdingsObligation shares the shape.
type nativeObligation struct {
	client  chain.Client
	account config.Account
}

// tokenObligation queries one configured token for one account.
type tokenObligation struct {
	client  chain.Client
	token   chain.Token
	account config.Account
}

// obligations builds the run's work set: natives for every (enabled
// chain, account of that family); explicit token queries for chains
// without holdings enumeration; one holdings call per (enumerating
// chain, account).
func (a *Aggregator) obligations() (natives []nativeObligation, tokens []tokenObligation, holdings []nativeObligation) {
	for _, client := range a.registry.Enabled() {
		desc := client.Descriptor()
		for _, acct := range a.cfg.AccountsOf(desc.Family) {
			natives = append(natives, nativeObligation{client: client, account: acct})
			if client.EnumeratesHoldings() {
				holdings = append(holdings, nativeObligation{client: client, account: acct})
				continue
			}
			for _, ct := range a.cfg.TokensOf(desc.ID()) {
				tokens = append(tokens, tokenObligation{client: client, token: ct.Token, account: acct})
			}
		}
	}
	return natives, tokens, holdings
}

// Run executes one aggregation cycle: balances, then prices, then
// ordering. It returns an error only for context cancellation or a
// data-integrity violation; transient remote failures are absorbed by
// the retry policy and a wholesale pricing failure is reported on the
// Report instead.
func (a *Aggregator) Run(ctx context.Context) (*Report, error) {
	natives, tokens, holdings := a.obligations()
	a.log.WithFields(logrus.Fields{
		"native":   len(natives),
		"token":    len(tokens),
		"holdings": len(holdings),
	}).Info("querying balances")

	var entries []Entry

	nativeResults := make([]*big.Int, len(natives))
	nativeErrs := make([]error, len(natives))
	pool.Each(a.window, len(natives), func(i int) {
		ob := natives[i]
		nativeResults[i], nativeErrs[i] = retry.Do(ctx, a.policy, func(ctx context.Context, ep int) (*big.Int, error) {
			return ob.client.NativeBalance(ctx, ob.account.Address, ep)
		})
	})
	for i, err := range nativeErrs {
		if err != nil {
			return nil, err
		}
		ob := natives[i]
		if nativeResults[i].Sign() == 0 {
			continue
		}
		entries = append(entries, Entry{
			Account: ob.account.Label(),
			Chain:   ob.client.Descriptor().Name,
			Token:   ob.client.Descriptor().NativeToken,
			Balance: nativeResults[i],
		})
	}

	tokenResults := make([]*big.Int, len(tokens))
	tokenErrs := make([]error, len(tokens))
	pool.Each(a.window, len(tokens), func(i int) {
		ob := tokens[i]
		tokenResults[i], tokenErrs[i] = retry.Do(ctx, a.policy, func(ctx context.Context, ep int) (*big.Int, error) {
			return ob.client.TokenBalance(ctx, ob.token, ob.account.Address, ep)
		})
	})
	for i, err := range tokenErrs {
		if err != nil {
			return nil, err
		}
		ob := tokens[i]
		if tokenResults[i].Sign() == 0 {
			continue
		}
		entries = append(entries, Entry{
			Account: ob.account.Label(),
			Chain:   ob.client.Descriptor().Name,
			Token:   ob.token,
			Balance: tokenResults[i],
		})
	}

	holdingsResults := make([]chain.Support[[]chain.Holding], len(holdings))
	holdingsErrs := make([]error, len(holdings))
	pool.Each(a.window, len(holdings), func(i int) {
		ob := holdings[i]
		holdingsResults[i], holdingsErrs[i] = retry.Do(ctx, a.policy, func(ctx context.Context, ep int) (chain.Support[[]chain.Holding], error) {
			return ob.client.Holdings(ctx, ob.account.Address, ep)
		})
	})
	for i, err := range holdingsErrs {
		if err != nil {
			return nil, err
		}
		ob := holdings[i]
		held, ok := holdingsResults[i].Value()
		if !ok {
			continue
		}
		chainID := ob.client.Descriptor().ID()
		for _, h := range held {
			if h.Balance.Sign() == 0 {
				continue
			}
			ct, found := a.cfg.FindToken(chainID, h.TokenAddress)
			if !found {
				return nil, fmt.Errorf("holdings on %s reference token %s which is not in local config; run a token scan first",
					ob.client.Descriptor().Name, h.TokenAddress)
			}
			entries = append(entries, Entry{
				Account: ob.account.Label(),
				Chain:   ob.client.Descriptor().Name,
				Token:   ct.Token,
				Balance: h.Balance,
			})
		}
	}

	report := &Report{Entries: entries}
	a.enrich(ctx, report)

	sort.SliceStable(report.Entries, func(i, j int) bool {
		return report.Entries[j].USD < report.Entries[i].USD
	})
	return report, nil
}

// enrich attaches USD values to the report's entries. Tokens without a
// discoverable pair keep USD 0; a wholesale pricing failure is recorded
// on the report rather than aborting the run.
func (a *Aggregator) enrich(ctx context.Context, report *Report) {
	if len(report.Entries) == 0 || a.prices == nil {
		return
	}
	addresses := make([]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		addresses = append(addresses, e.Token.Address)
	}
	a.log.WithField("tokens", len(addresses)).Info("fetching token prices")

	prices, err := a.prices.Prices(ctx, addresses, nil)
	if err != nil {
		a.log.WithError(err).Warn("price enrichment failed")
		report.PricingErr = err
		return
	}
	for i := range report.Entries {
		e := &report.Entries[i]
		if price, ok := prices[e.Token.Address]; ok {
			e.USD = price * amount.Float(e.Balance, e.Token.Decimals)
		}
	}
}
