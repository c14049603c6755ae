package portfolio

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-of-profits/internal/chain"
	"book-of-profits/internal/config"
	"book-of-profits/internal/retry"
)

// fakeChain is a scriptable chain.Client.
type fakeChain struct {
	desc       chain.Descriptor
	native     map[string]*big.Int            // account -> balance
	tokens     map[string]map[string]*big.Int // account -> token address -> balance
	holdings   map[string][]chain.Holding     // account -> holdings
	enumerates bool
	nativeErr  error
}

func (f *fakeChain) Descriptor() *chain.Descriptor { return &f.desc }

func (f *fakeChain) NativeBalance(ctx context.Context, address string, endpoint int) (*big.Int, error) {
	if f.nativeErr != nil {
		return nil, f.nativeErr
	}
	if v, ok := f.native[address]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) TokenBalance(ctx context.Context, token chain.Token, address string, endpoint int) (*big.Int, error) {
	if v, ok := f.tokens[address][token.Address]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) TokenDecimals(ctx context.Context, tokenAddress string, endpoint int) (int, error) {
	return 18, nil
}

func (f *fakeChain) Holdings(ctx context.Context, address string, endpoint int) (chain.Support[[]chain.Holding], error) {
	if !f.enumerates {
		return chain.NotSupported[[]chain.Holding](), nil
	}
	held := f.holdings[address]
	if len(held) == 0 {
		return chain.SupportedEmpty[[]chain.Holding](), nil
	}
	return chain.SupportedValue(held), nil
}

func (f *fakeChain) ScanTokens(ctx context.Context, address string, endpoint int) (chain.Support[[]chain.Token], error) {
	return chain.NotSupported[[]chain.Token](), nil
}

func (f *fakeChain) EnumeratesHoldings() bool                      { return f.enumerates }
func (f *fakeChain) ParseWalletAddress(raw string) (string, error) { return raw, nil }
func (f *fakeChain) ParseTokenAddress(raw string) (string, error)  { return raw, nil }

// fakePrices is a scriptable PriceSource.
type fakePrices struct {
	prices map[string]float64
	err    error
}

func (f *fakePrices) Prices(ctx context.Context, addresses []string, progress func()) (map[string]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]float64)
	for _, a := range addresses {
		if p, ok := f.prices[a]; ok {
			out[a] = p
		}
	}
	return out, nil
}

func (f *fakePrices) Symbols(ctx context.Context, addresses []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testPolicy() retry.Policy {
	return retry.Policy{ImmediateRetries: 1, Backoff: 1, MaxBackoff: 1}
}

const (
	wethAddr = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	usdtAddr = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
)

func evmFixture() (*fakeChain, *config.Config) {
	eth := &fakeChain{
		desc: chain.Descriptor{
			Family:      chain.FamilyEVM,
			Name:        "Ethereum",
			Endpoints:   []string{"http://unused"},
			NativeToken: chain.Hardcode("ETH", wethAddr, 18),
		},
		native: map[string]*big.Int{
			"0xWallet": mustBig("1500000000000000000"), // 1.5 ETH
		},
		tokens: map[string]map[string]*big.Int{
			"0xWallet": {usdtAddr: big.NewInt(2500000)}, // 2.5 USDT
		},
	}

	cfg := config.New()
	cfg.Accounts = []config.Account{{Family: chain.FamilyEVM, Address: "0xWallet", Alias: "main"}}
	cfg.Tokens = []config.ChainToken{
		{ChainID: "ethereum", Token: chain.Hardcode("USDT", usdtAddr, 6)},
	}
	return eth, cfg
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big literal " + s)
	}
	return v
}

func TestRun_NativeAndToken(t *testing.T) {
	eth, cfg := evmFixture()
	agg := New(Options{
		Registry: chain.NewRegistry([]chain.Client{eth}, nil),
		Config:   cfg,
		Prices:   &fakePrices{prices: map[string]float64{wethAddr: 2000, usdtAddr: 1}},
		Policy:   testPolicy(),
		Logger:   quietLogger(),
	})

	report, err := agg.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)
	require.NoError(t, report.PricingErr)

	// 1.5 ETH * $2000 sorts above 2.5 USDT * $1.
	assert.Equal(t, "ETH", report.Entries[0].Token.Symbol)
	assert.Equal(t, "main", report.Entries[0].Account)
	assert.InDelta(t, 3000.0, report.Entries[0].USD, 1e-9)
	assert.Equal(t, "USDT", report.Entries[1].Token.Symbol)
	assert.InDelta(t, 2.5, report.Entries[1].USD, 1e-9)
	assert.InDelta(t, 3002.5, report.TotalUSD(), 1e-9)
}

func TestRun_SkipsZeroBalances(t *testing.T) {
	eth, cfg := evmFixture()
	eth.native["0xWallet"] = big.NewInt(0)
	eth.tokens["0xWallet"][usdtAddr] = big.NewInt(0)

	agg := New(Options{
		Registry: chain.NewRegistry([]chain.Client{eth}, nil),
		Config:   cfg,
		Prices:   &fakePrices{},
		Policy:   testPolicy(),
		Logger:   quietLogger(),
	})

	report, err := agg.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
}

func TestRun_SkipsDisabledChains(t *testing.T) {
	eth, cfg := evmFixture()
	agg := New(Options{
		Registry: chain.NewRegistry([]chain.Client{eth}, map[string]bool{"ethereum": false}),
		Config:   cfg,
		Prices:   &fakePrices{},
		Policy:   testPolicy(),
		Logger:   quietLogger(),
	})

	report, err := agg.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
}

func TestRun_HoldingsChain(t *testing.T) {
	const jetton = "EQJetton"
	ton := &fakeChain{
		desc: chain.Descriptor{
			Family:      chain.FamilyTON,
			Name:        "Ton",
			Endpoints:   []string{"http://unused"},
			NativeToken: chain.Hardcode("TON", "EQNative", 9),
		},
		native: map[string]*big.Int{
			"UQWallet": big.NewInt(3000000000), // 3 TON
		},
		holdings: map[string][]chain.Holding{
			"UQWallet": {
				{TokenAddress: jetton, Balance: big.NewInt(2500000)},
				{TokenAddress: "EQDust", Balance: big.NewInt(0)}, // skipped before config lookup
			},
		},
		enumerates: true,
	}

	cfg := config.New()
	cfg.Accounts = []config.Account{{Family: chain.FamilyTON, Address: "UQWallet"}}
	cfg.Tokens = []config.ChainToken{
		{ChainID: "ton", Token: chain.Hardcode("USDT", jetton, 6)},
	}

	agg := New(Options{
		Registry: chain.NewRegistry([]chain.Client{ton}, nil),
		Config:   cfg,
		Prices:   &fakePrices{prices: map[string]float64{jetton: 1, "EQNative": 5}},
		Policy:   testPolicy(),
		Logger:   quietLogger(),
	})

	report, err := agg.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)

	assert.Equal(t, "TON", report.Entries[0].Token.Symbol)
	assert.InDelta(t, 15.0, report.Entries[0].USD, 1e-9)
	// The holding's metadata comes from local config, not the wire.
	assert.Equal(t, "USDT", report.Entries[1].Token.Symbol)
	assert.Equal(t, 6, report.Entries[1].Token.Decimals)
	assert.InDelta(t, 2.5, report.Entries[1].USD, 1e-9)
}

func TestRun_HoldingsUnknownTokenIsFatal(t *testing.T) {
	ton := &fakeChain{
		desc: chain.Descriptor{
			Family:      chain.FamilyTON,
			Name:        "Ton",
			Endpoints:   []string{"http://unused"},
			NativeToken: chain.Hardcode("TON", "EQNative", 9),
		},
		holdings: map[string][]chain.Holding{
			"UQWallet": {{TokenAddress: "EQUnknown", Balance: big.NewInt(1)}},
		},
		enumerates: true,
	}

	cfg := config.New()
	cfg.Accounts = []config.Account{{Family: chain.FamilyTON, Address: "UQWallet"}}

	agg := New(Options{
		Registry: chain.NewRegistry([]chain.Client{ton}, nil),
		Config:   cfg,
		Prices:   &fakePrices{},
		Policy:   testPolicy(),
		Logger:   quietLogger(),
	})

	_, err := agg.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EQUnknown")
}

func TestRun_PricingFailureKeepsBalances(t *testing.T) {
	eth, cfg := evmFixture()
	agg := New(Options{
		Registry: chain.NewRegistry([]chain.Client{eth}, nil),
		Config:   cfg,
		Prices:   &fakePrices{err: errors.New("aggregator down")},
		Policy:   testPolicy(),
		Logger:   quietLogger(),
	})

	report, err := agg.Run(context.Background())
	require.NoError(t, err)
	require.Error(t, report.PricingErr)
	require.Len(t, report.Entries, 2)
	for _, e := range report.Entries {
		assert.Zero(t, e.USD)
	}
}

func TestRun_UnpricedTokenKeepsEntry(t *testing.T) {
	eth, cfg := evmFixture()
	agg := New(Options{
		Registry: chain.NewRegistry([]chain.Client{eth}, nil),
		Config:   cfg,
		Prices:   &fakePrices{prices: map[string]float64{wethAddr: 2000}}, // no USDT price
		Policy:   testPolicy(),
		Logger:   quietLogger(),
	})

	report, err := agg.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, report.PricingErr)
	require.Len(t, report.Entries, 2)
	assert.Zero(t, report.Entries[1].USD)
}

func TestRun_ChainErrorAborts(t *testing.T) {
	eth, cfg := evmFixture()
	eth.nativeErr = errors.New("node down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // keep the uncapped retry loop from spinning

	agg := New(Options{
		Registry: chain.NewRegistry([]chain.Client{eth}, nil),
		Config:   cfg,
		Prices:   &fakePrices{},
		Policy:   testPolicy(),
		Logger:   quietLogger(),
	})

	_, err := agg.Run(ctx)
	require.Error(t, err)
}
