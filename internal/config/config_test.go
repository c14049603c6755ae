package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-of-profits/internal/chain"
)

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0x5aAeb..BeAed", ShortAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.Equal(t, "5Q544..ge4j1", ShortAddress("5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"))
	assert.Equal(t, "short", ShortAddress("short"))
}

func TestAccount_Label(t *testing.T) {
	withAlias := Account{Address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", Alias: "main"}
	assert.Equal(t, "main", withAlias.Label())

	noAlias := Account{Address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}
	assert.Equal(t, ShortAddress(noAlias.Address), noAlias.Label())
}

func TestConfig_Accounts(t *testing.T) {
	cfg := New()

	acc := Account{Family: chain.FamilyEVM, Address: "0xA", Alias: "main"}
	require.NoError(t, cfg.AddAccount(acc))
	require.Error(t, cfg.AddAccount(acc), "duplicate accounts are rejected")
	require.NoError(t, cfg.AddAccount(Account{Family: chain.FamilySolana, Address: "SolA"}))

	assert.Len(t, cfg.AccountsOf(chain.FamilyEVM), 1)
	assert.Len(t, cfg.AccountsOf(chain.FamilyTON), 0)

	found, err := cfg.FindAccount("main")
	require.NoError(t, err)
	assert.Equal(t, "0xA", found.Address)

	found, err = cfg.FindAccount("SolA")
	require.NoError(t, err)
	assert.Equal(t, chain.FamilySolana, found.Family)

	_, err = cfg.FindAccount("nobody")
	require.Error(t, err)

	require.NoError(t, cfg.RemoveAccount(chain.FamilyEVM, "0xA"))
	require.Error(t, cfg.RemoveAccount(chain.FamilyEVM, "0xA"))
	assert.Len(t, cfg.Accounts, 1)
}

func TestConfig_Tokens(t *testing.T) {
	cfg := New()
	usdt := chain.Hardcode("USDT", "0xdAC17F958D2ee523a2206206994597C13D831ec7", 6)

	require.NoError(t, cfg.AddToken("ethereum", usdt))
	require.Error(t, cfg.AddToken("ethereum", usdt), "duplicate tokens are rejected")
	// The same address on another chain is a distinct token.
	require.NoError(t, cfg.AddToken("polygon", usdt))

	assert.Len(t, cfg.TokensOf("ethereum"), 1)

	ct, ok := cfg.FindToken("ethereum", usdt.Address)
	require.True(t, ok)
	assert.Equal(t, "USDT", ct.Token.Symbol)

	_, ok = cfg.FindToken("base", usdt.Address)
	assert.False(t, ok)

	require.NoError(t, cfg.RemoveToken("ethereum", usdt.Address))
	_, ok = cfg.FindToken("ethereum", usdt.Address)
	assert.False(t, ok)
	assert.Len(t, cfg.TokensOf("polygon"), 1)
}

func TestApplyOverrides(t *testing.T) {
	defaults := chain.Defaults()
	rpcs := map[string]string{
		"ethereum": "https://custom.example.com",
		"ton":      "api-key",
		"solana":   "", // empty overrides are ignored
	}

	out := ApplyOverrides(defaults, rpcs)
	require.Len(t, out, len(defaults))

	for i, d := range out {
		switch d.ID() {
		case "ethereum":
			assert.Equal(t, []string{"https://custom.example.com"}, d.Endpoints)
		case "ton":
			assert.Equal(t, "api-key", d.AuthToken)
			assert.Equal(t, defaults[i].Endpoints, d.Endpoints)
		default:
			assert.Equal(t, defaults[i].Endpoints, d.Endpoints)
			assert.Empty(t, d.AuthToken)
		}
	}
}
