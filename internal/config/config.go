// Package config holds the persisted user configuration: watched
// accounts, custom tokens, RPC overrides and chain toggles, plus the
// encrypted data-file store and the optional app settings file.
package config

import (
	"fmt"

	"book-of-profits/internal/chain"
)

// Account is one watched address. Uniqueness key is (Family, Address);
// the address is stored in canonical form and must have passed family
// validation before it got here.
type Account struct {
	Family  chain.Family `json:"family"`
	Address string       `json:"address"`
	Alias   string       `json:"alias,omitempty"`
}

// ShortAddress abbreviates an address for display: leading segment,
// two dots, last five characters.
func ShortAddress(a string) string {
	head := 5
	if len(a) > 2 && a[:2] == "0x" {
		head = 7
	}
	if len(a) <= head+5 {
		return a
	}
	return a[:head] + ".." + a[len(a)-5:]
}

// Label returns the account's display label: its alias when set,
// otherwise the shortened address.
func (a Account) Label() string {
	if a.Alias != "" {
		return a.Alias
	}
	return ShortAddress(a.Address)
}

// ChainToken binds a custom token to the chain it lives on.
type ChainToken struct {
	ChainID string      `json:"chain_id"`
	Token   chain.Token `json:"token"`
}

// Config is the persisted configuration blob.
type Config struct {
	Accounts      []Account         `json:"accounts,omitempty"`
	Tokens        []ChainToken      `json:"tokens,omitempty"`
	RPCs          map[string]string `json:"rpcs,omitempty"`
	ChainsEnabled map[string]bool   `json:"chains_enabled,omitempty"`
}

// New returns an empty config with initialized maps.
func New() *Config {
	return &Config{
		RPCs:          make(map[string]string),
		ChainsEnabled: make(map[string]bool),
	}
}

// normalize backfills maps after JSON decoding.
func (c *Config) normalize() {
	if c.RPCs == nil {
		c.RPCs = make(map[string]string)
	}
	if c.ChainsEnabled == nil {
		c.ChainsEnabled = make(map[string]bool)
	}
}

// AccountsOf returns the watched accounts of one family.
func (c *Config) AccountsOf(f chain.Family) []Account {
	var out []Account
	for _, a := range c.Accounts {
		if a.Family == f {
			out = append(out, a)
		}
	}
	return out
}

// TokensOf returns the custom tokens configured for one chain.
func (c *Config) TokensOf(chainID string) []ChainToken {
	var out []ChainToken
	for _, t := range c.Tokens {
		if t.ChainID == chainID {
			out = append(out, t)
		}
	}
	return out
}

// FindToken looks a token up by chain and canonical address.
func (c *Config) FindToken(chainID, address string) (ChainToken, bool) {
	for _, t := range c.Tokens {
		if t.ChainID == chainID && t.Token.Address == address {
			return t, true
		}
	}
	return ChainToken{}, false
}

// FindAccount resolves a user-supplied query against full addresses and
// aliases.
func (c *Config) FindAccount(query string) (Account, error) {
	for _, a := range c.Accounts {
		if a.Address == query || (a.Alias != "" && a.Alias == query) {
			return a, nil
		}
	}
	return Account{}, fmt.Errorf("found no account corresponding to %q", query)
}

// AddAccount stores a watched account, rejecting duplicates on the
// (family, address) key.
func (c *Config) AddAccount(a Account) error {
	for _, existing := range c.Accounts {
		if existing.Family == a.Family && existing.Address == a.Address {
			return fmt.Errorf("account %s is already tracked", ShortAddress(a.Address))
		}
	}
	c.Accounts = append(c.Accounts, a)
	return nil
}

// RemoveAccount drops a watched account by (family, address).
func (c *Config) RemoveAccount(f chain.Family, address string) error {
	for i, a := range c.Accounts {
		if a.Family == f && a.Address == address {
			c.Accounts = append(c.Accounts[:i], c.Accounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("found no account corresponding to %q", address)
}

// AddToken stores a custom token, rejecting duplicates per chain.
func (c *Config) AddToken(chainID string, t chain.Token) error {
	if _, ok := c.FindToken(chainID, t.Address); ok {
		return fmt.Errorf("token already added")
	}
	c.Tokens = append(c.Tokens, ChainToken{ChainID: chainID, Token: t})
	return nil
}

// RemoveToken drops a custom token by chain and canonical address.
func (c *Config) RemoveToken(chainID, address string) error {
	for i, t := range c.Tokens {
		if t.ChainID == chainID && t.Token.Address == address {
			c.Tokens = append(c.Tokens[:i], c.Tokens[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("could not find token with address %q", address)
}

// ApplyOverrides maps persisted RPC overrides onto default descriptors.
// It is a pure function: descriptors without an override pass through
// unchanged.
func ApplyOverrides(defaults []chain.Descriptor, rpcs map[string]string) []chain.Descriptor {
	out := make([]chain.Descriptor, len(defaults))
	for i, d := range defaults {
		if override, ok := rpcs[d.ID()]; ok && override != "" {
			out[i] = d.WithOverride(override)
			continue
		}
		out[i] = d
	}
	return out
}
