package chain

import "strings"

// Descriptor holds the static configuration of one chain: display name,
// RPC endpoints (in rotation order) and the native token. Descriptors
// are built from Defaults and mutated only by WithOverride.
type Descriptor struct {
	Family      Family
	Name        string
	Endpoints   []string
	AuthToken   string // bearer token for REST-style APIs, set via override
	NativeToken Token
}

// ID derives the stable chain identifier: the lower-cased display name
// with whitespace stripped.
func (d *Descriptor) ID() string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(d.Name, " ", "")))
}

// WithOverride applies a persisted RPC override and returns the updated
// descriptor. For TON chains the override is an API token and becomes a
// bearer auth header; for every other family it replaces the endpoint
// list with the single custom URL.
func (d Descriptor) WithOverride(override string) Descriptor {
	if d.Family == FamilyTON {
		d.AuthToken = override
		return d
	}
	d.Endpoints = []string{override}
	return d
}

// Endpoint returns the endpoint at the given rotation index, wrapping
// around the configured list.
func (d *Descriptor) Endpoint(index int) string {
	return d.Endpoints[index%len(d.Endpoints)]
}

// Defaults returns the built-in chain set. Native token addresses point
// at the wrapped-token contract (EVM) or mint/master (Solana, TON) so
// the price aggregator can resolve them.
func Defaults() []Descriptor {
	return []Descriptor{
		{
			Family:      FamilyEVM,
			Name:        "Ethereum",
			Endpoints:   []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com", "https://rpc.ankr.com/eth"},
			NativeToken: Hardcode("ETH", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", 18),
		},
		{
			Family:      FamilyEVM,
			Name:        "BNB Smart Chain",
			Endpoints:   []string{"https://bsc-dataseed.bnbchain.org", "https://bsc-rpc.publicnode.com"},
			NativeToken: Hardcode("BNB", "0xbb4CdB9CBd36B01bD1cBaEF60aF814a3f6F0Ee75", 18),
		},
		{
			Family:      FamilyEVM,
			Name:        "Polygon",
			Endpoints:   []string{"https://polygon-rpc.com", "https://polygon-bor-rpc.publicnode.com"},
			NativeToken: Hardcode("POL", "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", 18),
		},
		{
			Family:      FamilyEVM,
			Name:        "Arbitrum One",
			Endpoints:   []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum-one-rpc.publicnode.com"},
			NativeToken: Hardcode("ETH", "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", 18),
		},
		{
			Family:      FamilyEVM,
			Name:        "Base",
			Endpoints:   []string{"https://mainnet.base.org", "https://base-rpc.publicnode.com"},
			NativeToken: Hardcode("ETH", "0x4200000000000000000000000000000000000006", 18),
		},
		{
			Family:      FamilySolana,
			Name:        "Solana",
			Endpoints:   []string{"https://api.mainnet-beta.solana.com", "https://solana-rpc.publicnode.com"},
			NativeToken: Hardcode("SOL", "So11111111111111111111111111111111111111112", 9),
		},
		{
			Family:      FamilyTON,
			Name:        "Ton",
			Endpoints:   []string{"https://tonapi.io/v2"},
			NativeToken: Hardcode("TON", "EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAM9c", 9),
		},
	}
}
