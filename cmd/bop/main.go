package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"book-of-profits/cmd/bop/cmd"
)

func main() {
	root := &cobra.Command{
		Use:   "bop",
		Short: "Track token balances across EVM, Solana and TON wallets",
		Long: `bop aggregates wallet balances across multiple chains into one
USD-priced portfolio view.

Supported chains: Ethereum, BNB Smart Chain, Polygon, Arbitrum One,
Base, Solana and TON. Prices come from DexScreener.

Example workflow:
  1. Watch a wallet:
     bop account add evm 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --alias main

  2. Register the tokens you hold (or scan where supported):
     bop token add ethereum 0xdAC17F958D2ee523a2206206994597C13D831ec7
     bop token scan ton main

  3. Show the portfolio:
     bop balance

The watched accounts and tokens live in a local data file, optionally
encrypted with a passphrase (see 'bop config password').
`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&cmd.Verbose, "verbose", "v", false, "Log progress of remote queries")

	root.AddCommand(cmd.NewBalanceCmd())
	root.AddCommand(cmd.NewAccountCmd())
	root.AddCommand(cmd.NewTokenCmd())
	root.AddCommand(cmd.NewChainCmd())
	root.AddCommand(cmd.NewConfigCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
