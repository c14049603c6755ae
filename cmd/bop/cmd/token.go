package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"book-of-profits/internal/portfolio"
)

func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage tracked tokens",
	}

	cmd.AddCommand(newTokenAddCmd())
	cmd.AddCommand(newTokenRemoveCmd())
	cmd.AddCommand(newTokenScanCmd())
	cmd.AddCommand(newTokenListCmd())

	return cmd
}

func newTokenAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [chain] [address]",
		Short: "Track a token on one chain",
		Long: `Track a token by its contract (or mint, or jetton master) address.

The token's decimals are fetched from the chain and its symbol from
DexScreener, so this needs network access.

Example:
  bop token add ethereum 0xdAC17F958D2ee523a2206206994597C13D831ec7
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenAdd(cmd, args[0], args[1])
		},
	}
}

func newTokenRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [chain] [address]",
		Short: "Stop tracking a token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenRemove(args[0], args[1])
		},
	}
}

func newTokenScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [chain] [account]",
		Short: "Discover an account's tokens",
		Long: `Ask the chain which tokens the account holds and track them all.

Not every chain can enumerate holdings; on chains that cannot, this
command reports so and tokens must be added by hand.
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenScan(cmd, args[0], args[1])
		},
	}
}

func newTokenListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenList()
		},
	}
}

func runTokenAdd(cmd *cobra.Command, chainID, rawAddress string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	client, err := a.Registry.Find(strings.ToLower(chainID))
	if err != nil {
		return err
	}

	token, err := portfolio.ResolveToken(cmd.Context(), client, a.Dex, rawAddress, a.Policy)
	if err != nil {
		return err
	}

	id := client.Descriptor().ID()
	if err := a.Config.AddToken(id, token); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("Tracking %s (%d decimals) on %s\n", token.Symbol, token.Decimals, client.Descriptor().Name)
	return nil
}

func runTokenRemove(chainID, rawAddress string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	client, err := a.Registry.Find(strings.ToLower(chainID))
	if err != nil {
		return err
	}
	address, err := client.ParseTokenAddress(rawAddress)
	if err != nil {
		return err
	}

	id := client.Descriptor().ID()
	if err := a.Config.RemoveToken(id, address); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("No longer tracking %s on %s\n", address, client.Descriptor().Name)
	return nil
}

func runTokenScan(cmd *cobra.Command, chainID, accountQuery string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	client, err := a.Registry.Find(strings.ToLower(chainID))
	if err != nil {
		return err
	}
	account, err := a.Config.FindAccount(accountQuery)
	if err != nil {
		return err
	}
	if account.Family != client.Descriptor().Family {
		return fmt.Errorf("account %s is a %s account, not usable on %s",
			account.Label(), account.Family.Label(), client.Descriptor().Name)
	}

	found, err := portfolio.Scan(cmd.Context(), client, account.Address, a.Policy)
	if err != nil {
		return err
	}
	if !found.Supported() {
		return fmt.Errorf("%s cannot enumerate tokens; add them with 'bop token add'", client.Descriptor().Name)
	}
	tokens, ok := found.Value()
	if !ok || len(tokens) == 0 {
		fmt.Printf("No tokens found for %s on %s\n", account.Label(), client.Descriptor().Name)
		return nil
	}

	id := client.Descriptor().ID()
	added := 0
	for _, t := range tokens {
		if err := a.Config.AddToken(id, t); err != nil {
			continue // already tracked
		}
		added++
		fmt.Printf("Found %s (%s)\n", t.Symbol, t.Address)
	}
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("%d new tokens tracked on %s\n", added, client.Descriptor().Name)
	return nil
}

func runTokenList() error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	if len(a.Config.Tokens) == 0 {
		fmt.Println("No tokens tracked yet. Add one with 'bop token add'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tSYMBOL\tDECIMALS\tADDRESS")
	for _, c := range a.Registry.All() {
		id := c.Descriptor().ID()
		for _, ct := range a.Config.TokensOf(id) {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.Descriptor().Name, ct.Token.Symbol, ct.Token.Decimals, ct.Token.Address)
		}
	}
	return w.Flush()
}
