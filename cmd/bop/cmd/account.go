package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"book-of-profits/internal/chain"
	"book-of-profits/internal/config"
)

func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage watched accounts",
	}

	cmd.AddCommand(newAccountAddCmd())
	cmd.AddCommand(newAccountRemoveCmd())
	cmd.AddCommand(newAccountAliasCmd())
	cmd.AddCommand(newAccountListCmd())

	return cmd
}

func newAccountAddCmd() *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "add [chain-type] [address]",
		Short: "Watch a new address",
		Long: `Watch an address of the given chain type (evm, sol or ton).

The address is validated and canonicalized before it is stored: EVM
addresses get their checksum casing, Solana addresses must decode to a
point on the ed25519 curve, TON addresses are stored in non-bounceable
form. One EVM account covers every EVM chain.

Example:
  bop account add evm 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --alias main
  bop account add sol 5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountAdd(args[0], args[1], alias)
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Display name for the account")

	return cmd
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [address-or-alias]",
		Short: "Stop watching an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountRemove(args[0])
		},
	}
}

func newAccountAliasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alias [address-or-alias] [new-alias]",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountAlias(args[0], args[1])
		},
	}
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List watched accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountList()
		},
	}
}

func runAccountAdd(rawFamily, rawAddress, alias string) error {
	family, err := chain.ParseFamily(rawFamily)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	clients := a.Registry.OfFamily(family)
	if len(clients) == 0 {
		return fmt.Errorf("no chains configured for type %s", family.Label())
	}
	address, err := clients[0].ParseWalletAddress(rawAddress)
	if err != nil {
		return err
	}

	account := config.Account{Family: family, Address: address, Alias: alias}
	if err := a.Config.AddAccount(account); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("Watching %s account %s\n", family.Label(), account.Label())
	return nil
}

func runAccountRemove(query string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	account, err := a.Config.FindAccount(query)
	if err != nil {
		return err
	}
	if err := a.Config.RemoveAccount(account.Family, account.Address); err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("Removed %s account %s\n", account.Family.Label(), account.Label())
	return nil
}

func runAccountAlias(query, alias string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	account, err := a.Config.FindAccount(query)
	if err != nil {
		return err
	}
	for i := range a.Config.Accounts {
		acc := &a.Config.Accounts[i]
		if acc.Family == account.Family && acc.Address == account.Address {
			acc.Alias = alias
		}
	}
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("Account %s is now %q\n", config.ShortAddress(account.Address), alias)
	return nil
}

func runAccountList() error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	if len(a.Config.Accounts) == 0 {
		fmt.Println("No accounts watched yet. Add one with 'bop account add'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tALIAS\tADDRESS")
	for _, f := range chain.Families {
		for _, acc := range a.Config.AccountsOf(f) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.Label(), acc.Alias, acc.Address)
		}
	}
	return w.Flush()
}
