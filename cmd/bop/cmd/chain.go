package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"book-of-profits/internal/chain"
)

func NewChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Manage chains and their RPC endpoints",
	}

	cmd.AddCommand(newChainListCmd())
	cmd.AddCommand(newChainShowCmd())
	cmd.AddCommand(newChainSetCmd())
	cmd.AddCommand(newChainResetCmd())
	cmd.AddCommand(newChainToggleCmd())
	cmd.AddCommand(newChainToggleAllCmd())

	return cmd
}

func newChainListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured chains",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChainList()
		},
	}
}

func newChainShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [chain]",
		Short: "Show one chain's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChainShow(args[0])
		},
	}
}

func newChainSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [chain] [rpc-url]",
		Short: "Override a chain's RPC endpoint",
		Long: `Replace a chain's built-in endpoints with your own.

For EVM chains and Solana, pass a JSON-RPC URL. For TON, pass a tonapi
API key instead; it is sent as a bearer token against the default API
host.

Example:
  bop chain set ethereum https://eth-mainnet.example.com/v2/KEY
  bop chain set ton AEXAMPLEKEY
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChainSet(args[0], args[1])
		},
	}
}

func newChainResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [chain]",
		Short: "Drop a chain's RPC override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChainReset(args[0])
		},
	}
}

func newChainToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [chain]",
		Short: "Enable or disable one chain",
		Long: `Flip a chain's enabled state. Disabled chains are skipped by
'bop balance' but keep their accounts and tokens.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChainToggle(args[0])
		},
	}
}

func newChainToggleAllCmd() *cobra.Command {
	var enable, disable bool

	cmd := &cobra.Command{
		Use:   "toggle-all [chain-type]",
		Short: "Enable or disable chains in bulk",
		Long: `Enable or disable every chain, or every chain of one type when a
chain type (evm, sol or ton) is given.

Example:
  bop chain toggle-all --off
  bop chain toggle-all evm --on
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if enable == disable {
				return fmt.Errorf("pass exactly one of --on or --off")
			}
			family := ""
			if len(args) == 1 {
				family = args[0]
			}
			return runChainToggleAll(family, enable)
		},
	}

	cmd.Flags().BoolVar(&enable, "on", false, "Enable every chain")
	cmd.Flags().BoolVar(&disable, "off", false, "Disable every chain")

	return cmd
}

func runChainList() error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tTYPE\tENABLED\tRPC")
	for _, c := range a.Registry.All() {
		d := c.Descriptor()
		state := "yes"
		if !a.Registry.IsEnabled(d.ID()) {
			state = "no"
		}
		rpc := "default"
		if _, ok := a.Config.RPCs[d.ID()]; ok {
			rpc = "custom"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Family.Label(), state, rpc)
	}
	return w.Flush()
}

func runChainShow(chainID string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	client, err := a.Registry.Find(strings.ToLower(chainID))
	if err != nil {
		return err
	}
	d := client.Descriptor()

	fmt.Printf("Name:    %s\n", d.Name)
	fmt.Printf("Type:    %s\n", d.Family.Label())
	fmt.Printf("Native:  %s (%d decimals)\n", d.NativeToken.Symbol, d.NativeToken.Decimals)
	fmt.Printf("Enabled: %v\n", a.Registry.IsEnabled(d.ID()))
	if override, ok := a.Config.RPCs[d.ID()]; ok {
		if d.Family == chain.FamilyTON {
			fmt.Printf("API key: %s\n", override)
		} else {
			fmt.Printf("RPC:     %s (override)\n", override)
		}
	} else {
		for _, e := range d.Endpoints {
			fmt.Printf("RPC:     %s\n", e)
		}
	}
	return nil
}

func runChainSet(chainID, override string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	client, err := a.Registry.Find(strings.ToLower(chainID))
	if err != nil {
		return err
	}
	d := client.Descriptor()

	// TON overrides are API keys, everything else must be a URL.
	if d.Family != chain.FamilyTON {
		u, err := url.Parse(override)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%q is not a valid RPC URL", override)
		}
	}

	a.Config.RPCs[d.ID()] = override
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("RPC for %s updated\n", d.Name)
	return nil
}

func runChainReset(chainID string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	client, err := a.Registry.Find(strings.ToLower(chainID))
	if err != nil {
		return err
	}
	id := client.Descriptor().ID()
	if _, ok := a.Config.RPCs[id]; !ok {
		return fmt.Errorf("%s has no RPC override", client.Descriptor().Name)
	}
	delete(a.Config.RPCs, id)
	if err := a.Save(); err != nil {
		return err
	}

	fmt.Printf("%s back on default endpoints\n", client.Descriptor().Name)
	return nil
}

func runChainToggle(chainID string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	client, err := a.Registry.Find(strings.ToLower(chainID))
	if err != nil {
		return err
	}
	id := client.Descriptor().ID()
	next := !a.Registry.IsEnabled(id)
	a.Registry.SetEnabled(id, next)
	if err := a.Save(); err != nil {
		return err
	}

	state := "disabled"
	if next {
		state = "enabled"
	}
	fmt.Printf("%s %s\n", client.Descriptor().Name, state)
	return nil
}

func runChainToggleAll(rawFamily string, enable bool) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	clients := a.Registry.All()
	scope := "All chains"
	if rawFamily != "" {
		family, err := chain.ParseFamily(rawFamily)
		if err != nil {
			return err
		}
		clients = a.Registry.OfFamily(family)
		scope = fmt.Sprintf("All %s chains", family.Label())
	}

	for _, c := range clients {
		a.Registry.SetEnabled(c.Descriptor().ID(), enable)
	}
	if err := a.Save(); err != nil {
		return err
	}

	state := "disabled"
	if enable {
		state = "enabled"
	}
	fmt.Printf("%s %s\n", scope, state)
	return nil
}
