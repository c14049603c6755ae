package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"book-of-profits/internal/amount"
)

func NewBalanceCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the aggregated portfolio",
		Long: `Query every enabled chain for the balances of every watched account
and print them as one table, priced in USD and sorted by value.

Entries below the display threshold (min_display_usd in the settings
file) are hidden unless --all is given; they still count toward the
total.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show entries below the display threshold")

	return cmd
}

func runBalance(cmd *cobra.Command, all bool) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	report, err := a.Aggregator().Run(cmd.Context())
	if err != nil {
		return err
	}

	if report.PricingErr != nil {
		fmt.Fprintf(os.Stderr, "warning: prices unavailable: %v\n", report.PricingErr)
	}
	if len(report.Entries) == 0 {
		fmt.Println("No balances found. Add accounts with 'bop account add' and tokens with 'bop token add'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tCHAIN\tTOKEN\tAMOUNT\tUSD")

	hidden := 0
	for _, e := range report.Entries {
		if !all && e.USD < a.Settings.MinDisplayUSD {
			hidden++
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%s\n",
			e.Account,
			e.Chain,
			e.Token.Symbol,
			amount.Format(e.Balance, e.Token.Decimals).String(),
			amount.USD(e.USD),
		)
	}
	w.Flush()

	fmt.Println()
	if hidden > 0 {
		fmt.Printf("%d entries under $%s hidden (use --all to show them)\n", hidden, amount.USD(a.Settings.MinDisplayUSD))
	}
	fmt.Printf("Total: $%s\n", amount.USD(report.TotalUSD()))

	return nil
}
