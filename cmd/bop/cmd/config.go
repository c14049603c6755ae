package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and protect the data file",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPasswordCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show where the data lives and what it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}
}

func newConfigPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Set or remove the data-file passphrase",
		Long: `Encrypt the data file with a passphrase. Every later invocation
prompts for it before reading the file. An empty passphrase turns
encryption off again.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPassword()
		},
	}
}

func runConfigShow() error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	encrypted := false
	if a.Store.Exists() {
		encrypted, err = a.Store.Encrypted()
		if err != nil {
			return err
		}
	}

	fmt.Printf("Data file: %s\n", a.Store.Path())
	fmt.Printf("Encrypted: %v\n", encrypted)
	fmt.Printf("Accounts:  %d\n", len(a.Config.Accounts))
	fmt.Printf("Tokens:    %d\n", len(a.Config.Tokens))
	fmt.Printf("Overrides: %d\n", len(a.Config.RPCs))
	return nil
}

func runConfigPassword() error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	pass, err := readPassword("New passphrase (empty to disable encryption): ")
	if err != nil {
		return err
	}
	if pass != "" {
		confirm, err := readPassword("Repeat passphrase: ")
		if err != nil {
			return err
		}
		if confirm != pass {
			return fmt.Errorf("passphrases do not match")
		}
	}

	a.Store.SetPassphrase(pass)
	if err := a.Save(); err != nil {
		return err
	}

	if pass == "" {
		fmt.Println("Data file stored in plain text")
	} else {
		fmt.Println("Data file encrypted")
	}
	return nil
}
