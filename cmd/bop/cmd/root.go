package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"book-of-profits/internal/app"
	"book-of-profits/internal/config"
)

// Verbose is bound to the root --verbose flag.
var Verbose bool

// loadApp reads settings and the data file, prompting for a passphrase
// when the data file is encrypted, and wires the application.
func loadApp() (*app.App, error) {
	settingsPath, err := config.SettingsPath()
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	dataPath := settings.DataFile
	if dataPath == "" {
		dataPath, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	store := config.NewStore(dataPath)
	cfg, err := openStore(store)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if Verbose {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	return app.New(app.Options{
		Settings: settings,
		Store:    store,
		Config:   cfg,
		Logger:   log,
	}), nil
}

// openStore loads the config, prompting for the passphrase until it
// decrypts or the prompt fails. A missing data file yields a fresh
// empty config.
func openStore(store *config.Store) (*config.Config, error) {
	if !store.Exists() {
		return config.New(), nil
	}

	encrypted, err := store.Encrypted()
	if err != nil {
		return nil, err
	}
	if !encrypted {
		return store.Load()
	}

	for {
		pass, err := readPassword("Passphrase: ")
		if err != nil {
			return nil, err
		}
		store.SetPassphrase(pass)
		cfg, err := store.Load()
		if errors.Is(err, config.ErrBadPassphrase) {
			fmt.Fprintln(os.Stderr, "wrong passphrase, try again")
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
}

// readPassword prompts on stderr and reads without echo. Falls back to
// a plain line read when stdin is not a terminal.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
