package app

import (
	"time"

	"github.com/sirupsen/logrus"

	"book-of-profits/internal/chain"
	"book-of-profits/internal/config"
	"book-of-profits/internal/dexscreener"
	"book-of-profits/internal/portfolio"
	"book-of-profits/internal/retry"
)

// App wires the tracked portfolio to the chain clients and the price
// source. Commands build one App per invocation and drive everything
// through it.
type App struct {
	Settings config.Settings
	Store    *config.Store
	Config   *config.Config
	Registry *chain.Registry
	Dex      *dexscreener.Client
	Policy   retry.Policy
	Log      *logrus.Logger
}

// Options configure New. Store and Config are required; the rest fall
// back to sane defaults.
type Options struct {
	Settings config.Settings
	Store    *config.Store
	Config   *config.Config
	Logger   *logrus.Logger
}

// New builds the application from a loaded config and settings. Chain
// descriptors start from the built-in defaults with the config's RPC
// overrides applied on top.
func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	policy := retry.Policy{
		ImmediateRetries: opts.Settings.ImmediateRetries,
		Backoff:          time.Duration(opts.Settings.BackoffSeconds * float64(time.Second)),
		MaxBackoff:       time.Duration(opts.Settings.MaxBackoffSeconds * float64(time.Second)),
	}

	dex := dexscreener.New(
		dexscreener.WithPolicy(policy),
		dexscreener.WithWindow(opts.Settings.Window),
		dexscreener.WithStables(opts.Settings.Stables),
	)

	descriptors := config.ApplyOverrides(chain.Defaults(), opts.Config.RPCs)
	clients := buildClients(descriptors, dex)

	return &App{
		Settings: opts.Settings,
		Store:    opts.Store,
		Config:   opts.Config,
		Registry: chain.NewRegistry(clients, opts.Config.ChainsEnabled),
		Dex:      dex,
		Policy:   policy,
		Log:      log,
	}
}

// Aggregator returns a balance aggregator over the enabled chains.
func (a *App) Aggregator() *portfolio.Aggregator {
	return portfolio.New(portfolio.Options{
		Registry: a.Registry,
		Config:   a.Config,
		Prices:   a.Dex,
		Policy:   a.Policy,
		Window:   a.Settings.Window,
		Logger:   a.Log,
	})
}

// Save persists the current config through the store.
func (a *App) Save() error {
	return a.Store.Save(a.Config)
}
