package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the optional app settings file inside the user
// config directory. It tunes the query engine; the tracked portfolio
// itself lives in the data file.
const SettingsFileName = "bop.yaml"

// Settings are the tunable knobs of the query engine.
type Settings struct {
	// DataFile overrides the data-file location.
	DataFile string `yaml:"data_file"`

	// Window is the maximum number of in-flight remote requests.
	Window int `yaml:"window"`

	// ImmediateRetries is how many failures retry the same endpoint
	// before backoff and rotation kick in.
	ImmediateRetries int `yaml:"immediate_retries"`

	// BackoffSeconds is slept when a rate-limited server gave no hint.
	BackoffSeconds float64 `yaml:"backoff_seconds"`

	// MaxBackoffSeconds caps server-provided hints.
	MaxBackoffSeconds float64 `yaml:"max_backoff_seconds"`

	// MinDisplayUSD hides entries below this value in the balance table.
	// Entries are hidden at presentation only, never dropped from the
	// aggregation.
	MinDisplayUSD float64 `yaml:"min_display_usd"`

	// Stables are token addresses pegged to $1 that skip price lookups.
	Stables []string `yaml:"stables"`
}

// DefaultSettings returns the built-in settings, including the default
// stable-token set (USDT/USDC/DAI across the supported chains).
func DefaultSettings() Settings {
	return Settings{
		Window:            20,
		ImmediateRetries:  3,
		BackoffSeconds:    2,
		MaxBackoffSeconds: 30,
		MinDisplayUSD:     0.01,
		Stables: []string{
			// Ethereum
			"0xdAC17F958D2ee523a2206206994597C13D831ec7", // USDT
			"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", // USDC
			"0x6B175474E89094C44Da98b954EedeAC495271d0F", // DAI
			// BNB Smart Chain
			"0x55d398326f99059fF775485246999027B3197955", // USDT
			"0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", // USDC
			// Solana
			"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", // USDT
			"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", // USDC
			// TON
			"EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs", // USDT
		},
	}
}

// SettingsPath returns the standard settings-file location.
func SettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find config directory: %w", err)
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// LoadSettings reads the settings file at path, layering it over the
// defaults. A missing file yields the defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	if s.Window <= 0 {
		s.Window = DefaultSettings().Window
	}
	return s, nil
}
