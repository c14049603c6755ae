package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
)

// DataFileName is the config blob's file name inside the user config
// directory.
const DataFileName = ".bop-data"

// ageHeader starts every binary age file; its presence is how the store
// detects an encrypted blob.
var ageHeader = []byte("age-encryption.org/v1")

var (
	// ErrPassphraseRequired means the data file is encrypted and no
	// passphrase has been supplied yet.
	ErrPassphraseRequired = errors.New("data file is encrypted, passphrase required")

	// ErrBadPassphrase means decryption failed with the supplied
	// passphrase.
	ErrBadPassphrase = errors.New("bad passphrase")
)

// DefaultPath returns the standard data-file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find config directory: %w", err)
	}
	return filepath.Join(dir, DataFileName), nil
}

// Store reads and writes the config blob, optionally wrapped in
// passphrase-derived (age scrypt) encryption. It is read once at
// startup and written synchronously on every mutation; there are no
// concurrent writers.
type Store struct {
	path       string
	passphrase string
}

// NewStore creates a store over the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the data-file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a data file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// SetPassphrase sets the passphrase used for subsequent Load and Save
// calls. An empty passphrase means plaintext storage.
func (s *Store) SetPassphrase(p string) {
	s.passphrase = p
}

// Encrypted reports whether the on-disk blob is age-encrypted.
func (s *Store) Encrypted() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("could not read data file: %w", err)
	}
	return bytes.HasPrefix(data, ageHeader), nil
}

// Load reads and decodes the config blob. For encrypted blobs the
// passphrase must have been set; a wrong one yields ErrBadPassphrase so
// callers can re-prompt.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("could not read data file: %w", err)
	}

	if bytes.HasPrefix(data, ageHeader) {
		if s.passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		identity, err := age.NewScryptIdentity(s.passphrase)
		if err != nil {
			return nil, fmt.Errorf("derive identity: %w", err)
		}
		r, err := age.Decrypt(bytes.NewReader(data), identity)
		if err != nil {
			return nil, ErrBadPassphrase
		}
		data, err = io.ReadAll(r)
		if err != nil {
			return nil, ErrBadPassphrase
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("bad config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// Save encodes and writes the config blob, encrypting when a passphrase
// is set.
func (s *Store) Save(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if s.passphrase != "" {
		recipient, err := age.NewScryptRecipient(s.passphrase)
		if err != nil {
			return fmt.Errorf("derive recipient: %w", err)
		}
		var buf bytes.Buffer
		w, err := age.Encrypt(&buf, recipient)
		if err != nil {
			return fmt.Errorf("could not encrypt config: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("could not encrypt config: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("could not encrypt config: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("could not write data file: %w", err)
	}
	return nil
}
