package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-of-profits/internal/chain"
)

func sampleConfig() *Config {
	cfg := New()
	cfg.Accounts = []Account{{Family: chain.FamilyEVM, Address: "0xA", Alias: "main"}}
	cfg.Tokens = []ChainToken{{ChainID: "ethereum", Token: chain.Hardcode("USDT", "0xT", 6)}}
	cfg.RPCs["ethereum"] = "https://custom.example.com"
	cfg.ChainsEnabled["base"] = false
	return cfg
}

func TestStore_PlaintextRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	store := NewStore(path)

	assert.False(t, store.Exists())
	require.NoError(t, store.Save(sampleConfig()))
	assert.True(t, store.Exists())

	encrypted, err := store.Encrypted()
	require.NoError(t, err)
	assert.False(t, encrypted)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), loaded)
}

func TestStore_EncryptedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	store := NewStore(path)
	store.SetPassphrase("hunter2")

	require.NoError(t, store.Save(sampleConfig()))

	encrypted, err := store.Encrypted()
	require.NoError(t, err)
	assert.True(t, encrypted)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "0xA", "plaintext should not leak")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), loaded)
}

func TestStore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	store := NewStore(path)
	store.SetPassphrase("hunter2")
	require.NoError(t, store.Save(sampleConfig()))

	fresh := NewStore(path)
	fresh.SetPassphrase("wrong")
	_, err := fresh.Load()
	assert.True(t, errors.Is(err, ErrBadPassphrase), "got %v", err)
}

func TestStore_PassphraseRequired(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	store := NewStore(path)
	store.SetPassphrase("hunter2")
	require.NoError(t, store.Save(sampleConfig()))

	fresh := NewStore(path)
	_, err := fresh.Load()
	assert.True(t, errors.Is(err, ErrPassphraseRequired), "got %v", err)
}

func TestStore_RemoveEncryption(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	store := NewStore(path)
	store.SetPassphrase("hunter2")
	require.NoError(t, store.Save(sampleConfig()))

	store.SetPassphrase("")
	require.NoError(t, store.Save(sampleConfig()))

	encrypted, err := store.Encrypted()
	require.NoError(t, err)
	assert.False(t, encrypted)
}

func TestStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	store := NewStore(path)
	require.NoError(t, store.Save(sampleConfig()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o600))

	_, err := NewStore(path).Load()
	require.Error(t, err)
}
