package ton

import (
	"strings"
	"testing"
)

const rawAddr = "0:ca6e321c7cce9ecedf3a42269688047f46156894e29ab79b2d680a314a2c4767"

func TestCanonicalizeWallet_FromRaw(t *testing.T) {
	got, err := CanonicalizeWallet(rawAddr)
	if err != nil {
		t.Fatalf("CanonicalizeWallet: %v", err)
	}
	if strings.Contains(got, ":") {
		t.Errorf("expected friendly form, got %q", got)
	}
	// The friendly form feeds back through unchanged.
	again, err := CanonicalizeWallet(got)
	if err != nil {
		t.Fatalf("CanonicalizeWallet(friendly): %v", err)
	}
	if again != got {
		t.Errorf("not idempotent: %q then %q", got, again)
	}
}

func TestCanonicalizeToken_FromRaw(t *testing.T) {
	got, err := CanonicalizeToken(rawAddr)
	if err != nil {
		t.Fatalf("CanonicalizeToken: %v", err)
	}
	again, err := CanonicalizeToken(got)
	if err != nil {
		t.Fatalf("CanonicalizeToken(friendly): %v", err)
	}
	if again != got {
		t.Errorf("not idempotent: %q then %q", got, again)
	}
}

func TestCanonicalize_FlavorsDiffer(t *testing.T) {
	wallet, err := CanonicalizeWallet(rawAddr)
	if err != nil {
		t.Fatalf("CanonicalizeWallet: %v", err)
	}
	token, err := CanonicalizeToken(rawAddr)
	if err != nil {
		t.Fatalf("CanonicalizeToken: %v", err)
	}
	// Bounceable and non-bounceable encodings of the same account never
	// collide.
	if wallet == token {
		t.Errorf("wallet and token flavors should differ, both %q", wallet)
	}
	// Either flavor normalizes back to the requested one.
	w2, err := CanonicalizeWallet(token)
	if err != nil {
		t.Fatalf("CanonicalizeWallet(token form): %v", err)
	}
	if w2 != wallet {
		t.Errorf("expected %q, got %q", wallet, w2)
	}
}

func TestCanonicalize_Rejects(t *testing.T) {
	bad := []string{
		"",
		"not an address",
		"0:zzzz",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	}
	for _, in := range bad {
		if _, err := CanonicalizeWallet(in); err == nil {
			t.Errorf("CanonicalizeWallet(%q): expected error", in)
		}
	}
}
