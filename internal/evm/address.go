package evm

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Canonicalize validates an EVM address and returns its EIP-55
// mixed-case checksummed form: hex digit i is upper-cased iff nibble i
// of Keccak-256(lowercased hex) exceeds 7. The transform is idempotent.
func Canonicalize(raw string) (string, error) {
	if !strings.HasPrefix(raw, "0x") {
		return "", fmt.Errorf("%q is not a valid EVM address", raw)
	}
	hexPart := raw[2:]
	if len(hexPart) != 40 || !isHex(hexPart) {
		return "", fmt.Errorf("%q is not a valid EVM address", raw)
	}
	lower := strings.ToLower(hexPart)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	sum := h.Sum(nil)

	var b strings.Builder
	b.WriteString("0x")
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		nibble := sum[i/2] >> (4 - (i%2)*4) & 0xf
		if c >= 'a' && nibble > 7 {
			c = c - 'a' + 'A'
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
