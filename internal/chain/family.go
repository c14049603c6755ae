package chain

import "fmt"

// Family identifies one of the supported blockchain protocol groups.
// Each family has its own address format, balance-query wire protocol
// and token semantics.
type Family string

const (
	FamilyEVM    Family = "evm"
	FamilySolana Family = "sol"
	FamilyTON    Family = "ton"
)

// Families lists every supported family in display order.
var Families = []Family{FamilyEVM, FamilySolana, FamilyTON}

// Label returns the human-readable family name.
func (f Family) Label() string {
	switch f {
	case FamilyEVM:
		return "EVM"
	case FamilySolana:
		return "Solana"
	case FamilyTON:
		return "Ton"
	}
	return string(f)
}

// ParseFamily converts a short family identifier ("evm", "sol", "ton")
// into a Family.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case FamilyEVM, FamilySolana, FamilyTON:
		return Family(s), nil
	}
	return "", fmt.Errorf("%q is not a valid chain-type", s)
}
