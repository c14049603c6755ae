package app

import (
	"book-of-profits/internal/chain"
	"book-of-profits/internal/dexscreener"
	"book-of-profits/internal/evm"
	"book-of-profits/internal/solana"
	"book-of-profits/internal/ton"
)

// buildClients constructs one client per descriptor. The slice owns the
// descriptors so taking pointers into it is safe.
func buildClients(descriptors []chain.Descriptor, dex *dexscreener.Client) []chain.Client {
	clients := make([]chain.Client, 0, len(descriptors))
	for i := range descriptors {
		d := &descriptors[i]
		switch d.Family {
		case chain.FamilySolana:
			clients = append(clients, solana.New(d, dex))
		case chain.FamilyTON:
			clients = append(clients, ton.New(d))
		default:
			clients = append(clients, evm.New(d))
		}
	}
	return clients
}
