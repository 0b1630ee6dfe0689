package network

import "context"

// ItemLedgerService is the read interface over the external enumerable
// item ledger, plus transaction broadcast for settlement. The snapshot
// enumerator and the push distributor both consume this interface; reads
// are idempotent so callers may retry them freely.
type ItemLedgerService interface {
	// TotalItems returns the number of items ever issued. Item IDs run
	// from 1 to the returned count; some of them may have been burned.
	TotalItems(ctx context.Context) (uint64, error)

	// OwnerOf returns the current owner's address hash for the given item.
	// Burned or never-issued items yield ErrItemNotFound.
	OwnerOf(ctx context.Context, itemID uint64) ([20]byte, error)

	// BroadcastTx submits a raw transaction hex to the network and returns
	// the txid.
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)
}
