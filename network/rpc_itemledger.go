package network

import (
	"context"
	"encoding/hex"
	"fmt"
)

// Compile-time interface check.
var _ ItemLedgerService = (*RPCClient)(nil)

// TotalItems returns the number of items ever issued on the ledger.
func (c *RPCClient) TotalItems(ctx context.Context) (uint64, error) {
	var total uint64
	if err := c.Call(ctx, "gettotalitems", nil, &total); err != nil {
		return 0, fmt.Errorf("network: get total items: %w", err)
	}
	return total, nil
}

// OwnerOf returns the current owner's 20-byte address hash for itemID.
// The node reports unknown or burned items with its not-found error code,
// which surfaces here as ErrItemNotFound.
func (c *RPCClient) OwnerOf(ctx context.Context, itemID uint64) ([20]byte, error) {
	var owner [20]byte
	var ownerHex string
	if err := c.Call(ctx, "getitemowner", []interface{}{itemID}, &ownerHex); err != nil {
		return owner, fmt.Errorf("network: get owner of item %d: %w", itemID, err)
	}

	decoded, err := hex.DecodeString(ownerHex)
	if err != nil {
		return owner, fmt.Errorf("%w: item %d: %w", ErrInvalidOwner, itemID, err)
	}
	if len(decoded) != 20 {
		return owner, fmt.Errorf("%w: item %d: got %d bytes", ErrInvalidOwner, itemID, len(decoded))
	}
	copy(owner[:], decoded)
	return owner, nil
}

// BroadcastTx submits a raw transaction hex to the network.
func (c *RPCClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	var txid string
	if err := c.Call(ctx, "sendrawtransaction", []interface{}{rawTxHex}, &txid); err != nil {
		return "", fmt.Errorf("network: broadcast tx: %w", err)
	}
	return txid, nil
}
