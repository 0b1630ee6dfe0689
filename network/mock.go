package network

import "context"

// MockItemLedger is a test double for ItemLedgerService. All function
// fields must be set before the corresponding method is called.
type MockItemLedger struct {
	TotalItemsFn  func(ctx context.Context) (uint64, error)
	OwnerOfFn     func(ctx context.Context, itemID uint64) ([20]byte, error)
	BroadcastTxFn func(ctx context.Context, rawTxHex string) (string, error)
}

func (m *MockItemLedger) TotalItems(ctx context.Context) (uint64, error) {
	return m.TotalItemsFn(ctx)
}

func (m *MockItemLedger) OwnerOf(ctx context.Context, itemID uint64) ([20]byte, error) {
	return m.OwnerOfFn(ctx, itemID)
}

func (m *MockItemLedger) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	return m.BroadcastTxFn(ctx, rawTxHex)
}

// StaticItemLedger serves a fixed item→owner table. Items map IDs to
// owner hashes; IDs absent from the map behave as burned.
type StaticItemLedger struct {
	Items map[uint64][20]byte
	Total uint64
}

func (s *StaticItemLedger) TotalItems(ctx context.Context) (uint64, error) {
	return s.Total, nil
}

func (s *StaticItemLedger) OwnerOf(ctx context.Context, itemID uint64) ([20]byte, error) {
	owner, ok := s.Items[itemID]
	if !ok {
		return [20]byte{}, ErrItemNotFound
	}
	return owner, nil
}

func (s *StaticItemLedger) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	return "", nil
}
