package ledger

import (
	"fmt"
	"sync"
)

// TokenVault provides the token balance backing the ledger and performs
// the actual transfers. Implementations must treat Transfer as
// all-or-nothing: a non-nil error means no value moved.
type TokenVault interface {
	// Balance returns the tokens currently held, in satoshis.
	Balance() uint64

	// Transfer moves amount to the recipient address hash.
	Transfer(to [20]byte, amount uint64) error
}

// MemoryVault is an in-process TokenVault keeping plain counters. It backs
// tests and dry runs; production settlement uses the payout package.
type MemoryVault struct {
	mu    sync.Mutex
	funds uint64
	paid  map[[20]byte]uint64
}

// Compile-time interface check.
var _ TokenVault = (*MemoryVault)(nil)

// NewMemoryVault creates a vault holding the given initial balance.
func NewMemoryVault(initial uint64) *MemoryVault {
	return &MemoryVault{
		funds: initial,
		paid:  make(map[[20]byte]uint64),
	}
}

// Balance returns the remaining funds.
func (v *MemoryVault) Balance() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.funds
}

// Deposit adds funds to the vault.
func (v *MemoryVault) Deposit(amount uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.funds += amount
}

// Transfer deducts amount and credits it to the recipient.
func (v *MemoryVault) Transfer(to [20]byte, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.funds < amount {
		return fmt.Errorf("%w: need %d, have %d", ErrVaultInsufficientFunds, amount, v.funds)
	}
	v.funds -= amount
	v.paid[to] += amount
	return nil
}

// PaidTo returns the total transferred to addr.
func (v *MemoryVault) PaidTo(addr [20]byte) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paid[addr]
}

// MockVault is a test double for TokenVault. All function fields must be
// set before the corresponding method is called.
type MockVault struct {
	BalanceFn  func() uint64
	TransferFn func(to [20]byte, amount uint64) error
}

func (m *MockVault) Balance() uint64 { return m.BalanceFn() }

func (m *MockVault) Transfer(to [20]byte, amount uint64) error {
	return m.TransferFn(to, amount)
}
