// Package payout settles ledger transfers on chain. A Vault queues
// Transfer calls as pending P2PKH outputs and flushes them as one batch
// settlement transaction funded by tracked UTXOs.
package payout

import (
	"context"
	"fmt"
	"sync"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
	"github.com/rs/zerolog"

	airdrop "github.com/bitfsorg/libairdrop-go"
	"github.com/bitfsorg/libairdrop-go/ledger"
)

var _ ledger.TokenVault = (*Vault)(nil)

const (
	// DustLimit is the minimum satoshi amount for a standard output.
	DustLimit = uint64(546)

	// DefaultFeeRate is the default fee rate in sat/KB.
	DefaultFeeRate = uint64(1)
)

// UTXO is an unspent output funding the vault.
type UTXO struct {
	TxID         []byte `json:"txid"` // 32 bytes
	Vout         uint32 `json:"vout"`
	Amount       uint64 `json:"amount"` // satoshis
	ScriptPubKey []byte `json:"script_pubkey"`
}

// Broadcaster submits a signed raw transaction to the network.
// network.RPCClient satisfies it.
type Broadcaster interface {
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)
}

// pendingOut is one queued payout awaiting settlement.
type pendingOut struct {
	addr   [20]byte
	amount uint64
}

// Vault implements ledger.TokenVault over real coins. Transfer only
// queues an output; Flush builds, signs, and broadcasts the batch
// settlement transaction, then replaces the spent UTXOs with the change.
type Vault struct {
	mu      sync.Mutex
	key     *ec.PrivateKey
	utxos   []*UTXO
	pending []pendingOut
	feeRate uint64
	log     zerolog.Logger
}

// NewVault creates a vault signing with the given key. All tracked UTXOs
// must be spendable by this key.
func NewVault(key *ec.PrivateKey) (*Vault, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}
	return &Vault{
		key:     key,
		feeRate: DefaultFeeRate,
		log:     airdrop.Logger.With().Str("component", "payout").Logger(),
	}, nil
}

// SetFeeRate overrides the fee rate in sat/KB.
func (v *Vault) SetFeeRate(rate uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if rate > 0 {
		v.feeRate = rate
	}
}

// AddUTXO adds a funding output to the vault.
func (v *Vault) AddUTXO(u *UTXO) error {
	if u == nil {
		return fmt.Errorf("%w: utxo", ErrNilParam)
	}
	if len(u.TxID) != 32 {
		return fmt.Errorf("%w: utxo txid length %d", ErrScriptBuild, len(u.TxID))
	}
	if len(u.ScriptPubKey) == 0 {
		return fmt.Errorf("%w: utxo script", ErrScriptBuild)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.utxos = append(v.utxos, u)
	return nil
}

// Balance reports the satoshis still available for new payouts: tracked
// funds minus what is already queued.
func (v *Vault) Balance() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.available()
}

// Transfer queues a P2PKH payout to the given address hash. It fails if
// the amount is dust or exceeds the remaining balance, so callers see
// per-recipient failures before anything touches the chain.
func (v *Vault) Transfer(to [20]byte, amount uint64) error {
	if amount < DustLimit {
		return fmt.Errorf("%w: %d sat (limit %d)", ErrDustOutput, amount, DustLimit)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if amount > v.available() {
		return fmt.Errorf("%w: need %d sat, have %d sat", ErrInsufficientFunds, amount, v.available())
	}
	v.pending = append(v.pending, pendingOut{addr: to, amount: amount})
	return nil
}

// Pending reports the number of queued payouts.
func (v *Vault) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

// Flush builds the settlement transaction for all queued payouts, signs
// every input, and broadcasts it. On success the spent UTXOs are replaced
// by the change output and the queue is cleared; on failure the queue and
// UTXO set are left intact for a retry.
func (v *Vault) Flush(ctx context.Context, bc Broadcaster) (string, error) {
	if bc == nil {
		return "", fmt.Errorf("%w: broadcaster", ErrNilParam)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.pending) == 0 {
		return "", ErrNothingPending
	}

	tx, changeAmount, err := v.buildSettlement()
	if err != nil {
		return "", err
	}
	if err := v.signSettlement(tx); err != nil {
		return "", err
	}

	txid, err := bc.BroadcastTx(ctx, tx.Hex())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBroadcastFailed, err)
	}

	paid := len(v.pending)
	v.pending = nil
	v.utxos = nil
	if changeAmount > 0 {
		changeScript, err := v.changeScript()
		if err == nil {
			v.utxos = []*UTXO{{
				TxID:         tx.TxID().CloneBytes(),
				Vout:         uint32(paid),
				Amount:       changeAmount,
				ScriptPubKey: changeScript,
			}}
		}
	}

	v.log.Info().
		Str("txid", txid).
		Int("outputs", paid).
		Uint64("change", changeAmount).
		Msg("settlement broadcast")
	return txid, nil
}

// available is the spendable balance under the lock.
func (v *Vault) available() uint64 {
	var total uint64
	for _, u := range v.utxos {
		total += u.Amount
	}
	for _, p := range v.pending {
		if p.amount >= total {
			return 0
		}
		total -= p.amount
	}
	return total
}

// buildSettlement assembles the unsigned transaction: every tracked UTXO
// as input, one P2PKH output per queued payout, change back to the vault
// key. Returns the change amount (0 when the remainder is dust and folds
// into the fee).
func (v *Vault) buildSettlement() (*transaction.Transaction, uint64, error) {
	var totalIn uint64
	for _, u := range v.utxos {
		totalIn += u.Amount
	}
	var totalOut uint64
	for _, p := range v.pending {
		totalOut += p.amount
	}

	// One change output on top of the payouts for the size estimate.
	estSize := estimateTxSize(len(v.utxos), len(v.pending)+1)
	fee := estimateFee(estSize, v.feeRate)
	if totalIn < totalOut+fee {
		return nil, 0, fmt.Errorf("%w: need %d sat, have %d sat",
			ErrInsufficientFunds, totalOut+fee, totalIn)
	}

	tx := transaction.NewTransaction()
	for _, u := range v.utxos {
		h, err := chainhash.NewHash(u.TxID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: utxo txid: %w", ErrScriptBuild, err)
		}
		tx.AddInput(&transaction.TransactionInput{
			SourceTXID:       h,
			SourceTxOutIndex: u.Vout,
			SequenceNumber:   transaction.DefaultSequenceNumber,
		})
	}

	for _, p := range v.pending {
		addr, err := script.NewAddressFromPublicKeyHash(p.addr[:], true)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: recipient address: %w", ErrScriptBuild, err)
		}
		lock, err := p2pkh.Lock(addr)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: recipient lock script: %w", ErrScriptBuild, err)
		}
		tx.Outputs = append(tx.Outputs, &transaction.TransactionOutput{
			Satoshis:      p.amount,
			LockingScript: lock,
		})
	}

	changeAmount := totalIn - totalOut - fee
	if changeAmount > DustLimit {
		changeBytes, err := v.changeScript()
		if err != nil {
			return nil, 0, err
		}
		tx.Outputs = append(tx.Outputs, &transaction.TransactionOutput{
			Satoshis:      changeAmount,
			LockingScript: script.NewFromBytes(changeBytes),
		})
	} else {
		changeAmount = 0
	}
	return tx, changeAmount, nil
}

// signSettlement attaches source outputs and P2PKH unlockers to every
// input and signs, matching UTXOs to inputs by position.
func (v *Vault) signSettlement(tx *transaction.Transaction) error {
	unlocker, err := p2pkh.Unlock(v.key, nil)
	if err != nil {
		return fmt.Errorf("%w: unlocker: %w", ErrSigningFailed, err)
	}
	for i, u := range v.utxos {
		tx.Inputs[i].SetSourceTxOutput(&transaction.TransactionOutput{
			Satoshis:      u.Amount,
			LockingScript: script.NewFromBytes(u.ScriptPubKey),
		})
		tx.Inputs[i].UnlockingScriptTemplate = unlocker
	}
	if err := tx.Sign(); err != nil {
		return fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	return nil
}

// changeScript is the vault key's own P2PKH locking script.
func (v *Vault) changeScript() ([]byte, error) {
	addr, err := script.NewAddressFromPublicKey(v.key.PubKey(), true)
	if err != nil {
		return nil, fmt.Errorf("%w: change address: %w", ErrScriptBuild, err)
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: change lock script: %w", ErrScriptBuild, err)
	}
	return []byte(*lock), nil
}

// estimateTxSize gives a rough serialized size for fee purposes.
// Per input ~148 bytes (P2PKH unlock), per output ~34, base 10.
func estimateTxSize(numInputs, numOutputs int) int {
	return 10 + numInputs*148 + numOutputs*34
}

// estimateFee computes the fee for a size at a sat/KB rate, rounding up.
func estimateFee(txSizeBytes int, feeRate uint64) uint64 {
	if feeRate == 0 {
		feeRate = DefaultFeeRate
	}
	fee := uint64(txSizeBytes) * feeRate
	return (fee + 999) / 1000
}
