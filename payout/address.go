package payout

import (
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// Hash160 computes RIPEMD160(SHA256(data)), the 20-byte P2PKH address
// hash form used throughout the ledger.
func Hash160(data []byte) [20]byte {
	var out [20]byte
	copy(out[:], bsvhash.Hash160(data))
	return out
}

// AddressHash returns the P2PKH address hash of a compressed public key.
func AddressHash(pub *ec.PublicKey) [20]byte {
	return Hash160(pub.Compressed())
}
