package proof

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// ErrMissingProofEntry is returned when a proof response has no entry for
// the requested storage slot.
var ErrMissingProofEntry = errors.New("no storage proof for requested slot")

// Account is an eth_getProof result: the account's leaf value, the path to
// it in the state trie and the proofs of the requested storage slots.
// Proofs are ordered root first.
type Account struct {
	Address      common.Address
	AccountProof [][]byte
	Nonce        uint64
	Balance      *uint256.Int
	StorageRoot  common.Hash
	CodeHash     common.Hash
	StorageProof []StorageEntry
}

// StorageEntry proves the value of one storage slot against the account's
// storage root.
type StorageEntry struct {
	Key   *uint256.Int
	Value *uint256.Int
	Proof [][]byte
}

// EncodeAccountValue returns the state trie leaf value of an account, the
// RLP list [nonce, balance, storageRoot, codeHash].
func EncodeAccountValue(nonce uint64, balance *uint256.Int, storageRoot, codeHash common.Hash) ([]byte, error) {
	return rlp.EncodeToBytes(&types.StateAccount{
		Nonce:    nonce,
		Balance:  balance,
		Root:     storageRoot,
		CodeHash: codeHash[:],
	})
}

// Value is the account's state trie leaf value.
func (a *Account) Value() ([]byte, error) {
	return EncodeAccountValue(a.Nonce, a.Balance, a.StorageRoot, a.CodeHash)
}

// Storage returns the proof entry for slot.
func (a *Account) Storage(slot common.Hash) (*StorageEntry, error) {
	want := new(uint256.Int).SetBytes32(slot[:])
	for i := range a.StorageProof {
		if e := &a.StorageProof[i]; e.Key != nil && e.Key.Eq(want) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %x", ErrMissingProofEntry, slot)
}

// empty reports whether the account has no state, in which case the state
// trie holds no leaf for it.
func (a *Account) empty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.IsZero()) &&
		emptyRoot(a.StorageRoot) &&
		(a.CodeHash == types.EmptyCodeHash || a.CodeHash == common.Hash{})
}
