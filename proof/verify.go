package proof

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
)

// ErrInvalidProof is returned when a Merkle proof does not lead from the
// expected root to the expected value.
var ErrInvalidProof = errors.New("invalid merkle proof")

// VerifyAccount checks that the account proof leads from stateRoot to the
// account's leaf value.
func VerifyAccount(stateRoot common.Hash, a *Account) error {
	got, err := prove(stateRoot, crypto.Keccak256(a.Address[:]), a.AccountProof)
	if err != nil {
		return fmt.Errorf("%w: account %s: %v", ErrInvalidProof, a.Address, err)
	}
	if got == nil && a.empty() {
		return nil
	}
	want, err := a.Value()
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: account %s: leaf %x, expected %x", ErrInvalidProof, a.Address, got, want)
	}
	return nil
}

// VerifyStorage checks that the storage proof leads from storageRoot to the
// slot's value. A zero value must be proven absent; under an empty storage
// trie that proof has no nodes.
func VerifyStorage(storageRoot common.Hash, e *StorageEntry) error {
	key := e.Key.Bytes32()
	zero := e.Value == nil || e.Value.IsZero()
	if emptyRoot(storageRoot) && len(e.Proof) == 0 {
		if !zero {
			return fmt.Errorf("%w: slot %x: value %v under empty storage root", ErrInvalidProof, key, e.Value)
		}
		return nil
	}
	got, err := prove(storageRoot, crypto.Keccak256(key[:]), e.Proof)
	if err != nil {
		return fmt.Errorf("%w: slot %x: %v", ErrInvalidProof, key, err)
	}
	if zero {
		if got != nil {
			return fmt.Errorf("%w: slot %x: leaf %x, expected none", ErrInvalidProof, key, got)
		}
		return nil
	}
	want, err := rlp.EncodeToBytes(e.Value.Bytes())
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: slot %x: leaf %x, expected %x", ErrInvalidProof, key, got, want)
	}
	return nil
}

func emptyRoot(root common.Hash) bool {
	return root == types.EmptyRootHash || root == common.Hash{}
}

func prove(root common.Hash, key []byte, nodes [][]byte) ([]byte, error) {
	db := memorydb.New()
	for _, node := range nodes {
		if err := db.Put(crypto.Keccak256(node), node); err != nil {
			return nil, err
		}
	}
	return trie.VerifyProof(root, key, db)
}
