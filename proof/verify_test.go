package proof

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/trie/trienode"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrie() *trie.Trie {
	return trie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil))
}

func proveKey(t *testing.T, tr *trie.Trie, key []byte) [][]byte {
	t.Helper()
	var list trienode.ProofList
	require.NoError(t, tr.Prove(crypto.Keccak256(key), &list))
	out := make([][]byte, len(list))
	for i, n := range list {
		out[i] = n
	}
	return out
}

type fixture struct {
	stateRoot common.Hash
	account   *Account
}

// newFixture builds a storage trie holding slots 1..20 and a state trie
// holding the account plus a handful of others, and fetches proofs for
// the account and slot 3.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage := newTrie()
	for i := uint64(1); i <= 20; i++ {
		key := uint256.NewInt(i).Bytes32()
		val, err := rlp.EncodeToBytes(uint256.NewInt(i * 1000).Bytes())
		require.NoError(t, err)
		storage.MustUpdate(crypto.Keccak256(key[:]), val)
	}

	addr := common.HexToAddress("0x00000000219ab540356cbb839cbe05303d7705fa")
	a := &Account{
		Address:     addr,
		Nonce:       1,
		Balance:     uint256.NewInt(32_000_000_000),
		StorageRoot: storage.Hash(),
		CodeHash:    crypto.Keccak256Hash([]byte("code")),
	}
	state := newTrie()
	for i := byte(1); i <= 16; i++ {
		other, err := EncodeAccountValue(uint64(i), uint256.NewInt(uint64(i)), types.EmptyRootHash, types.EmptyCodeHash)
		require.NoError(t, err)
		state.MustUpdate(crypto.Keccak256(common.BytesToAddress([]byte{i}).Bytes()), other)
	}
	val, err := a.Value()
	require.NoError(t, err)
	state.MustUpdate(crypto.Keccak256(addr[:]), val)

	a.AccountProof = proveKey(t, state, addr[:])
	slot := uint256.NewInt(3).Bytes32()
	a.StorageProof = []StorageEntry{{
		Key:   uint256.NewInt(3),
		Value: uint256.NewInt(3000),
		Proof: proveKey(t, storage, slot[:]),
	}}
	return &fixture{stateRoot: state.Hash(), account: a}
}

func TestVerifyAccount(t *testing.T) {
	f := newFixture(t)
	require.NotEmpty(t, f.account.AccountProof)
	require.NoError(t, VerifyAccount(f.stateRoot, f.account))

	f.account.Nonce++
	assert.ErrorIs(t, VerifyAccount(f.stateRoot, f.account), ErrInvalidProof)
	f.account.Nonce--

	assert.ErrorIs(t, VerifyAccount(common.HexToHash("0x01"), f.account), ErrInvalidProof)

	last := len(f.account.AccountProof) - 1
	f.account.AccountProof[last] = bytes.Clone(f.account.AccountProof[last])
	f.account.AccountProof[last][len(f.account.AccountProof[last])-1] ^= 0xff
	assert.ErrorIs(t, VerifyAccount(f.stateRoot, f.account), ErrInvalidProof)
}

func TestVerifyStorage(t *testing.T) {
	f := newFixture(t)
	e := &f.account.StorageProof[0]
	require.NoError(t, VerifyStorage(f.account.StorageRoot, e))

	e.Value = uint256.NewInt(3001)
	assert.ErrorIs(t, VerifyStorage(f.account.StorageRoot, e), ErrInvalidProof)

	e.Value = new(uint256.Int)
	assert.ErrorIs(t, VerifyStorage(f.account.StorageRoot, e), ErrInvalidProof)
}

func TestVerifyStorageAbsent(t *testing.T) {
	storage := newTrie()
	key := uint256.NewInt(1).Bytes32()
	storage.MustUpdate(crypto.Keccak256(key[:]), []byte{0x05})

	missing := uint256.NewInt(99).Bytes32()
	e := &StorageEntry{
		Key:   uint256.NewInt(99),
		Value: new(uint256.Int),
		Proof: proveKey(t, storage, missing[:]),
	}
	require.NoError(t, VerifyStorage(storage.Hash(), e))
}

func TestVerifyStorageEmptyRoot(t *testing.T) {
	e := &StorageEntry{Key: uint256.NewInt(8), Value: new(uint256.Int)}
	require.NoError(t, VerifyStorage(types.EmptyRootHash, e))
	require.NoError(t, VerifyStorage(common.Hash{}, e))

	e.Value = nil
	require.NoError(t, VerifyStorage(types.EmptyRootHash, e))

	e.Value = uint256.NewInt(1)
	assert.ErrorIs(t, VerifyStorage(types.EmptyRootHash, e), ErrInvalidProof)

	// Without nodes, a non-empty root cannot be checked.
	e.Value = new(uint256.Int)
	assert.ErrorIs(t, VerifyStorage(common.HexToHash("0x5709"), e), ErrInvalidProof)
}
