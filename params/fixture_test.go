package params

import (
	"context"
	"math/big"
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
	"github.com/stretchr/testify/require"

	"github.com/henridf/storageproof/chain"
	"github.com/henridf/storageproof/proof"
	"github.com/henridf/storageproof/spec"
)

var (
	testAccount = common.HexToAddress("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d")
	testSlot    = common.HexToHash("0x0000000000000000000000000000000000000000000000000000000000000008")
	testBlock   = uint64(17_000_000)
)

type fakeSource struct {
	block    *spec.Block
	account  *proof.Account
	blockErr error
	proofErr error
}

func (f *fakeSource) BlockByNumber(ctx context.Context, number uint64) (*spec.Block, error) {
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	if f.block == nil || f.block.Header.Number != number {
		return nil, chain.ErrBlockNotFound
	}
	return f.block, nil
}

func (f *fakeSource) Proof(ctx context.Context, account common.Address, keys []common.Hash, number uint64) (*proof.Account, error) {
	if f.proofErr != nil {
		return nil, f.proofErr
	}
	return f.account, nil
}

func newTrie() *trie.Trie {
	return trie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil))
}

func prove(t *testing.T, tr *trie.Trie, key []byte) [][]byte {
	t.Helper()
	var list trienode.ProofList
	require.NoError(t, tr.Prove(crypto.Keccak256(key), &list))
	out := make([][]byte, len(list))
	for i, n := range list {
		out[i] = n
	}
	return out
}

// newFakeSource builds a consistent block, state trie and storage trie
// holding testAccount with slot testSlot set to 0x2a.
func newFakeSource(t *testing.T) *fakeSource {
	t.Helper()
	return buildSource(t, true)
}

// newEmptyStorageSource is like newFakeSource, but testAccount has no
// storage: the slot reads as zero with an empty proof, as nodes report it.
func newEmptyStorageSource(t *testing.T) *fakeSource {
	t.Helper()
	return buildSource(t, false)
}

func buildSource(t *testing.T, withStorage bool) *fakeSource {
	t.Helper()
	storage := newTrie()
	if withStorage {
		for i := uint64(1); i <= 40; i++ {
			key := uint256.NewInt(i).Bytes32()
			val, err := rlp.EncodeToBytes(uint256.NewInt(i * 3).Bytes())
			require.NoError(t, err)
			storage.MustUpdate(crypto.Keccak256(key[:]), val)
		}
		val, err := rlp.EncodeToBytes([]byte{0x2a})
		require.NoError(t, err)
		storage.MustUpdate(crypto.Keccak256(testSlot[:]), val)
	}

	acct := &proof.Account{
		Address:     testAccount,
		Nonce:       1,
		Balance:     uint256.NewInt(0),
		StorageRoot: storage.Hash(),
		CodeHash:    crypto.Keccak256Hash([]byte{0x60, 0x80}),
	}
	state := newTrie()
	for i := 1; i <= 300; i++ {
		other, err := proof.EncodeAccountValue(uint64(i), uint256.NewInt(uint64(i)), types.EmptyRootHash, types.EmptyCodeHash)
		require.NoError(t, err)
		addr := common.BigToAddress(big.NewInt(int64(i)))
		state.MustUpdate(crypto.Keccak256(addr[:]), other)
	}
	leaf, err := acct.Value()
	require.NoError(t, err)
	state.MustUpdate(crypto.Keccak256(testAccount[:]), leaf)

	acct.AccountProof = prove(t, state, testAccount[:])
	entry := proof.StorageEntry{
		Key:   new(uint256.Int).SetBytes32(testSlot[:]),
		Value: new(uint256.Int),
	}
	if withStorage {
		entry.Value.SetUint64(0x2a)
		entry.Proof = prove(t, storage, testSlot[:])
	}
	acct.StorageProof = []proof.StorageEntry{entry}

	h := &spec.Header{
		ParentHash:  common.HexToHash("0x01"),
		UncleHash:   types.EmptyUncleHash,
		Coinbase:    common.HexToAddress("0x95222290dd7278aa3ddd389cc1e1d165cc4bafe5"),
		Root:        state.Hash(),
		TxHash:      types.EmptyTxsHash,
		ReceiptHash: types.EmptyReceiptsHash,
		Bloom:       make([]byte, types.BloomByteLength),
		Difficulty:  new(big.Int),
		Number:      testBlock,
		GasLimit:    30_000_000,
		GasUsed:     21_000,
		Time:        1_681_338_455,
		Extra:       []byte("rsync-builder.xyz"),
		MixDigest:   common.HexToHash("0x42"),
		BaseFee:     big.NewInt(5_000_000_000),
	}
	return &fakeSource{
		block:   &spec.Block{Header: h, Hash: crypto.Keccak256Hash(spec.EncodeHeader(h, spec.EncodeOptions{}))},
		account: acct,
	}
}

func testRequest() Request {
	return Request{Block: testBlock, Account: testAccount, Slot: testSlot}
}
