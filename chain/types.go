package chain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/henridf/storageproof/proof"
	"github.com/henridf/storageproof/spec"
)

// rpcHeader is the header part of an eth_getBlockByNumber result.
type rpcHeader struct {
	Hash        *common.Hash      `json:"hash"`
	ParentHash  common.Hash       `json:"parentHash"`
	UncleHash   common.Hash       `json:"sha3Uncles"`
	Coinbase    common.Address    `json:"miner"`
	Root        common.Hash       `json:"stateRoot"`
	TxHash      common.Hash       `json:"transactionsRoot"`
	ReceiptHash common.Hash       `json:"receiptsRoot"`
	Bloom       *hexutil.Bytes    `json:"logsBloom"`
	Difficulty  *hexutil.Big      `json:"difficulty"`
	Number      *hexutil.Uint64   `json:"number"`
	GasLimit    hexutil.Uint64    `json:"gasLimit"`
	GasUsed     hexutil.Uint64    `json:"gasUsed"`
	Time        hexutil.Uint64    `json:"timestamp"`
	Extra       hexutil.Bytes     `json:"extraData"`
	MixDigest   *common.Hash      `json:"mixHash"`
	Nonce       *types.BlockNonce `json:"nonce"`
	BaseFee     *hexutil.Big      `json:"baseFeePerGas"`
}

func (r *rpcHeader) block() (*spec.Block, error) {
	if r.Hash == nil {
		return nil, fmt.Errorf("block has no hash")
	}
	h := &spec.Header{
		ParentHash:  r.ParentHash,
		UncleHash:   r.UncleHash,
		Coinbase:    r.Coinbase,
		Root:        r.Root,
		TxHash:      r.TxHash,
		ReceiptHash: r.ReceiptHash,
		GasLimit:    uint64(r.GasLimit),
		GasUsed:     uint64(r.GasUsed),
		Time:        uint64(r.Time),
		Extra:       r.Extra,
	}
	if r.Bloom != nil {
		if len(*r.Bloom) != types.BloomByteLength {
			return nil, fmt.Errorf("invalid logs bloom length %d", len(*r.Bloom))
		}
		h.Bloom = *r.Bloom
	}
	if r.Difficulty != nil {
		h.Difficulty = r.Difficulty.ToInt()
	}
	if r.Number != nil {
		h.Number = uint64(*r.Number)
	}
	if r.MixDigest != nil {
		h.MixDigest = *r.MixDigest
	}
	if r.Nonce != nil {
		h.Nonce = *r.Nonce
	}
	if r.BaseFee != nil {
		h.BaseFee = r.BaseFee.ToInt()
	}
	return &spec.Block{Header: h, Hash: *r.Hash}, nil
}

// rpcProof is an EIP-1186 eth_getProof result.
type rpcProof struct {
	Address      common.Address    `json:"address"`
	AccountProof []hexutil.Bytes   `json:"accountProof"`
	Balance      *hexutil.Big      `json:"balance"`
	CodeHash     common.Hash       `json:"codeHash"`
	Nonce        hexutil.Uint64    `json:"nonce"`
	StorageHash  common.Hash       `json:"storageHash"`
	StorageProof []rpcStorageProof `json:"storageProof"`
}

type rpcStorageProof struct {
	Key   string          `json:"key"`
	Value string          `json:"value"`
	Proof []hexutil.Bytes `json:"proof"`
}

func (r *rpcProof) account() (*proof.Account, error) {
	a := &proof.Account{
		Address:      r.Address,
		AccountProof: nodes(r.AccountProof),
		Nonce:        uint64(r.Nonce),
		Balance:      new(uint256.Int),
		StorageRoot:  r.StorageHash,
		CodeHash:     r.CodeHash,
	}
	if r.Balance != nil {
		var overflow bool
		if a.Balance, overflow = uint256.FromBig(r.Balance.ToInt()); overflow {
			return nil, fmt.Errorf("balance %v overflows 256 bits", r.Balance)
		}
	}
	for i, sp := range r.StorageProof {
		key, err := parseWord(sp.Key)
		if err != nil {
			return nil, fmt.Errorf("storage proof %d key: %w", i, err)
		}
		val, err := parseWord(sp.Value)
		if err != nil {
			return nil, fmt.Errorf("storage proof %d value: %w", i, err)
		}
		a.StorageProof = append(a.StorageProof, proof.StorageEntry{
			Key:   key,
			Value: val,
			Proof: nodes(sp.Proof),
		})
	}
	return a, nil
}

func nodes(in []hexutil.Bytes) [][]byte {
	out := make([][]byte, len(in))
	for i, n := range in {
		out[i] = n
	}
	return out
}

// parseWord decodes a hex number of at most 32 bytes. Unlike hexutil
// quantities, leading zeros and odd lengths are accepted since nodes echo
// storage keys back as they were sent.
func parseWord(s string) (*uint256.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) > 32 {
		return nil, fmt.Errorf("%d bytes, max 32", len(b))
	}
	return new(uint256.Int).SetBytes(b), nil
}
