package spec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Header holds the consensus fields of a pre- or post-London block header.
// Bloom is nil when the source did not report one. BaseFee is nil for
// blocks before the base fee was introduced.
type Header struct {
	ParentHash  common.Hash
	UncleHash   common.Hash
	Coinbase    common.Address
	Root        common.Hash
	TxHash      common.Hash
	ReceiptHash common.Hash
	Bloom       []byte
	Difficulty  *big.Int
	Number      uint64
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   common.Hash
	Nonce       types.BlockNonce
	BaseFee     *big.Int
}

// Block is a header together with the hash the chain reported for it.
type Block struct {
	Header *Header
	Hash   common.Hash
}
