package spec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// stateRootIndex is the position of the state root in the header list.
const stateRootIndex = 3

// EncodeOptions selects how ambiguous header shapes are serialized.
type EncodeOptions struct {
	// OmitZeroBaseFee drops a base fee of exactly zero and encodes a
	// 15-item list. By default a present base fee is always encoded.
	OmitZeroBaseFee bool
}

// EncodeHeader returns the canonical RLP encoding of h: a list of 15 items,
// or 16 when the base fee is encoded.
func EncodeHeader(h *Header, opts EncodeOptions) []byte {
	w := rlp.NewEncoderBuffer(nil)
	l := w.List()
	w.WriteBytes(h.ParentHash[:])
	w.WriteBytes(h.UncleHash[:])
	w.WriteBytes(h.Coinbase[:])
	w.WriteBytes(h.Root[:])
	w.WriteBytes(h.TxHash[:])
	w.WriteBytes(h.ReceiptHash[:])
	w.WriteBytes(h.Bloom)
	if h.Difficulty == nil {
		w.Write(rlp.EmptyString)
	} else {
		w.WriteBigInt(h.Difficulty)
	}
	w.WriteUint64(h.Number)
	w.WriteUint64(h.GasLimit)
	w.WriteUint64(h.GasUsed)
	w.WriteUint64(h.Time)
	w.WriteBytes(h.Extra)
	w.WriteBytes(h.MixDigest[:])
	w.WriteBytes(h.Nonce[:])
	if h.BaseFee != nil && !(opts.OmitZeroBaseFee && h.BaseFee.Sign() == 0) {
		w.WriteBigInt(h.BaseFee)
	}
	w.ListEnd(l)
	return w.ToBytes()
}

// StateRootOf reads the state root back out of an encoded header.
func StateRootOf(enc []byte) (common.Hash, error) {
	content, _, err := rlp.SplitList(enc)
	if err != nil {
		return common.Hash{}, fmt.Errorf("decoding header list: %w", err)
	}
	for i := 0; i < stateRootIndex; i++ {
		if _, _, content, err = rlp.Split(content); err != nil {
			return common.Hash{}, fmt.Errorf("decoding header item %d: %w", i, err)
		}
	}
	kind, val, _, err := rlp.Split(content)
	if err != nil {
		return common.Hash{}, fmt.Errorf("decoding state root: %w", err)
	}
	if kind != rlp.String || len(val) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid state root item (kind %v, %d bytes)", kind, len(val))
	}
	return common.BytesToHash(val), nil
}
