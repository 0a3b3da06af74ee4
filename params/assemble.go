package params

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Artifacts are the verified and normalized values parameters are drawn from.
type Artifacts struct {
	BlockHash    common.Hash
	Account      common.Address
	AccountValue []byte
	StorageKey   [32]byte
	StorageValue [32]byte

	// Header is the encoded header padded to spec.MaxHeaderBytes; HeadLen
	// and TailLen are the unpadded lengths around the state root.
	Header      []byte
	HeadLen     int
	TailLen     int
	StorageRoot common.Hash

	AccountProof      []byte
	StorageProof      []byte
	AccountProofDepth int
	StorageProofDepth int
}

// Param is a named output value, either a byte string or an integer.
type Param struct {
	Name  string
	Bytes []byte
	Int   int

	scalar bool
}

func bytesParam(name string, b []byte) Param { return Param{Name: name, Bytes: b} }

func intParam(name string, n int) Param { return Param{Name: name, Int: n, scalar: true} }

// IsScalar reports whether p holds an integer.
func (p Param) IsScalar() bool { return p.scalar }

// String formats p as "name = value", bytes as a decimal list.
func (p Param) String() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	sb.WriteString(" = ")
	if p.scalar {
		sb.WriteString(strconv.Itoa(p.Int))
		return sb.String()
	}
	sb.WriteByte('[')
	for i, b := range p.Bytes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Assemble selects the parameters emitted in mode, in output order.
func Assemble(mode Mode, a *Artifacts) ([]Param, error) {
	switch mode {
	case ModeProve:
		return []Param{
			bytesParam("block_hash", a.BlockHash[:]),
			bytesParam("account_key", a.Account[:]),
			bytesParam("account_value", a.AccountValue),
			bytesParam("storage_key", a.StorageKey[:]),
			bytesParam("storage_value", a.StorageValue[:]),
			bytesParam("block_header_rlp", a.Header),
			intParam("block_header_rlp_head_len", a.HeadLen),
			intParam("block_header_rlp_tail_len", a.TailLen),
			bytesParam("storage_root", a.StorageRoot[:]),
			bytesParam("account_proof", a.AccountProof),
			bytesParam("storage_proof", a.StorageProof),
			intParam("account_proof_depth", a.AccountProofDepth),
			intParam("storage_proof_depth", a.StorageProofDepth),
		}, nil
	case ModeVerify:
		return []Param{
			bytesParam("account_key", a.Account[:]),
			bytesParam("account_value", a.AccountValue),
			bytesParam("block_hash", a.BlockHash[:]),
			bytesParam("storage_key", a.StorageKey[:]),
			bytesParam("storage_value", a.StorageValue[:]),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, mode)
	}
}
