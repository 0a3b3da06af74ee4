package spec

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// VerifyHash checks that enc hashes to want.
func VerifyHash(enc []byte, want common.Hash) error {
	if got := crypto.Keccak256Hash(enc); got != want {
		return fmt.Errorf("%w: computed %x, expected %x", ErrHashMismatch, got, want)
	}
	return nil
}

// SplitStateRoot splits enc around the first occurrence of root. The
// returned slices alias enc and cannot be appended to without copying.
func SplitStateRoot(enc []byte, root common.Hash) (head, stateRoot, tail []byte, err error) {
	i := bytes.Index(enc, root[:])
	if i < 0 {
		return nil, nil, nil, fmt.Errorf("%w: %x", ErrStateRootNotFound, root)
	}
	j := i + common.HashLength
	return enc[:i:i], enc[i:j:j], enc[j:], nil
}

// PadHeader returns a copy of enc right-padded with zeros to MaxHeaderBytes.
func PadHeader(enc []byte) ([]byte, error) {
	if len(enc) > MaxHeaderBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrHeaderTooLarge, len(enc), MaxHeaderBytes)
	}
	out := make([]byte, MaxHeaderBytes)
	copy(out, enc)
	return out, nil
}
