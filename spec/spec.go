package spec

import "errors"

// Sizes of the fixed-width inputs expected by the verification circuit.
const (
	MaxHeaderBytes       = 590
	MaxProofNodeBytes    = 532
	MaxAccountProofDepth = 10
	MaxStorageProofDepth = 9
)

var (
	// ErrHashMismatch is returned when an encoded header does not hash to
	// the block's reported hash.
	ErrHashMismatch = errors.New("header hash mismatch")

	// ErrStateRootNotFound is returned when the state root does not occur
	// in the encoded header.
	ErrStateRootNotFound = errors.New("state root not found in encoded header")

	// ErrHeaderTooLarge is returned when an encoded header does not fit in
	// MaxHeaderBytes.
	ErrHeaderTooLarge = errors.New("encoded header exceeds maximum size")
)
