// Package chain fetches block headers and account proofs from an Ethereum
// JSON-RPC endpoint.
package chain

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/henridf/storageproof/proof"
	"github.com/henridf/storageproof/spec"
)

// ErrBlockNotFound is returned when the node has no block at the requested
// height.
var ErrBlockNotFound = errors.New("block not found")

// Source supplies the chain data the parameter generator needs.
type Source interface {
	BlockByNumber(ctx context.Context, number uint64) (*spec.Block, error)
	Proof(ctx context.Context, account common.Address, keys []common.Hash, number uint64) (*proof.Account, error)
}
