package params

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/henridf/storageproof/chain"
	"github.com/henridf/storageproof/proof"
	"github.com/henridf/storageproof/spec"
)

// Request identifies the block, account and storage slot to prove.
type Request struct {
	Block   uint64
	Account common.Address
	Slot    common.Hash

	Encoding       spec.EncodeOptions
	SkipProofCheck bool
}

// Generate fetches the block and proof named by req, verifies the header
// encoding against the block hash and normalizes both proofs.
func Generate(ctx context.Context, src chain.Source, req Request, log zerolog.Logger) (*Artifacts, error) {
	var (
		g        errgroup.Group
		blk      *spec.Block
		acct     *proof.Account
		blkErr   error
		proofErr error
	)
	g.Go(func() error {
		blk, blkErr = src.BlockByNumber(ctx, req.Block)
		return blkErr
	})
	g.Go(func() error {
		acct, proofErr = src.Proof(ctx, req.Account, []common.Hash{req.Slot}, req.Block)
		return proofErr
	})
	if err := g.Wait(); err != nil {
		// The proof request for a missing block fails as well.
		if errors.Is(blkErr, chain.ErrBlockNotFound) {
			return nil, blkErr
		}
		if blkErr != nil {
			return nil, fmt.Errorf("fetching block %d: %w", req.Block, blkErr)
		}
		return nil, fmt.Errorf("fetching proof for %s: %w", req.Account, proofErr)
	}
	log.Debug().Uint64("block", req.Block).Str("hash", blk.Hash.Hex()).Msg("Fetched block")

	enc := spec.EncodeHeader(blk.Header, req.Encoding)
	if err := spec.VerifyHash(enc, blk.Hash); err != nil {
		return nil, fmt.Errorf("block %d: %w", req.Block, err)
	}
	root, err := spec.StateRootOf(enc)
	if err != nil {
		return nil, err
	}
	head, _, tail, err := spec.SplitStateRoot(enc, root)
	if err != nil {
		return nil, err
	}
	if err := spec.VerifyHash(enc, blk.Hash); err != nil {
		return nil, fmt.Errorf("block %d after split: %w", req.Block, err)
	}
	header, err := spec.PadHeader(enc)
	if err != nil {
		return nil, err
	}
	log.Info().
		Uint64("block", req.Block).
		Int("size", len(enc)).
		Int("head", len(head)).
		Int("tail", len(tail)).
		Msg("Verified block header")

	if acct.Address == (common.Address{}) {
		acct.Address = req.Account
	}
	if acct.Address != req.Account {
		return nil, fmt.Errorf("%w: proof is for %s, requested %s", proof.ErrInvalidProof, acct.Address, req.Account)
	}
	entry, err := acct.Storage(req.Slot)
	if err != nil {
		return nil, err
	}
	if !req.SkipProofCheck {
		if err := proof.VerifyAccount(root, acct); err != nil {
			return nil, err
		}
		if err := proof.VerifyStorage(acct.StorageRoot, entry); err != nil {
			return nil, err
		}
		log.Debug().Msg("Checked account and storage proofs")
	}

	value, err := acct.Value()
	if err != nil {
		return nil, fmt.Errorf("encoding account value: %w", err)
	}
	accountProof, err := proof.Normalize(acct.AccountProof, spec.MaxProofNodeBytes, spec.MaxAccountProofDepth)
	if err != nil {
		return nil, fmt.Errorf("account proof: %w", err)
	}
	storageProof, err := proof.Normalize(entry.Proof, spec.MaxProofNodeBytes, spec.MaxStorageProofDepth)
	if err != nil {
		return nil, fmt.Errorf("storage proof: %w", err)
	}
	log.Info().
		Int("account depth", len(acct.AccountProof)).
		Int("storage depth", len(entry.Proof)).
		Msg("Normalized proofs")

	a := &Artifacts{
		BlockHash:         blk.Hash,
		Account:           req.Account,
		AccountValue:      value,
		Header:            header,
		HeadLen:           len(head),
		TailLen:           len(tail),
		StorageRoot:       acct.StorageRoot,
		AccountProof:      accountProof,
		StorageProof:      storageProof,
		AccountProofDepth: len(acct.AccountProof),
		StorageProofDepth: len(entry.Proof),
	}
	a.StorageKey = entry.Key.Bytes32()
	if entry.Value != nil {
		a.StorageValue = entry.Value.Bytes32()
	}
	return a, nil
}
