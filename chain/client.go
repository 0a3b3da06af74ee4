package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/henridf/storageproof/proof"
	"github.com/henridf/storageproof/spec"
)

// Client is a Source backed by a JSON-RPC endpoint. Headers are decoded
// from the raw block object, not ethclient's types.Header: an omitted base
// fee must stay distinct from a zero one.
type Client struct {
	ec *ethclient.Client
}

// Dial connects to the endpoint at url.
func Dial(ctx context.Context, url string) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Client{ec: ec}, nil
}

// NewClient wraps an existing RPC connection.
func NewClient(c *rpc.Client) *Client {
	return &Client{ec: ethclient.NewClient(c)}
}

func (c *Client) Close() {
	c.ec.Close()
}

// BlockByNumber fetches the header of block number and its reported hash.
func (c *Client) BlockByNumber(ctx context.Context, number uint64) (*spec.Block, error) {
	var raw json.RawMessage
	err := c.ec.Client().CallContext(ctx, &raw, "eth_getBlockByNumber", hexutil.Uint64(number), false)
	if errors.Is(err, rpc.ErrNoResult) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("eth_getBlockByNumber: %w", err)
	}
	var head *rpcHeader
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decoding block %d: %w", number, err)
	}
	if head == nil {
		return nil, ErrBlockNotFound
	}
	blk, err := head.block()
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", number, err)
	}
	return blk, nil
}

// Proof fetches the EIP-1186 proof for account and the given storage keys
// at block number.
func (c *Client) Proof(ctx context.Context, account common.Address, keys []common.Hash, number uint64) (*proof.Account, error) {
	hexKeys := make([]string, len(keys))
	for i, k := range keys {
		hexKeys[i] = k.Hex()
	}
	var res *rpcProof
	if err := c.ec.Client().CallContext(ctx, &res, "eth_getProof", account, hexKeys, hexutil.Uint64(number)); err != nil {
		return nil, fmt.Errorf("eth_getProof: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("eth_getProof: empty result for %s", account)
	}
	return res.account()
}
