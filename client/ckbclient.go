package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/nervosnetwork/ckb-sdk-go/v2/collector"
	"github.com/nervosnetwork/ckb-sdk-go/v2/indexer"
	"github.com/nervosnetwork/ckb-sdk-go/v2/rpc"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/go-perun/log"
	"perun.network/perun-ckb-sudt/backend"
)

// DefaultPageSize is the number of live cells requested per indexer call.
const DefaultPageSize = 100

var (
	ErrNoGenesisSystemScripts = errors.New("genesis block lacks system scripts")
	ErrUnknownTransaction     = errors.New("transaction unknown to node")
)

// RPCClient is the subset of rpc.Client used to deploy and issue tokens.
type RPCClient interface {
	GetCells(ctx context.Context, searchKey *indexer.SearchKey, order indexer.SearchOrder, limit uint64, afterCursor string) (*indexer.LiveCells, error)
	GetBlockByNumber(ctx context.Context, number uint64) (*types.Block, error)
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

var _ RPCClient = (rpc.Client)(nil)

// TxStatus is the status of a transaction as reported by get_transaction.
type TxStatus struct {
	Status types.TransactionStatus `json:"status"`
	Reason *string                 `json:"reason"`
}

type transactionWithStatus struct {
	TxStatus *TxStatus `json:"tx_status"`
}

// Client talks to a CKB node with built-in indexer.
type Client struct {
	log.Embedding

	client   RPCClient
	PageSize uint64
}

var _ backend.Transactor = (*Client)(nil)

func NewClient(rpcClient RPCClient) *Client {
	return &Client{
		Embedding: log.MakeEmbedding(log.Default()),
		client:    rpcClient,
		PageSize:  DefaultPageSize,
	}
}

// Dial connects to the node RPC at url.
func Dial(url string) (*Client, error) {
	rpcClient, err := rpc.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return NewClient(rpcClient), nil
}

// LoadCells returns all live cells guarded exactly by lock that hold neither
// a type script nor data. Only these can fund capacity without touching
// other assets.
func (c Client) LoadCells(ctx context.Context, lock *types.Script) (collector.CellIterator, error) {
	searchKey := &indexer.SearchKey{
		Script:           lock,
		ScriptType:       types.ScriptTypeLock,
		ScriptSearchMode: types.ScriptSearchModeExact,
		Filter:           nil,
		WithData:         true,
	}
	pageSize := c.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	var cells []*indexer.LiveCell
	cursor := ""
	for {
		page, err := c.client.GetCells(ctx, searchKey, indexer.SearchOrderAsc, pageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetching live cells: %w", err)
		}
		if page == nil || len(page.Objects) == 0 {
			break
		}
		cells = append(cells, page.Objects...)
		if uint64(len(page.Objects)) < pageSize || page.LastCursor == "" {
			break
		}
		cursor = page.LastCursor
	}
	c.Log().WithField("lock", lock.Hash()).Debugf("Loaded %d live cells", len(cells))
	return NewCKBOnlyIterator(NewLiveCellIterator(cells)), nil
}

// ResolveDeploymentConfig locates the secp256k1_blake160_sighash_all lock in
// the genesis block. Its code cell is the second output of the first genesis
// transaction, referenced by type hash. The dep group is the first output of
// the second genesis transaction.
func (c Client) ResolveDeploymentConfig(ctx context.Context) (backend.DeploymentConfig, error) {
	genesis, err := c.client.GetBlockByNumber(ctx, 0)
	if err != nil {
		return backend.DeploymentConfig{}, fmt.Errorf("fetching genesis block: %w", err)
	}
	if genesis == nil || len(genesis.Transactions) < 2 ||
		len(genesis.Transactions[0].Outputs) < 2 ||
		genesis.Transactions[0].Outputs[1].Type == nil {
		return backend.DeploymentConfig{}, ErrNoGenesisSystemScripts
	}
	secpType := genesis.Transactions[0].Outputs[1].Type
	return backend.DeploymentConfig{
		DefaultLockScript: types.Script{
			CodeHash: secpType.Hash(),
			HashType: types.HashTypeType,
			Args:     []byte{},
		},
		DefaultLockScriptDep: types.CellDep{
			OutPoint: &types.OutPoint{
				TxHash: genesis.Transactions[1].Hash,
				Index:  0,
			},
			DepType: types.DepTypeDepGroup,
		},
	}, nil
}

// SendTransaction implements backend.Transactor. The outputs validator is
// passed to the node explicitly.
func (c Client) SendTransaction(ctx context.Context, tx *types.Transaction, validator backend.OutputsValidator) (types.Hash, error) {
	if !validator.Valid() {
		return types.Hash{}, fmt.Errorf("invalid outputs validator %q", validator)
	}
	var hash types.Hash
	if err := c.client.CallContext(ctx, &hash, "send_transaction", *tx, string(validator)); err != nil {
		return types.Hash{}, err
	}
	return hash, nil
}

// TransactionStatus returns the current status of the transaction with the
// given hash.
func (c Client) TransactionStatus(ctx context.Context, hash types.Hash) (*TxStatus, error) {
	var result *transactionWithStatus
	if err := c.client.CallContext(ctx, &result, "get_transaction", hash); err != nil {
		return nil, err
	}
	if result == nil || result.TxStatus == nil {
		return nil, ErrUnknownTransaction
	}
	return result.TxStatus, nil
}
