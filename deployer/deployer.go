package deployer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pilatuz/bigz/uint128"
	"github.com/nervosnetwork/ckb-sdk-go/v2/collector"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/go-perun/log"
	"perun.network/perun-ckb-sudt/backend"
	"perun.network/perun-ckb-sudt/client"
	"perun.network/perun-ckb-sudt/encoding"
	"perun.network/perun-ckb-sudt/transaction"
	"perun.network/perun-ckb-sudt/wallet"
)

var (
	ErrEmptyBinary = errors.New("contract binary is empty")
	ErrStaleCells  = errors.New("indexer still returns spent cells")
)

// Chain is the node the deployer works against.
type Chain interface {
	client.Node
	LoadCells(ctx context.Context, lock *types.Script) (collector.CellIterator, error)
	ResolveDeploymentConfig(ctx context.Context) (backend.DeploymentConfig, error)
}

var _ Chain = (*client.Client)(nil)

// Params configures a deployment run.
type Params struct {
	Network           types.Network
	Amount            uint128.Uint128
	TokenCellCapacity uint64
	Fee               uint64

	// DeployTxHash skips the deploy step if set. The binary is then expected
	// in output DeployIndex of that transaction.
	DeployTxHash *types.Hash
	DeployIndex  uint32

	Validator       backend.OutputsValidator
	PollingInterval time.Duration
	MaxAttempts     uint
}

// Deployer deploys the sUDT binary if necessary and issues tokens from the
// sender to the recipient.
type Deployer struct {
	log.Embedding

	chain     Chain
	sender    *wallet.Account
	recipient *wallet.Account
	params    Params

	// NewSigner returns the signer of the sender for the given deployment.
	// Defaults to a local signer holding the sender's key.
	NewSigner func(d backend.Deployment) backend.Signer
}

func New(chain Chain, sender, recipient *wallet.Account, params Params) *Deployer {
	d := &Deployer{
		Embedding: log.MakeEmbedding(log.Default()),
		chain:     chain,
		sender:    sender,
		recipient: recipient,
		params:    params,
	}
	d.NewSigner = func(dep backend.Deployment) backend.Signer {
		return sender.Signer(dep)
	}
	return d
}

// Run hashes the binary, deploys it unless a deployment is configured and
// issues the configured amount. Every step waits until its transaction is
// committed. The returned record holds the results of all steps.
func (d *Deployer) Run(ctx context.Context, binary []byte) (backend.Record, error) {
	var record backend.Record
	if len(binary) == 0 {
		return record, ErrEmptyBinary
	}
	codeHash := encoding.Blake2b256(binary)
	d.Log().WithField("codeHash", codeHash).Infof("Loaded contract binary of %d bytes", len(binary))

	config, err := d.chain.ResolveDeploymentConfig(ctx)
	if err != nil {
		return record, fmt.Errorf("resolving system scripts: %w", err)
	}
	base := backend.Deployment{
		Network:              d.params.Network,
		DefaultLockScript:    config.DefaultLockScript,
		DefaultLockScriptDep: config.DefaultLockScriptDep,
	}

	outPoint, spent, err := d.deploy(ctx, base, binary)
	if err != nil {
		return record, err
	}
	if record, err = record.WithDeployment(outPoint.TxHash); err != nil {
		return record, err
	}

	deployment := backend.MkDeployment(d.params.Network, config, outPoint, codeHash)
	typeScript, issueHash, err := d.issue(ctx, *deployment, spent)
	if err != nil {
		return record, err
	}
	if record, err = record.WithTypeScript(typeScript); err != nil {
		return record, err
	}
	return record.WithIssue(issueHash)
}

// deploy returns the out point of the code cell and the inputs spent by the
// deploy transaction, if any.
func (d *Deployer) deploy(ctx context.Context, base backend.Deployment, binary []byte) (types.OutPoint, []*types.CellInput, error) {
	if d.params.DeployTxHash != nil {
		d.Log().WithField("hash", *d.params.DeployTxHash).Info("Using configured deployment")
		return types.OutPoint{TxHash: *d.params.DeployTxHash, Index: d.params.DeployIndex}, nil, nil
	}

	senderLock := d.sender.LockScript(base)
	cells, err := d.chain.LoadCells(ctx, senderLock)
	if err != nil {
		return types.OutPoint{}, nil, fmt.Errorf("loading sender cells: %w", err)
	}
	handler := transaction.NewSUDTScriptHandlerWithConfig(backend.DeploymentConfig{
		DefaultLockScript:    base.DefaultLockScript,
		DefaultLockScriptDep: base.DefaultLockScriptDep,
	})
	tx, err := handler.BuildDeployTransaction(*transaction.NewDeployInfo(senderLock, binary, cells, d.params.Fee))
	if err != nil {
		return types.OutPoint{}, nil, fmt.Errorf("building deploy transaction: %w", err)
	}
	hash, err := d.submitter(base).SubmitAndAwait(ctx, tx)
	if err != nil {
		return types.OutPoint{}, nil, fmt.Errorf("deploying contract: %w", err)
	}
	d.Log().WithField("hash", hash).Info("Contract deployed")
	return types.OutPoint{TxHash: hash, Index: 0}, tx.TxView.Inputs, nil
}

func (d *Deployer) issue(ctx context.Context, deployment backend.Deployment, spent []*types.CellInput) (*types.Script, types.Hash, error) {
	senderLock := d.sender.LockScript(deployment)
	recipientLock := d.recipient.LockScript(deployment)
	cells, err := d.loadCells(ctx, senderLock, spent)
	if err != nil {
		return nil, types.Hash{}, err
	}
	handler := transaction.NewSUDTScriptHandlerWithDeployment(deployment)
	info := transaction.NewIssueInfo(senderLock, recipientLock, d.params.Amount, cells, d.params.TokenCellCapacity, d.params.Fee)
	tx, typeScript, err := handler.BuildIssueTransaction(*info)
	if err != nil {
		return nil, types.Hash{}, fmt.Errorf("building issue transaction: %w", err)
	}
	d.Log().WithField("typeScriptHash", typeScript.Hash()).
		WithField("recipient", recipientLock.Hash()).
		Infof("Issuing %s tokens", d.params.Amount.Big())

	hash, err := d.submitter(deployment).SubmitAndAwait(ctx, tx)
	if err != nil {
		return nil, types.Hash{}, fmt.Errorf("issuing tokens: %w", err)
	}
	d.Log().WithField("hash", hash).Info("Tokens issued")
	return typeScript, hash, nil
}

// loadCells returns the plain cells of lock. The indexer of the node may lag
// behind the chain, so the lookup is repeated while it still returns a cell
// consumed by one of the spent inputs.
func (d *Deployer) loadCells(ctx context.Context, lock *types.Script, spent []*types.CellInput) (collector.CellIterator, error) {
	for attempt := uint(1); ; attempt++ {
		iter, err := d.chain.LoadCells(ctx, lock)
		if err != nil {
			return nil, fmt.Errorf("loading sender cells: %w", err)
		}
		if len(spent) == 0 {
			return iter, nil
		}

		var cells []*types.TransactionInput
		stale := false
		for iter.HasNext() {
			cell := iter.Next()
			if cell == nil {
				break
			}
			stale = stale || isSpent(cell, spent)
			cells = append(cells, cell)
		}
		if !stale {
			return client.NewInputIterator(cells), nil
		}

		d.Log().WithField("attempt", attempt).Debug("Indexer returned spent cells, reloading")
		if d.params.MaxAttempts != 0 && attempt >= d.params.MaxAttempts {
			return nil, ErrStaleCells
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for indexer: %w", ctx.Err())
		case <-time.After(d.pollingInterval()):
		}
	}
}

func isSpent(cell *types.TransactionInput, spent []*types.CellInput) bool {
	for _, in := range spent {
		if in.PreviousOutput != nil && cell.OutPoint != nil && *in.PreviousOutput == *cell.OutPoint {
			return true
		}
	}
	return false
}

func (d *Deployer) pollingInterval() time.Duration {
	if d.params.PollingInterval > 0 {
		return d.params.PollingInterval
	}
	return client.DefaultPollingInterval
}

func (d *Deployer) submitter(deployment backend.Deployment) *client.Submitter {
	s := client.NewSubmitter(d.chain, d.NewSigner(deployment))
	s.Embedding = d.Embedding
	if d.params.Validator != "" {
		s.Validator = d.params.Validator
	}
	s.PollingInterval = d.pollingInterval()
	s.MaxAttempts = d.params.MaxAttempts
	return s
}
