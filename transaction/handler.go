package transaction

import (
	"fmt"

	"github.com/nervosnetwork/ckb-sdk-go/v2/collector"
	"github.com/nervosnetwork/ckb-sdk-go/v2/collector/handler"
	"github.com/nervosnetwork/ckb-sdk-go/v2/transaction"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/perun-ckb-sudt/backend"
	"perun.network/perun-ckb-sudt/encoding"
	"perun.network/perun-ckb-sudt/encoding/molecule"
)

// SUDTScriptHandler is responsible for building transactions utilizing the
// sUDT script. It is specialized to create transactions using a predeployed
// sUDT binary.
type SUDTScriptHandler struct {
	sudtDep      types.CellDep
	sudtCodeHash types.Hash
	sudtHashType types.ScriptHashType

	defaultLockScript    types.Script
	defaultLockScriptDep types.CellDep
}

var _ collector.ScriptHandler = (*SUDTScriptHandler)(nil)

func NewSUDTScriptHandlerWithDeployment(deployment backend.Deployment) *SUDTScriptHandler {
	return &SUDTScriptHandler{
		sudtDep:              deployment.SUDTDep,
		sudtCodeHash:         deployment.SUDTCodeHash,
		sudtHashType:         deployment.SUDTHashType,
		defaultLockScript:    deployment.DefaultLockScript,
		defaultLockScriptDep: deployment.DefaultLockScriptDep,
	}
}

// NewSUDTScriptHandlerWithConfig returns a handler for a network without an
// sUDT deployment. It is only able to build deploy transactions.
func NewSUDTScriptHandlerWithConfig(config backend.DeploymentConfig) *SUDTScriptHandler {
	return &SUDTScriptHandler{
		sudtHashType:         types.HashTypeData,
		defaultLockScript:    config.DefaultLockScript,
		defaultLockScriptDep: config.DefaultLockScriptDep,
	}
}

// BuildTransaction implements collector.ScriptHandler. The cells described by
// context are added when called without a script group. Script groups are
// served by the sdk handlers registered alongside.
func (h *SUDTScriptHandler) BuildTransaction(builder collector.TransactionBuilder, group *transaction.ScriptGroup, context interface{}) (bool, error) {
	if group != nil {
		return false, nil
	}
	ok := false
	switch context.(type) {
	case IssueInfo, *IssueInfo:
		var issueInfo *IssueInfo
		if issueInfo, ok = context.(*IssueInfo); !ok {
			v, _ := context.(IssueInfo)
			issueInfo = &v
		}
		return h.buildIssueTransaction(builder, issueInfo)
	case DeployInfo, *DeployInfo:
		var deployInfo *DeployInfo
		if deployInfo, ok = context.(*DeployInfo); !ok {
			v, _ := context.(DeployInfo)
			deployInfo = &v
		}
		return h.buildDeployTransaction(builder, deployInfo)
	default:
	}
	return ok, nil
}

// BuildIssueTransaction returns the unsigned issuance transaction together
// with the type script of the issued token.
func (h *SUDTScriptHandler) BuildIssueTransaction(info IssueInfo) (*transaction.TransactionWithScriptGroups, *types.Script, error) {
	tx, err := NewSUDTTransactionBuilder(h).Build(&info)
	if err != nil {
		return nil, nil, err
	}
	return tx, h.MkSUDTTypeScript(info.Sender), nil
}

// BuildDeployTransaction returns the unsigned transaction putting the binary
// into the first output.
func (h *SUDTScriptHandler) BuildDeployTransaction(info DeployInfo) (*transaction.TransactionWithScriptGroups, error) {
	return NewSUDTTransactionBuilder(h).Build(&info)
}

// MkSUDTTypeScript returns the type script of the token owned by the given
// lock. The owner is identified by its lock hash.
func (h *SUDTScriptHandler) MkSUDTTypeScript(owner *types.Script) *types.Script {
	ownerHash := owner.Hash()
	return &types.Script{
		CodeHash: h.sudtCodeHash,
		HashType: h.sudtHashType,
		Args:     ownerHash.Bytes(),
	}
}

func (h *SUDTScriptHandler) defaultLockScriptHandler() *handler.Secp256k1Blake160SighashAllScriptHandler {
	return &handler.Secp256k1Blake160SighashAllScriptHandler{
		CellDep:  &h.defaultLockScriptDep,
		CodeHash: h.defaultLockScript.CodeHash,
	}
}

func (h *SUDTScriptHandler) sudtTypeScriptHandler() *handler.SudtScriptHandler {
	if h.sudtDep.OutPoint == nil {
		return nil
	}
	return &handler.SudtScriptHandler{
		CellDep:  &h.sudtDep,
		CodeHash: h.sudtCodeHash,
	}
}

func (h *SUDTScriptHandler) buildIssueTransaction(builder collector.TransactionBuilder, info *IssueInfo) (bool, error) {
	if h.sudtDep.OutPoint == nil {
		return false, ErrNoSUDTDeployment
	}
	groups := newScriptGroups()
	pool, err := addInputs(builder, groups, info.Inputs)
	if err != nil {
		return false, err
	}

	typeScript := h.MkSUDTTypeScript(info.Sender)
	tokenCell := backend.CKBOutput{
		Output: types.CellOutput{
			Capacity: info.TokenCellCapacity,
			Lock:     info.Recipient,
			Type:     typeScript,
		},
		Data: molecule.PackUDTAmount(info.Amount),
	}
	if occupied := tokenCell.OccupiedCapacity(); info.TokenCellCapacity < occupied {
		return false, fmt.Errorf("%w: %d < %d", ErrTokenCellTooSmall, info.TokenCellCapacity, occupied)
	}

	change, err := changeOf(pool, info.Fee, info.TokenCellCapacity, info.Sender)
	if err != nil {
		return false, err
	}

	// The sUDT code cell is the first dependency.
	builder.AddCellDep(&h.sudtDep)
	outputs := backend.MkCKBOutputs()
	if change != nil {
		outputs = outputs.Append(*change)
	}
	addOutputs(builder, groups, outputs.Append(tokenCell))
	groups.addTo(builder)
	return true, nil
}

func (h *SUDTScriptHandler) buildDeployTransaction(builder collector.TransactionBuilder, info *DeployInfo) (bool, error) {
	groups := newScriptGroups()
	pool, err := addInputs(builder, groups, info.Inputs)
	if err != nil {
		return false, err
	}

	codeCell := backend.CKBOutput{
		Output: types.CellOutput{
			Capacity: backend.MinCapacityForCodeCell(info.Binary),
			Lock:     backend.AlwaysFailLock(),
		},
		Data: info.Binary,
	}
	change, err := changeOf(pool, info.Fee, codeCell.Output.Capacity, info.Sender)
	if err != nil {
		return false, err
	}

	outputs := backend.MkCKBOutputs(codeCell)
	if change != nil {
		outputs = outputs.Append(*change)
	}
	addOutputs(builder, groups, outputs)
	groups.addTo(builder)
	return true, nil
}

// addInputs consumes every cell of the iterator and returns their total
// capacity.
func addInputs(builder collector.TransactionBuilder, groups *scriptGroups, iter collector.CellIterator) (uint64, error) {
	if iter == nil {
		return 0, ErrNoInputs
	}
	var pool uint64
	n := 0
	for iter.HasNext() {
		cell := iter.Next()
		if cell == nil {
			break
		}
		var err error
		if pool, err = encoding.SumCapacities(pool, cell.Output.Capacity); err != nil {
			return 0, err
		}
		i := builder.AddInput(&types.CellInput{
			Since:          0,
			PreviousOutput: cell.OutPoint,
		})
		groups.addInput(cell, i)
		n++
	}
	if n == 0 {
		return 0, ErrNoInputs
	}
	return pool, nil
}

func addOutputs(builder collector.TransactionBuilder, groups *scriptGroups, outputs backend.CKBOutputs) {
	for _, o := range outputs {
		output, data := o.AsOutputAndData()
		i := builder.AddOutput(output, data)
		groups.addOutput(output, i)
	}
}

// changeOf returns the change cell left after paying fee and spending
// capacity from pool. The funds are checked before any subtraction. No change
// cell is returned if the pool is spent exactly.
func changeOf(pool, fee, capacity uint64, owner *types.Script) (*backend.CKBOutput, error) {
	required, err := encoding.SumCapacities(fee, capacity)
	if err != nil {
		return nil, err
	}
	if pool < required {
		return nil, fmt.Errorf("%w: have %d shannons, need %d", ErrInsufficientFunds, pool, required)
	}
	rest := pool - required
	if rest == 0 {
		return nil, nil
	}
	change := &backend.CKBOutput{
		Output: types.CellOutput{
			Capacity: rest,
			Lock:     owner,
		},
		Data: []byte{},
	}
	if occupied := change.OccupiedCapacity(); rest < occupied {
		return nil, fmt.Errorf("%w: %d < %d", ErrChangeCellTooSmall, rest, occupied)
	}
	return change, nil
}
