package transaction

import (
	"github.com/nervosnetwork/ckb-sdk-go/v2/collector"
	"github.com/nervosnetwork/ckb-sdk-go/v2/collector/builder"
	"github.com/nervosnetwork/ckb-sdk-go/v2/transaction"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// SUDTTransactionBuilder builds transactions from explicitly selected cells.
// In contrast to the balancing builders of the sdk it never adds inputs,
// outputs or fees on its own.
type SUDTTransactionBuilder struct {
	*builder.SimpleTransactionBuilder

	scriptGroups []*transaction.ScriptGroup
}

var _ collector.TransactionBuilder = (*SUDTTransactionBuilder)(nil)

// NewSUDTTransactionBuilder returns a builder with the handlers for the
// default lock and, if deployed, the sUDT type script registered before
// psh.
func NewSUDTTransactionBuilder(psh *SUDTScriptHandler) *SUDTTransactionBuilder {
	b := &SUDTTransactionBuilder{
		SimpleTransactionBuilder: &builder.SimpleTransactionBuilder{},
	}
	b.Register(psh.defaultLockScriptHandler())
	if h := psh.sudtTypeScriptHandler(); h != nil {
		b.Register(h)
	}
	b.Register(psh)
	return b
}

// AddScriptGroup implements collector.TransactionBuilder.
func (b *SUDTTransactionBuilder) AddScriptGroup(group *transaction.ScriptGroup) int {
	b.scriptGroups = append(b.scriptGroups, group)
	return b.SimpleTransactionBuilder.AddScriptGroup(group)
}

// Build passes every context to the registered handlers, which add the cells
// described by it. Afterwards every script group is passed to the handlers so
// that they can add cell deps and witness placeholders of their scripts.
func (b *SUDTTransactionBuilder) Build(contexts ...interface{}) (*transaction.TransactionWithScriptGroups, error) {
	for _, c := range contexts {
		if err := b.executeHandlers(nil, c); err != nil {
			return nil, err
		}
	}
	if len(b.Inputs) == 0 {
		return nil, ErrNoInputs
	}
	for _, group := range b.scriptGroups {
		if err := b.executeHandlers(group, contexts...); err != nil {
			return nil, err
		}
	}
	tx := b.BuildTransaction()
	if tx.TxView.HeaderDeps == nil {
		tx.TxView.HeaderDeps = []types.Hash{}
	}
	return tx, nil
}

func (b *SUDTTransactionBuilder) executeHandlers(group *transaction.ScriptGroup, contexts ...interface{}) error {
	if len(contexts) == 0 {
		contexts = append(contexts, nil)
	}
	for _, h := range b.ScriptHandlers {
		for _, c := range contexts {
			if _, err := h.BuildTransaction(b, group, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// scriptGroups collects the script groups of the cells added by a handler.
// Type groups come first, as in the balancing builders of the sdk.
type scriptGroups struct {
	typeGroups []*transaction.ScriptGroup
	lockGroups []*transaction.ScriptGroup
	index      map[types.ScriptType]map[types.Hash]*transaction.ScriptGroup
}

func newScriptGroups() *scriptGroups {
	return &scriptGroups{
		index: map[types.ScriptType]map[types.Hash]*transaction.ScriptGroup{
			types.ScriptTypeLock: {},
			types.ScriptTypeType: {},
		},
	}
}

func (g *scriptGroups) get(script *types.Script, scriptType types.ScriptType) *transaction.ScriptGroup {
	h := script.Hash()
	if group, ok := g.index[scriptType][h]; ok {
		return group
	}
	group := &transaction.ScriptGroup{
		Script:    script,
		GroupType: scriptType,
	}
	g.index[scriptType][h] = group
	if scriptType == types.ScriptTypeLock {
		g.lockGroups = append(g.lockGroups, group)
	} else {
		g.typeGroups = append(g.typeGroups, group)
	}
	return group
}

func (g *scriptGroups) addInput(cell *types.TransactionInput, index int) {
	group := g.get(cell.Output.Lock, types.ScriptTypeLock)
	group.InputIndices = append(group.InputIndices, uint32(index))
	if cell.Output.Type != nil {
		group = g.get(cell.Output.Type, types.ScriptTypeType)
		group.InputIndices = append(group.InputIndices, uint32(index))
	}
}

func (g *scriptGroups) addOutput(output *types.CellOutput, index int) {
	if output.Type == nil {
		return
	}
	group := g.get(output.Type, types.ScriptTypeType)
	group.OutputIndices = append(group.OutputIndices, uint32(index))
}

func (g *scriptGroups) addTo(builder collector.TransactionBuilder) {
	for _, group := range g.typeGroups {
		builder.AddScriptGroup(group)
	}
	for _, group := range g.lockGroups {
		builder.AddScriptGroup(group)
	}
}
