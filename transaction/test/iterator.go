package test

import (
	"math/rand"

	"github.com/nervosnetwork/ckb-sdk-go/v2/collector"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	btest "perun.network/perun-ckb-sudt/backend/test"
)

// MockIterator yields a fixed list of live cells.
type MockIterator struct {
	lockScript *types.Script
	typeScript *types.Script
	capacity   uint64
	data       []byte
	cells      []*types.TransactionInput
	idx        int
}

type MockIteratorOpt func(*MockIterator)

func NewMockIterator(opts ...MockIteratorOpt) *MockIterator {
	mi := &MockIterator{}
	for _, opt := range opts {
		opt(mi)
	}
	return mi
}

func WithLockScript(lock *types.Script) MockIteratorOpt {
	return func(mi *MockIterator) {
		mi.lockScript = lock
	}
}

func WithTypeScript(typ *types.Script) MockIteratorOpt {
	return func(mi *MockIterator) {
		mi.typeScript = typ
	}
}

func WithData(data []byte) MockIteratorOpt {
	return func(mi *MockIterator) {
		mi.data = data
	}
}

// WithCapacity sets the capacity of generated cells.
func WithCapacity(capacity uint64) MockIteratorOpt {
	return func(mi *MockIterator) {
		mi.capacity = capacity
	}
}

// GenerateInput appends a cell with the configured scripts and capacity at a
// random out point.
func (mi *MockIterator) GenerateInput(rng *rand.Rand) *types.TransactionInput {
	data := mi.data
	if data == nil {
		data = []byte{}
	}
	cell := &types.TransactionInput{
		OutPoint: btest.NewRandomOutpoint(rng),
		Output: &types.CellOutput{
			Capacity: mi.capacity,
			Lock:     mi.lockScript,
			Type:     mi.typeScript,
		},
		OutputData: data,
	}
	mi.cells = append(mi.cells, cell)
	return cell
}

// Cells returns all cells the iterator yields.
func (mi *MockIterator) Cells() []*types.TransactionInput {
	return mi.cells
}

// HasNext implements collector.CellIterator.
func (mi *MockIterator) HasNext() bool {
	return mi.idx < len(mi.cells)
}

// Next implements collector.CellIterator.
func (mi *MockIterator) Next() *types.TransactionInput {
	if !mi.HasNext() {
		return nil
	}
	cell := mi.cells[mi.idx]
	mi.idx++
	return cell
}

var _ collector.CellIterator = (*MockIterator)(nil)
