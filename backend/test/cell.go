package test

import (
	"math/rand"

	"github.com/nervosnetwork/ckb-sdk-go/v2/indexer"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

func NewRandomCellDep(rng *rand.Rand) *types.CellDep {
	return &types.CellDep{
		OutPoint: NewRandomOutpoint(rng),
		DepType:  types.DepTypeCode,
	}
}

func NewRandomDepGroup(rng *rand.Rand) *types.CellDep {
	return &types.CellDep{
		OutPoint: NewRandomOutpoint(rng),
		DepType:  types.DepTypeDepGroup,
	}
}

// NewLiveCell returns a plain live cell with the given lock and capacity at a
// random out point.
func NewLiveCell(rng *rand.Rand, lock *types.Script, capacity uint64) *indexer.LiveCell {
	return &indexer.LiveCell{
		BlockNumber: rng.Uint64(),
		OutPoint:    NewRandomOutpoint(rng),
		Output: &types.CellOutput{
			Capacity: capacity,
			Lock:     lock,
		},
		OutputData: []byte{},
	}
}

// NewLiveCells splits total into n plain live cells guarded by lock.
func NewLiveCells(rng *rand.Rand, lock *types.Script, total uint64, n int) []*indexer.LiveCell {
	cells := make([]*indexer.LiveCell, n)
	rest := total
	for i := 0; i < n-1; i++ {
		c := rest / uint64(n-i)
		cells[i] = NewLiveCell(rng, lock, c)
		rest -= c
	}
	cells[n-1] = NewLiveCell(rng, lock, rest)
	return cells
}
