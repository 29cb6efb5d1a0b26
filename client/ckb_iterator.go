package client

import (
	"github.com/nervosnetwork/ckb-sdk-go/v2/collector"
	"github.com/nervosnetwork/ckb-sdk-go/v2/indexer"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// LiveCellIterator iterates over a list of live cells fetched from the
// indexer.
type LiveCellIterator struct {
	cells []*indexer.LiveCell
	idx   int
}

func NewLiveCellIterator(cells []*indexer.LiveCell) *LiveCellIterator {
	return &LiveCellIterator{cells: cells}
}

// HasNext implements collector.CellIterator.
func (i *LiveCellIterator) HasNext() bool {
	return i.idx < len(i.cells)
}

// Next implements collector.CellIterator.
func (i *LiveCellIterator) Next() *types.TransactionInput {
	if !i.HasNext() {
		return nil
	}
	cell := i.cells[i.idx]
	i.idx++
	return &types.TransactionInput{
		OutPoint:   cell.OutPoint,
		Output:     cell.Output,
		OutputData: cell.OutputData,
	}
}

// InputIterator iterates over cells that were already collected.
type InputIterator struct {
	cells []*types.TransactionInput
	idx   int
}

func NewInputIterator(cells []*types.TransactionInput) *InputIterator {
	return &InputIterator{cells: cells}
}

// HasNext implements collector.CellIterator.
func (i *InputIterator) HasNext() bool {
	return i.idx < len(i.cells)
}

// Next implements collector.CellIterator.
func (i *InputIterator) Next() *types.TransactionInput {
	if !i.HasNext() {
		return nil
	}
	cell := i.cells[i.idx]
	i.idx++
	return cell
}

// CKBOnlyIterator is cell iterator which ONLY matches live cells NOT guarded
// by any type script and holding no data.
type CKBOnlyIterator struct {
	collector.CellIterator
	next *types.TransactionInput
}

// HasNext implements collector.CellIterator.
func (i *CKBOnlyIterator) HasNext() bool {
	if i.next != nil {
		return true
	}
	for i.CellIterator.HasNext() {
		ti := i.CellIterator.Next()
		if ti == nil {
			return false
		}
		if isPlainCell(ti) {
			i.next = ti
			return true
		}
	}
	return false
}

// Next implements collector.CellIterator.
func (i *CKBOnlyIterator) Next() *types.TransactionInput {
	if !i.HasNext() {
		return nil
	}
	ti := i.next
	i.next = nil
	return ti
}

func NewCKBOnlyIterator(iter collector.CellIterator) *CKBOnlyIterator {
	return &CKBOnlyIterator{CellIterator: iter}
}

func isPlainCell(ti *types.TransactionInput) bool {
	return ti.Output != nil && ti.Output.Type == nil && len(ti.OutputData) == 0
}

var (
	_ collector.CellIterator = (*LiveCellIterator)(nil)
	_ collector.CellIterator = (*InputIterator)(nil)
	_ collector.CellIterator = (*CKBOnlyIterator)(nil)
)
