package transaction

import (
	"github.com/Pilatuz/bigz/uint128"
	"github.com/nervosnetwork/ckb-sdk-go/v2/collector"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// IssueInfo contains the information required to issue a new sUDT token cell.
// All cells yielded by Inputs are consumed. The sender, whose lock hash
// identifies the token, receives the change.
type IssueInfo struct {
	Sender            *types.Script
	Recipient         *types.Script
	Amount            uint128.Uint128
	Inputs            collector.CellIterator
	TokenCellCapacity uint64
	Fee               uint64
}

func NewIssueInfo(sender, recipient *types.Script, amount uint128.Uint128, inputs collector.CellIterator, tokenCellCapacity, fee uint64) *IssueInfo {
	return &IssueInfo{
		Sender:            sender,
		Recipient:         recipient,
		Amount:            amount,
		Inputs:            inputs,
		TokenCellCapacity: tokenCellCapacity,
		Fee:               fee,
	}
}
