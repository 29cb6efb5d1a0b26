package transaction

import (
	"github.com/nervosnetwork/ckb-sdk-go/v2/collector"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// DeployInfo contains the information required to put a script binary into a
// code cell that can never be consumed.
type DeployInfo struct {
	Sender *types.Script
	Binary []byte
	Inputs collector.CellIterator
	Fee    uint64
}

func NewDeployInfo(sender *types.Script, binary []byte, inputs collector.CellIterator, fee uint64) *DeployInfo {
	return &DeployInfo{
		Sender: sender,
		Binary: binary,
		Inputs: inputs,
		Fee:    fee,
	}
}
