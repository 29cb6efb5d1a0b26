package backend

import (
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// CKBOutput groups a CKB output cell and its data.
type CKBOutput struct {
	Output types.CellOutput
	Data   []byte
}

// OccupiedCapacity returns the minimal capacity of the output.
func (o CKBOutput) OccupiedCapacity() uint64 {
	return o.Output.OccupiedCapacity(o.Data)
}

func (o CKBOutput) AsOutputAndData() (*types.CellOutput, []byte) {
	out := o.Output
	data := o.Data
	if data == nil {
		data = []byte{}
	}
	return &out, data
}

type CKBOutputs []CKBOutput

func MkCKBOutputs(outputs ...CKBOutput) CKBOutputs {
	return outputs
}

func (os CKBOutputs) Append(o CKBOutput) CKBOutputs {
	return append(os, o)
}
