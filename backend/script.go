package backend

import (
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// OccupiedCapacity returns the minimal capacity in shannons a cell with the
// given lock, type and data must hold.
func OccupiedCapacity(lock, typ *types.Script, data []byte) uint64 {
	return types.CellOutput{Lock: lock, Type: typ}.OccupiedCapacity(data)
}

// AlwaysFailLock is the lock of deployed code cells. No binary hashes to the
// zero hash, so cells guarded by it are immutable.
func AlwaysFailLock() *types.Script {
	return &types.Script{
		CodeHash: types.Hash{},
		HashType: types.HashTypeData,
		Args:     []byte{},
	}
}

// MinCapacityForCodeCell returns the capacity of a code cell holding binary
// under the AlwaysFailLock.
func MinCapacityForCodeCell(binary []byte) uint64 {
	return OccupiedCapacity(AlwaysFailLock(), nil, binary)
}
