package backend_test

import (
	"testing"

	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"github.com/stretchr/testify/require"
	"perun.network/perun-ckb-sudt/backend"
	btest "perun.network/perun-ckb-sudt/backend/test"
	ptest "polycry.pt/poly-go/test"
)

func TestOccupiedCapacity(t *testing.T) {
	rng := ptest.Prng(t)
	// secp256k1_blake160_sighash_all lock: 32 byte code hash, 1 byte hash
	// type and 20 bytes args.
	lock := btest.NewRandomScriptWithArgs(rng, make([]byte, 20))

	// A plain secp256k1 cell needs 61 CKBytes.
	require.Equal(t, uint64(61_00_000_000), backend.OccupiedCapacity(lock, nil, nil))

	// An sUDT cell adds a type script with 32 bytes args and 16 bytes data.
	typ := btest.NewRandomScriptWithArgs(rng, make([]byte, 32))
	require.Equal(t, uint64(142_00_000_000), backend.OccupiedCapacity(lock, typ, make([]byte, 16)))

	out := backend.CKBOutput{
		Output: types.CellOutput{Capacity: 0, Lock: lock, Type: typ},
		Data:   make([]byte, 16),
	}
	require.Equal(t, uint64(142_00_000_000), out.OccupiedCapacity())
}

func TestMinCapacityForCodeCell(t *testing.T) {
	require.Equal(t, uint64(41_00_000_000), backend.MinCapacityForCodeCell(nil))
	require.Equal(t, uint64(1041_00_000_000), backend.MinCapacityForCodeCell(make([]byte, 1000)))

	lock := backend.AlwaysFailLock()
	require.Equal(t, types.Hash{}, lock.CodeHash)
	require.Empty(t, lock.Args)
}

func TestCKBOutputs(t *testing.T) {
	rng := ptest.Prng(t)
	lock := btest.NewRandomScript(rng)
	outs := backend.MkCKBOutputs(
		backend.CKBOutput{Output: types.CellOutput{Capacity: 100, Lock: lock}},
	).Append(
		backend.CKBOutput{Output: types.CellOutput{Capacity: 200, Lock: lock}, Data: []byte{1}},
	)
	require.Len(t, outs, 2)

	output, data := outs[0].AsOutputAndData()
	require.Equal(t, uint64(100), output.Capacity)
	require.NotNil(t, data, "missing data must be rendered as empty bytes")
	require.Empty(t, data)

	output, data = outs[1].AsOutputAndData()
	output.Capacity = 300
	require.Equal(t, uint64(200), outs[1].Output.Capacity, "outputs are copied")
	require.Equal(t, []byte{1}, data)
}
