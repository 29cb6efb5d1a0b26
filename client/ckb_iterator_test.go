package client_test

import (
	"testing"

	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"github.com/stretchr/testify/require"
	btest "perun.network/perun-ckb-sudt/backend/test"
	"perun.network/perun-ckb-sudt/client"
	ptest "polycry.pt/poly-go/test"
)

func TestCKBOnlyIterator(t *testing.T) {
	rng := ptest.Prng(t)
	lock := btest.NewRandomScript(rng)
	cells := btest.NewLiveCells(rng, lock, 600, 6)
	cells[0].Output.Type = btest.NewRandomScript(rng)
	cells[4].OutputData = []byte{0}
	cells[5].Output.Type = btest.NewRandomScript(rng)

	iter := client.NewCKBOnlyIterator(client.NewLiveCellIterator(cells))
	require.True(t, iter.HasNext())
	require.True(t, iter.HasNext(), "HasNext must not consume cells")
	got := drain(t, iter)
	require.Len(t, got, 3)
	for i, idx := range []int{1, 2, 3} {
		require.Equal(t, cells[idx].OutPoint, got[i].OutPoint)
	}
	require.False(t, iter.HasNext(), "trailing typed cells are skipped")
}

func TestInputIterator(t *testing.T) {
	rng := ptest.Prng(t)
	lock := btest.NewRandomScript(rng)
	var cells []*types.TransactionInput
	for _, c := range btest.NewLiveCells(rng, lock, 300, 3) {
		cells = append(cells, &types.TransactionInput{OutPoint: c.OutPoint, Output: c.Output, OutputData: c.OutputData})
	}

	iter := client.NewInputIterator(cells)
	require.Equal(t, cells, drain(t, iter))
	require.False(t, iter.HasNext())

	require.False(t, client.NewInputIterator(nil).HasNext())
}
