package molecule_test

import (
	"math/big"
	"testing"

	"github.com/Pilatuz/bigz/uint128"
	"github.com/stretchr/testify/require"
	"perun.network/perun-ckb-sudt/encoding/molecule"
	pkgtest "polycry.pt/poly-go/test"
)

func TestUDTAmount(t *testing.T) {
	rng := pkgtest.Prng(t)
	for i := 0; i < 64; i++ {
		amount := uint128.Uint128{Lo: rng.Uint64(), Hi: rng.Uint64()}
		data := molecule.PackUDTAmount(amount)
		require.Len(t, data, molecule.UDTAmountLength)
		decoded, err := molecule.UnpackUDTAmount(data)
		require.NoError(t, err)
		require.Equal(t, amount, decoded)
	}

	data := molecule.PackUDTAmount(uint128.From64(100_000_000))
	require.Equal(t, []byte{0x00, 0xe1, 0xf5, 0x05, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, data)

	decoded, err := molecule.UnpackUDTAmount(append(data, 0xff))
	require.NoError(t, err)
	require.Equal(t, uint128.From64(100_000_000), decoded)

	_, err = molecule.UnpackUDTAmount(data[:15])
	require.Error(t, err)
}

func TestParseUint128(t *testing.T) {
	a, err := molecule.ParseUint128("6543421")
	require.NoError(t, err)
	require.Equal(t, uint128.From64(6543421), a)

	max := uint128.Max().Big().String()
	a, err = molecule.ParseUint128(max)
	require.NoError(t, err)
	require.Equal(t, uint128.Max(), a)

	tooLarge := new(big.Int).Add(uint128.Max().Big(), big.NewInt(1))
	_, err = molecule.ParseUint128(tooLarge.String())
	require.Error(t, err)
	_, err = molecule.ParseUint128("-1")
	require.Error(t, err)
	_, err = molecule.ParseUint128("0x10")
	require.Error(t, err)
}
