package molecule

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Pilatuz/bigz/uint128"
)

// UDTAmountLength is the length of the little endian u128 amount stored at the
// start of every sUDT cell's data.
const UDTAmountLength = 16

// PackUDTAmount encodes amount as sUDT cell data.
func PackUDTAmount(amount uint128.Uint128) []byte {
	data := make([]byte, UDTAmountLength)
	uint128.StoreLittleEndian(data, amount)
	return data
}

// UnpackUDTAmount decodes the amount of sUDT cell data. Bytes following the
// amount are ignored, as the sUDT script does.
func UnpackUDTAmount(data []byte) (uint128.Uint128, error) {
	if len(data) < UDTAmountLength {
		return uint128.Uint128{}, fmt.Errorf("udt data too short: expected at least %d bytes, got %d", UDTAmountLength, len(data))
	}
	return uint128.LoadLittleEndian(data[:UDTAmountLength]), nil
}

func ToUint128(x *big.Int) (uint128.Uint128, error) {
	if x.Cmp(uint128.Max().Big()) == 1 {
		return uint128.Uint128{}, errors.New("uint128 overflow")
	}
	if x.Sign() == -1 {
		return uint128.Uint128{}, errors.New("uint128 underflow")
	}
	return uint128.FromBig(x), nil
}

// ParseUint128 parses a decimal amount.
func ParseUint128(s string) (uint128.Uint128, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return uint128.Uint128{}, fmt.Errorf("invalid amount %q", s)
	}
	return ToUint128(x)
}
