package encoding

import (
	"errors"
	"math/bits"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ShannonsPerCKByte is the number of shannons in one CKByte.
const ShannonsPerCKByte uint64 = 100_000_000

var ErrCapacityOverflow = errors.New("capacity overflows uint64")

// CapacityHex renders a capacity in shannons the way the node RPC does: a 0x
// prefixed lower case hex number without leading zeros.
func CapacityHex(shannons uint64) string {
	return hexutil.EncodeUint64(shannons)
}

// ParseCapacityHex parses a capacity rendered by CapacityHex.
func ParseCapacityHex(s string) (uint64, error) {
	return hexutil.DecodeUint64(s)
}

// SumCapacities adds up capacities and fails instead of wrapping around.
func SumCapacities(capacities ...uint64) (uint64, error) {
	var sum uint64
	for _, c := range capacities {
		var carry uint64
		sum, carry = bits.Add64(sum, c, 0)
		if carry != 0 {
			return 0, ErrCapacityOverflow
		}
	}
	return sum, nil
}

// CKBytes converts a number of CKBytes into shannons.
func CKBytes(n uint64) (uint64, error) {
	hi, lo := bits.Mul64(n, ShannonsPerCKByte)
	if hi != 0 {
		return 0, ErrCapacityOverflow
	}
	return lo, nil
}
