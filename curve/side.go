package curve

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Side identifies one of the two currencies of a pool.
type Side uint8

const (
	// Side0 is currency0 of the pool.
	Side0 Side = 0

	// Side1 is currency1 of the pool.
	Side1 Side = 1
)

// String returns a human readable representation of the side.
func (s Side) String() string {
	switch s {
	case Side0:
		return "side0"

	case Side1:
		return "side1"

	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// Resolve maps a swap direction and signed amount to the side whose volume is
// being measured and to that volume. The sign of the amount tells which leg of
// the swap is fixed: a negative amount is an exact input swap where the
// offered currency is fixed, any other amount is an exact output swap where
// the received currency is fixed.
func Resolve(zeroForOne bool, amountSpecified *big.Int) (Side, uint256.Int) {
	exactInput := amountSpecified.Sign() < 0

	var side Side
	switch {
	case zeroForOne && exactInput:
		side = Side0

	case zeroForOne:
		side = Side1

	case exactInput:
		side = Side1

	default:
		side = Side0
	}

	var volume uint256.Int
	magnitude := new(big.Int).Abs(amountSpecified)
	if overflow := volume.SetFromBig(magnitude); overflow {
		// Signed 256-bit amounts always fit, anything larger is simply
		// treated as the largest possible volume.
		volume.SetAllOne()
	}

	return side, volume
}
