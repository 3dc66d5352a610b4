package terms

import "math/big"

// FeeSchedule is an interface that represents the pricing source the hook
// consults to determine the LP fee rate charged on each swap.
type FeeSchedule interface {
	// FeeRate returns the fee rate to apply to a swap in the given
	// direction. A negative amountSpecified denotes an exact input swap, a
	// positive one an exact output swap.
	FeeRate(zeroForOne bool, amountSpecified *big.Int) FeeRate
}
