package terms

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// FeeRateTotalParts defines the granularity of the fee rate. Fees are
	// expressed in pips, so a fee rate of 1_000_000 equals 100%.
	FeeRateTotalParts = 1_000_000

	// MaxFeeRate is the largest fee rate that can be represented by the
	// 24-bit fee field of the host.
	MaxFeeRate FeeRate = 1<<24 - 1
)

// FeeRate is a fee rate expressed in pips (hundredths of a basis point).
type FeeRate uint32

// Percent returns the fee rate as a percentage, for example 3000 pips yields
// 0.3.
func (r FeeRate) Percent() decimal.Decimal {
	// One pip is a ten thousandth of a percent.
	return decimal.New(int64(r), -4)
}

// String returns the fee rate in pips together with its percentage.
func (r FeeRate) String() string {
	return fmt.Sprintf("%d pips (%s%%)", uint32(r), r.Percent().String())
}
