package curve

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/terms"
)

// Tier is one of the four regions of the piecewise fee curve.
type Tier uint8

const (
	// TierBelowMin is the region below the minimum amount where the
	// default fee applies.
	TierBelowMin Tier = iota

	// TierAtMin is the single point at the minimum amount.
	TierAtMin

	// TierInterpolated is the open interval between the minimum and the
	// maximum amount where the fee is linearly interpolated.
	TierInterpolated

	// TierAtOrAboveMax is the region at or above the maximum amount.
	TierAtOrAboveMax
)

// String returns a human readable representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierBelowMin:
		return "below_min"

	case TierAtMin:
		return "at_min"

	case TierInterpolated:
		return "interpolated"

	case TierAtOrAboveMax:
		return "at_or_above_max"

	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// Evaluate computes the fee for the given volume against the parameters of a
// single side. The cases are checked in order, the exact minimum amount comes
// first so the configured fee is returned verbatim at that boundary.
//
// The parameters must have passed Validate, in particular FeeAtMaxAmount must
// not exceed FeeAtMinAmount and MinAmount must be below MaxAmount.
func Evaluate(volume *uint256.Int, p *SideParams,
	defaultFee terms.FeeRate) (terms.FeeRate, Tier) {

	switch {
	case volume.Eq(&p.MinAmount):
		return p.FeeAtMinAmount, TierAtMin

	case !volume.Lt(&p.MaxAmount):
		return p.FeeAtMaxAmount, TierAtOrAboveMax

	case volume.Lt(&p.MinAmount):
		return defaultFee, TierBelowMin
	}

	var (
		feeDelta = uint256.NewInt(
			uint64(p.FeeAtMinAmount - p.FeeAtMaxAmount),
		)
		progress = new(uint256.Int).Sub(volume, &p.MinAmount)
		span     = new(uint256.Int).Sub(&p.MaxAmount, &p.MinAmount)
	)

	// The product is carried in 512 bits. Since progress < span the
	// quotient is always below feeDelta and can never overflow.
	reduction, _ := new(uint256.Int).MulDivOverflow(
		feeDelta, progress, span,
	)

	return p.FeeAtMinAmount - terms.FeeRate(reduction.Uint64()),
		TierInterpolated
}
