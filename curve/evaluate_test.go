package curve

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/terms"
	"github.com/stretchr/testify/require"
)

// TestEvaluateReference checks the fee curve of the reference config at and
// around its thresholds.
func TestEvaluateReference(t *testing.T) {
	side := validSide()

	testCases := []struct {
		name   string
		volume uint64
		fee    terms.FeeRate
		tier   Tier
	}{{
		name:   "zero volume",
		volume: 0,
		fee:    3000,
		tier:   TierBelowMin,
	}, {
		name:   "just below min",
		volume: 1_000_000_000_000_000_000 - 1,
		fee:    3000,
		tier:   TierBelowMin,
	}, {
		name:   "exactly min",
		volume: 1_000_000_000_000_000_000,
		fee:    2700,
		tier:   TierAtMin,
	}, {
		name:   "just above min",
		volume: 1_000_000_000_000_000_001,
		fee:    2700,
		tier:   TierInterpolated,
	}, {
		name:   "midpoint",
		volume: 5_500_000_000_000_000_000,
		fee:    2550,
		tier:   TierInterpolated,
	}, {
		name:   "one step into the curve",
		volume: 1_030_000_000_000_000_000,
		fee:    2699,
		tier:   TierInterpolated,
	}, {
		name:   "just below max",
		volume: 10_000_000_000_000_000_000 - 1,
		fee:    2401,
		tier:   TierInterpolated,
	}, {
		name:   "exactly max",
		volume: 10_000_000_000_000_000_000,
		fee:    2400,
		tier:   TierAtOrAboveMax,
	}, {
		name:   "above max",
		volume: 18_000_000_000_000_000_000,
		fee:    2400,
		tier:   TierAtOrAboveMax,
	}}

	for _, tc := range testCases {
		fee, tier := Evaluate(uint256.NewInt(tc.volume), &side, 3000)
		require.Equal(t, tc.fee, fee, tc.name)
		require.Equal(t, tc.tier, tier, tc.name)
	}
}

// TestEvaluateNoOverflow makes sure the interpolation does not overflow for
// the widest possible amount range and fee delta.
func TestEvaluateNoOverflow(t *testing.T) {
	var maxAmount uint256.Int
	maxAmount.SetAllOne()

	side := SideParams{
		FeeAtMinAmount: terms.MaxFeeRate,
		FeeAtMaxAmount: 0,
		MaxAmount:      maxAmount,
	}

	volume := new(uint256.Int).SubUint64(&maxAmount, 1)
	fee, tier := Evaluate(volume, &side, terms.MaxFeeRate)
	require.Equal(t, TierInterpolated, tier)

	// delta * (2^256-2) / (2^256-1) truncates to delta-1.
	require.Equal(t, terms.FeeRate(1), fee)

	// Halfway through the range exactly half of the delta is deducted.
	half := new(uint256.Int).Rsh(&maxAmount, 1)
	fee, _ = Evaluate(half, &side, terms.MaxFeeRate)
	require.Equal(t, terms.MaxFeeRate-terms.MaxFeeRate/2, fee)
}

// randomSide is a helper type that generates valid random side parameters for
// property based tests.
type randomSide struct {
	params     SideParams
	defaultFee terms.FeeRate
}

// Generate creates random side parameters.
//
// NOTE: This is part of the quick.Generator interface.
func (randomSide) Generate(r *rand.Rand, _ int) reflect.Value {
	feeAtMax := terms.FeeRate(r.Int63n(int64(terms.MaxFeeRate) - 2))
	feeAtMin := feeAtMax + 1 + terms.FeeRate(
		r.Int63n(int64(terms.MaxFeeRate-feeAtMax)),
	)
	defaultFee := feeAtMin + terms.FeeRate(
		r.Int63n(int64(terms.MaxFeeRate-feeAtMin)+1),
	)

	var minAmount, maxAmount uint256.Int
	minAmount.SetUint64(r.Uint64())
	if r.Intn(2) == 0 {
		minAmount.Lsh(&minAmount, uint(r.Intn(128)))
	}
	maxAmount.AddUint64(&minAmount, 1+uint64(r.Int63()))

	return reflect.ValueOf(randomSide{
		params: SideParams{
			FeeAtMinAmount: feeAtMin,
			FeeAtMaxAmount: feeAtMax,
			MinAmount:      minAmount,
			MaxAmount:      maxAmount,
		},
		defaultFee: defaultFee,
	})
}

// between returns a volume within [min, max) selected by the given fraction
// in parts per 2^32.
func between(p *SideParams, frac uint32) *uint256.Int {
	span := new(uint256.Int).Sub(&p.MaxAmount, &p.MinAmount)
	offset, _ := new(uint256.Int).MulDivOverflow(
		span, uint256.NewInt(uint64(frac)), uint256.NewInt(1<<32),
	)
	return offset.Add(offset, &p.MinAmount)
}

// TestEvaluateProperties runs quick checks for the invariants of the fee
// curve over random valid parameters.
func TestEvaluateProperties(t *testing.T) {
	t.Parallel()

	t.Run("boundary exactness", func(t *testing.T) {
		f := func(s randomSide, above uint64) bool {
			p := s.params
			fee, _ := Evaluate(&p.MinAmount, &p, s.defaultFee)
			if fee != p.FeeAtMinAmount {
				return false
			}

			volume := new(uint256.Int).AddUint64(&p.MaxAmount, above)
			if volume.Lt(&p.MaxAmount) {
				volume.SetAllOne()
			}
			fee, tier := Evaluate(volume, &p, s.defaultFee)
			return fee == p.FeeAtMaxAmount &&
				tier == TierAtOrAboveMax
		}
		require.NoError(t, quick.Check(f, nil))
	})

	t.Run("below minimum constancy", func(t *testing.T) {
		f := func(s randomSide, frac uint32) bool {
			p := s.params
			if p.MinAmount.IsZero() {
				return true
			}
			volume, _ := new(uint256.Int).MulDivOverflow(
				&p.MinAmount, uint256.NewInt(uint64(frac)),
				uint256.NewInt(1<<32),
			)
			fee, tier := Evaluate(volume, &p, s.defaultFee)
			return fee == s.defaultFee && tier == TierBelowMin
		}
		require.NoError(t, quick.Check(f, nil))
	})

	t.Run("interpolation monotonicity", func(t *testing.T) {
		f := func(s randomSide, a, b uint32) bool {
			p := s.params
			if a > b {
				a, b = b, a
			}
			fee1, _ := Evaluate(between(&p, a), &p, s.defaultFee)
			fee2, _ := Evaluate(between(&p, b), &p, s.defaultFee)
			return fee1 >= fee2 &&
				fee1 <= p.FeeAtMinAmount &&
				fee2 >= p.FeeAtMaxAmount
		}
		require.NoError(t, quick.Check(f, nil))
	})

	t.Run("degenerate tier", func(t *testing.T) {
		f := func(s randomSide, frac uint32, above uint64) bool {
			p := s.params
			p.FeeAtMaxAmount = p.FeeAtMinAmount

			cfg := Config{
				DefaultFee: s.defaultFee, Side0: p, Side1: p,
			}
			if Validate(&cfg, FeeOrderingPermissive) != nil {
				return false
			}

			fee, _ := Evaluate(between(&p, frac), &p, s.defaultFee)
			if fee != p.FeeAtMinAmount {
				return false
			}

			volume := new(uint256.Int).AddUint64(&p.MaxAmount, above)
			if volume.Lt(&p.MaxAmount) {
				volume.SetAllOne()
			}
			fee, _ = Evaluate(volume, &p, s.defaultFee)
			return fee == p.FeeAtMinAmount
		}
		require.NoError(t, quick.Check(f, nil))
	})
}
