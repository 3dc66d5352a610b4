package curve_test

import (
	"errors"
	"math/big"
	"math/rand"
	"reflect"
	"sync"
	"testing"
	"testing/quick"

	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/curve"
	"github.com/lightninglabs/tierfee/internal/test"
	"github.com/lightninglabs/tierfee/terms"
	"github.com/stretchr/testify/require"
)

var (
	oneEther = new(big.Int).SetUint64(test.ReferenceMinAmount)
)

func ether(mul, div int64) *big.Int {
	amt := new(big.Int).Mul(oneEther, big.NewInt(mul))
	return amt.Div(amt, big.NewInt(div))
}

// TestNewEngine makes sure construction either returns a usable engine that
// reports the exact input config or no engine at all.
func TestNewEngine(t *testing.T) {
	cfg := test.ReferenceConfig()

	engine, err := curve.New(cfg)
	require.NoError(t, err)
	require.Equal(t, cfg, engine.Config())
	require.Equal(t, curve.FeeOrderingStrict, engine.Ordering())

	// Modifying the returned copy must not affect the engine.
	cfgCopy := engine.Config()
	cfgCopy.DefaultFee = 1
	cfgCopy.Side0.MinAmount.SetUint64(0)
	require.Equal(t, cfg, engine.Config())

	// An equal fee tier is only accepted with the permissive ordering.
	cfg.Side1.FeeAtMaxAmount = cfg.Side1.FeeAtMinAmount
	engine, err = curve.New(cfg)
	require.Nil(t, engine)
	require.True(t, errors.Is(err, curve.ErrInvalidFees))

	engine, err = curve.New(
		cfg, curve.WithFeeOrdering(curve.FeeOrderingPermissive),
	)
	require.NoError(t, err)
	require.Equal(t, curve.FeeOrderingPermissive, engine.Ordering())

	cfg = test.ReferenceConfig()
	cfg.Side1.MaxAmount = cfg.Side1.MinAmount
	engine, err = curve.New(cfg)
	require.Nil(t, engine)
	require.True(t, errors.Is(err, curve.ErrInvalidAmountThresholds))
}

// TestPriceFeeReference runs the reference scenario: an exact input swap of
// currency0 priced against the reference config.
func TestPriceFeeReference(t *testing.T) {
	engine, err := curve.New(test.ReferenceConfig())
	require.NoError(t, err)

	testCases := []struct {
		name   string
		amount *big.Int
		fee    terms.FeeRate
	}{{
		name:   "below min",
		amount: new(big.Int).Sub(oneEther, big.NewInt(1)),
		fee:    3000,
	}, {
		name:   "at min",
		amount: oneEther,
		fee:    2700,
	}, {
		name:   "at max",
		amount: ether(10, 1),
		fee:    2400,
	}, {
		name:   "above max",
		amount: ether(1000, 1),
		fee:    2400,
	}, {
		name:   "midpoint",
		amount: ether(11, 2),
		fee:    2550,
	}}

	for _, tc := range testCases {
		exactIn := new(big.Int).Neg(tc.amount)

		quote := engine.Quote(true, exactIn)
		require.Equal(t, curve.Side0, quote.Side, tc.name)
		require.Equal(t, tc.fee, quote.Fee, tc.name)
		require.Equal(t, tc.fee, engine.PriceFee(true, exactIn), tc.name)
		require.Equal(t, tc.fee, engine.FeeRate(true, exactIn), tc.name)
	}
}

// TestPriceFeeSides makes sure each combination of direction and amount sign
// is priced against the tiers of the fixed leg.
func TestPriceFeeSides(t *testing.T) {
	engine, err := curve.New(test.AsymmetricConfig())
	require.NoError(t, err)

	// A volume of 1000 is at the minimum of side0 but above the maximum
	// of side1.
	amt := int64(1000)

	testCases := []struct {
		zeroForOne bool
		amount     int64
		side       curve.Side
		tier       curve.Tier
		fee        terms.FeeRate
	}{{
		zeroForOne: true,
		amount:     -amt,
		side:       curve.Side0,
		tier:       curve.TierAtMin,
		fee:        9_000,
	}, {
		zeroForOne: true,
		amount:     amt,
		side:       curve.Side1,
		tier:       curve.TierAtOrAboveMax,
		fee:        1_000,
	}, {
		zeroForOne: false,
		amount:     -amt,
		side:       curve.Side1,
		tier:       curve.TierAtOrAboveMax,
		fee:        1_000,
	}, {
		zeroForOne: false,
		amount:     amt,
		side:       curve.Side0,
		tier:       curve.TierAtMin,
		fee:        9_000,
	}, {
		zeroForOne: false,
		amount:     75,
		side:       curve.Side0,
		tier:       curve.TierBelowMin,
		fee:        10_000,
	}, {
		zeroForOne: true,
		amount:     75,
		side:       curve.Side1,
		tier:       curve.TierInterpolated,
		fee:        4_500,
	}}

	for _, tc := range testCases {
		quote := engine.Quote(tc.zeroForOne, big.NewInt(tc.amount))
		require.Equal(t, tc.side, quote.Side)
		require.Equal(t, tc.tier, quote.Tier)
		require.Equal(t, tc.fee, quote.Fee)
		require.Equal(
			t, *uint256.NewInt(uint64(abs(tc.amount))), quote.Volume,
		)
	}
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// TestPriceFeeSymmetry makes sure that with identical tiers on both sides the
// fee only depends on the magnitude of the fixed leg and not on the direction
// or the sign.
func TestPriceFeeSymmetry(t *testing.T) {
	t.Parallel()

	engine, err := curve.New(test.ReferenceConfig())
	require.NoError(t, err)

	f := func(magnitude *big.Int) bool {
		neg := new(big.Int).Neg(magnitude)

		exactInZeroForOne := engine.PriceFee(true, neg)
		exactInOneForZero := engine.PriceFee(false, neg)
		exactOutZeroForOne := engine.PriceFee(true, magnitude)
		exactOutOneForZero := engine.PriceFee(false, magnitude)

		return exactInZeroForOne == exactOutOneForZero &&
			exactInOneForZero == exactOutZeroForOne &&
			exactInZeroForOne == exactInOneForZero
	}

	cfg := &quick.Config{
		Values: func(v []reflect.Value, r *rand.Rand) {
			amt := new(big.Int).SetUint64(r.Uint64())
			v[0] = reflect.ValueOf(amt.Add(amt, big.NewInt(1)))
		},
	}
	require.NoError(t, quick.Check(f, cfg))
}

// TestPriceFeeConcurrent makes sure a single engine can be shared between
// goroutines.
func TestPriceFeeConcurrent(t *testing.T) {
	engine, err := curve.New(test.ReferenceConfig())
	require.NoError(t, err)

	const numWorkers = 8

	var (
		wg   sync.WaitGroup
		fees [numWorkers]terms.FeeRate
	)
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			fees[i] = engine.PriceFee(i%2 == 0, ether(-11, 2))
		}(i)
	}
	wg.Wait()

	for i := 0; i < numWorkers; i++ {
		require.Equal(t, terms.FeeRate(2550), fees[i])
	}
}
