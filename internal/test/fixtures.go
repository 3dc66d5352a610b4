package test

import (
	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/curve"
	"github.com/lightninglabs/tierfee/terms"
)

const (
	// ReferenceDefaultFee is the default fee of the reference config.
	ReferenceDefaultFee terms.FeeRate = 3000

	// ReferenceFeeAtMin is the fee at the minimum amount of both sides of
	// the reference config.
	ReferenceFeeAtMin terms.FeeRate = 2700

	// ReferenceFeeAtMax is the fee at the maximum amount of both sides of
	// the reference config.
	ReferenceFeeAtMax terms.FeeRate = 2400

	// ReferenceMinAmount is the minimum amount of both sides of the
	// reference config (1e18).
	ReferenceMinAmount uint64 = 1_000_000_000_000_000_000

	// ReferenceMaxAmount is the maximum amount of both sides of the
	// reference config (10e18).
	ReferenceMaxAmount uint64 = 10_000_000_000_000_000_000
)

// ReferenceSide returns the side parameters of the reference config.
func ReferenceSide() curve.SideParams {
	return curve.SideParams{
		FeeAtMinAmount: ReferenceFeeAtMin,
		FeeAtMaxAmount: ReferenceFeeAtMax,
		MinAmount:      *uint256.NewInt(ReferenceMinAmount),
		MaxAmount:      *uint256.NewInt(ReferenceMaxAmount),
	}
}

// ReferenceConfig returns a config with identical tiers on both sides: a
// default fee of 0.3% that drops to 0.27% at 1e18 and 0.24% at 10e18.
func ReferenceConfig() curve.Config {
	return curve.Config{
		DefaultFee: ReferenceDefaultFee,
		Side0:      ReferenceSide(),
		Side1:      ReferenceSide(),
	}
}

// AsymmetricConfig returns a config whose two sides use distinct tiers, which
// makes it possible to tell which side priced a swap.
func AsymmetricConfig() curve.Config {
	return curve.Config{
		DefaultFee: 10_000,
		Side0: curve.SideParams{
			FeeAtMinAmount: 9_000,
			FeeAtMaxAmount: 5_000,
			MinAmount:      *uint256.NewInt(1_000),
			MaxAmount:      *uint256.NewInt(2_000),
		},
		Side1: curve.SideParams{
			FeeAtMinAmount: 8_000,
			FeeAtMaxAmount: 1_000,
			MinAmount:      *uint256.NewInt(50),
			MaxAmount:      *uint256.NewInt(100),
		},
	}
}
