package test

import (
	"math/big"

	"github.com/lightninglabs/tierfee/terms"
)

// FlatFeeSchedule is a terms.FeeSchedule that charges the same fee rate
// regardless of the swap direction or size.
type FlatFeeSchedule struct {
	feeRate terms.FeeRate
}

// A compile-time check to ensure FlatFeeSchedule implements
// terms.FeeSchedule.
var _ terms.FeeSchedule = (*FlatFeeSchedule)(nil)

// NewFlatFeeSchedule creates a new flat fee schedule that always returns the
// given fee rate.
func NewFlatFeeSchedule(feeRate terms.FeeRate) *FlatFeeSchedule {
	return &FlatFeeSchedule{
		feeRate: feeRate,
	}
}

// FeeRate returns the static fee rate of the schedule.
//
// NOTE: This method is part of the terms.FeeSchedule interface.
func (s *FlatFeeSchedule) FeeRate(bool, *big.Int) terms.FeeRate {
	return s.feeRate
}
