package hook

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lightninglabs/tierfee/curve"
	"github.com/lightninglabs/tierfee/perms"
	"github.com/lightninglabs/tierfee/terms"
)

var (
	// ErrWrongPool is returned when a callback is invoked for a pool that
	// is not attached to this hook.
	ErrWrongPool = errors.New("pool is not attached to this hook")

	// ErrNotDynamicFee is returned when attaching to a pool that does not
	// use the dynamic fee flag.
	ErrNotDynamicFee = errors.New("pool does not use dynamic fees")

	// ErrNoAmount is returned when a swap is missing its amount.
	ErrNoAmount = errors.New("swap amount not specified")

	// ErrFeeTooLarge is returned when the fee schedule produces a fee the
	// host would reject.
	ErrFeeTooLarge = errors.New("fee exceeds maximum LP fee")
)

// SwapParams are the parameters of a swap as passed by the host.
type SwapParams struct {
	// ZeroForOne is true if currency0 is offered in exchange for
	// currency1.
	ZeroForOne bool

	// AmountSpecified is the fixed amount of the swap. A negative value
	// is an exact input amount, a positive value an exact output amount.
	AmountSpecified *big.Int

	// SqrtPriceLimitX96 is the price limit of the swap. It is not used
	// for pricing the fee.
	SqrtPriceLimitX96 *big.Int
}

// BeforeSwapResult is returned to the host before a swap is executed.
type BeforeSwapResult struct {
	// FeeOverride is the LP fee for the swap with OverrideFeeFlag set.
	FeeOverride uint32
}

// Fee returns the fee rate without the override flag.
func (r *BeforeSwapResult) Fee() terms.FeeRate {
	return terms.FeeRate(r.FeeOverride &^ OverrideFeeFlag)
}

// SwapHook is the callback interface the host invokes around swaps.
type SwapHook interface {
	// Address is the address the hook is deployed at.
	Address() common.Address

	// Permissions returns the set of callbacks the hook implements.
	Permissions() perms.Flags

	// BeforeSwap is invoked by the host before executing a swap.
	BeforeSwap(ctx context.Context, key *PoolKey,
		params *SwapParams) (*BeforeSwapResult, error)
}

// Quoter is implemented by fee schedules that can report which side and tier
// a fee was derived from.
type Quoter interface {
	Quote(zeroForOne bool, amountSpecified *big.Int) curve.Quote
}

// Config holds everything a VolumeTiered hook needs.
type Config struct {
	// Address is the address the hook is deployed at. Its lowest bits
	// must encode perms.Required.
	Address common.Address

	// Schedule is consulted for the fee of every swap.
	Schedule terms.FeeSchedule

	// Metrics is optional.
	Metrics *Metrics
}

// VolumeTiered is a hook that overrides the LP fee of every swap with the fee
// computed by its fee schedule. It keeps no state between swaps.
type VolumeTiered struct {
	cfg *Config
}

// A compile-time check to ensure VolumeTiered implements SwapHook.
var _ SwapHook = (*VolumeTiered)(nil)

// NewVolumeTiered creates a new hook from the given config.
func NewVolumeTiered(cfg *Config) (*VolumeTiered, error) {
	if cfg.Schedule == nil {
		return nil, fmt.Errorf("fee schedule is required")
	}

	if err := perms.ValidateAddress(cfg.Address, perms.Required); err != nil {
		return nil, err
	}

	return &VolumeTiered{
		cfg: cfg,
	}, nil
}

// Address is the address the hook is deployed at.
//
// NOTE: This is part of the SwapHook interface.
func (h *VolumeTiered) Address() common.Address {
	return h.cfg.Address
}

// Permissions returns the static set of callbacks the hook implements.
//
// NOTE: This is part of the SwapHook interface.
func (h *VolumeTiered) Permissions() perms.Flags {
	return perms.Required
}

// Attach registers the hook with the host for the given pool.
func (h *VolumeTiered) Attach(ctx context.Context, host Host,
	key PoolKey) error {

	if key.Hooks != h.cfg.Address {
		return fmt.Errorf("%w: pool %v uses hook %v", ErrWrongPool,
			key.ID(), key.Hooks)
	}

	if !key.IsDynamicFee() {
		return fmt.Errorf("%w: pool %v has static fee %d",
			ErrNotDynamicFee, key.ID(), key.Fee)
	}

	if err := host.RegisterHook(ctx, key, h); err != nil {
		return fmt.Errorf("unable to register hook for pool %v: %w",
			key.ID(), err)
	}

	log.Infof("Attached volume tiered fee hook %v to pool %v (%v)",
		h.cfg.Address, key.ID(), key)

	return nil
}

// BeforeSwap prices the swap and returns the fee as an override.
//
// NOTE: This is part of the SwapHook interface.
func (h *VolumeTiered) BeforeSwap(_ context.Context, key *PoolKey,
	params *SwapParams) (*BeforeSwapResult, error) {

	if key == nil || key.Hooks != h.cfg.Address {
		return nil, ErrWrongPool
	}
	if params == nil || params.AmountSpecified == nil {
		return nil, ErrNoAmount
	}

	var (
		fee        terms.FeeRate
		side, tier = unknownLabel, unknownLabel
	)
	if quoter, ok := h.cfg.Schedule.(Quoter); ok {
		quote := quoter.Quote(params.ZeroForOne, params.AmountSpecified)
		fee = quote.Fee
		side, tier = quote.Side.String(), quote.Tier.String()
	} else {
		fee = h.cfg.Schedule.FeeRate(
			params.ZeroForOne, params.AmountSpecified,
		)
	}

	if uint32(fee) > MaxLPFee {
		return nil, fmt.Errorf("%w: %d > %d", ErrFeeTooLarge, fee,
			MaxLPFee)
	}

	h.cfg.Metrics.observe(side, tier, fee)

	log.Tracef("Pool %v swap zero_for_one=%v amount=%v: fee=%v "+
		"(side=%v, tier=%v)", key.ID(), params.ZeroForOne,
		params.AmountSpecified, fee, side, tier)

	return &BeforeSwapResult{
		FeeOverride: uint32(fee) | OverrideFeeFlag,
	}, nil
}
