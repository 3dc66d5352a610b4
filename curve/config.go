package curve

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/codec"
	"github.com/lightninglabs/tierfee/terms"
)

var (
	// ErrInvalidFees is returned when the fees of a configuration are not
	// ordered as default >= fee at min amount > fee at max amount.
	ErrInvalidFees = errors.New("invalid fees")

	// ErrInvalidAmountThresholds is returned when a side's minimum amount
	// threshold is not strictly below its maximum amount threshold.
	ErrInvalidAmountThresholds = errors.New("invalid amount thresholds")
)

// FeeOrdering selects how the fee at the maximum amount is compared against
// the fee at the minimum amount during validation.
type FeeOrdering uint8

const (
	// FeeOrderingStrict requires the fee at the maximum amount to be
	// strictly lower than the fee at the minimum amount.
	FeeOrderingStrict FeeOrdering = 0

	// FeeOrderingPermissive also accepts a fee at the maximum amount that
	// equals the fee at the minimum amount, which yields a flat tier above
	// the minimum amount.
	FeeOrderingPermissive FeeOrdering = 1

	// DefaultFeeOrdering is the ordering used when none is specified.
	DefaultFeeOrdering = FeeOrderingStrict
)

// String returns a human readable name of the ordering.
func (o FeeOrdering) String() string {
	switch o {
	case FeeOrderingStrict:
		return "strict"

	case FeeOrderingPermissive:
		return "permissive"

	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// maxFeeOrdered reports whether feeAtMax is ordered correctly relative to
// feeAtMin under the ordering.
func (o FeeOrdering) maxFeeOrdered(feeAtMax, feeAtMin terms.FeeRate) bool {
	if o == FeeOrderingPermissive {
		return feeAtMax <= feeAtMin
	}

	return feeAtMax < feeAtMin
}

// SideParams holds the fee tier parameters of one side of a pool.
type SideParams struct {
	// FeeAtMinAmount is the fee charged when the measured volume equals
	// MinAmount.
	FeeAtMinAmount terms.FeeRate

	// FeeAtMaxAmount is the fee charged when the measured volume is at or
	// above MaxAmount.
	FeeAtMaxAmount terms.FeeRate

	// MinAmount is the volume at which the tiered fees start to apply.
	MinAmount uint256.Int

	// MaxAmount is the volume from which on FeeAtMaxAmount applies.
	MaxAmount uint256.Int
}

// Config is the complete set of parameters of a volume-tiered fee curve.
type Config struct {
	// DefaultFee is charged whenever the measured volume is below the
	// minimum amount of the relevant side.
	DefaultFee terms.FeeRate

	// Side0 holds the tiers used when currency0 is the fixed leg of a swap.
	Side0 SideParams

	// Side1 holds the tiers used when currency1 is the fixed leg of a swap.
	Side1 SideParams
}

// Params returns the parameters of the given side.
func (c *Config) Params(side Side) SideParams {
	if side == Side1 {
		return c.Side1
	}

	return c.Side0
}

// Digest returns a sha256 fingerprint over the canonical encoding of all nine
// configuration fields.
func (c *Config) Digest() ([32]byte, error) {
	var (
		msg    bytes.Buffer
		digest [32]byte
	)
	err := codec.WriteElements(
		&msg, c.DefaultFee,
		c.Side0.FeeAtMinAmount, c.Side0.FeeAtMaxAmount,
		c.Side0.MinAmount, c.Side0.MaxAmount,
		c.Side1.FeeAtMinAmount, c.Side1.FeeAtMaxAmount,
		c.Side1.MinAmount, c.Side1.MaxAmount,
	)
	if err != nil {
		return digest, err
	}

	digest = sha256.Sum256(msg.Bytes())
	return digest, nil
}

// Validate checks the configuration for consistency. The checks are executed
// in a fixed order and the first failing one determines the returned error.
func Validate(cfg *Config, ordering FeeOrdering) error {
	if ordering != FeeOrderingStrict && ordering != FeeOrderingPermissive {
		return fmt.Errorf("unknown fee ordering %v", ordering)
	}

	if cfg.DefaultFee > terms.MaxFeeRate {
		return fmt.Errorf("%w: default fee %d exceeds maximum %d",
			ErrInvalidFees, cfg.DefaultFee, terms.MaxFeeRate)
	}

	if err := validateFees(Side0, &cfg.Side0, cfg.DefaultFee, ordering); err != nil {
		return err
	}
	if err := validateFees(Side1, &cfg.Side1, cfg.DefaultFee, ordering); err != nil {
		return err
	}

	if err := validateThresholds(Side0, &cfg.Side0); err != nil {
		return err
	}
	return validateThresholds(Side1, &cfg.Side1)
}

func validateFees(side Side, p *SideParams, defaultFee terms.FeeRate,
	ordering FeeOrdering) error {

	if p.FeeAtMinAmount > defaultFee {
		return fmt.Errorf("%w: %v fee at min amount %d exceeds "+
			"default fee %d", ErrInvalidFees, side,
			p.FeeAtMinAmount, defaultFee)
	}

	if !ordering.maxFeeOrdered(p.FeeAtMaxAmount, p.FeeAtMinAmount) {
		return fmt.Errorf("%w: %v fee at max amount %d not below fee "+
			"at min amount %d (%v ordering)", ErrInvalidFees, side,
			p.FeeAtMaxAmount, p.FeeAtMinAmount, ordering)
	}

	return nil
}

func validateThresholds(side Side, p *SideParams) error {
	if !p.MinAmount.Lt(&p.MaxAmount) {
		return fmt.Errorf("%w: %v min amount %s must be below max "+
			"amount %s", ErrInvalidAmountThresholds, side,
			p.MinAmount.Dec(), p.MaxAmount.Dec())
	}

	return nil
}
