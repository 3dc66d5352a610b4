package curve

import (
	"math/big"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/terms"
)

// Quote is the detailed outcome of pricing a single swap.
type Quote struct {
	// Side is the side whose tiers were applied.
	Side Side

	// Volume is the magnitude of the fixed leg of the swap.
	Volume uint256.Int

	// Tier is the region of the fee curve the volume fell into.
	Tier Tier

	// Fee is the resulting fee rate.
	Fee terms.FeeRate
}

// Option is a functional option that modifies the construction of an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	ordering FeeOrdering
}

// WithFeeOrdering selects the fee ordering the configuration is validated
// against.
func WithFeeOrdering(ordering FeeOrdering) Option {
	return func(o *engineOptions) {
		o.ordering = ordering
	}
}

// Engine prices swaps against a volume-tiered fee curve. The configuration is
// copied and validated once on construction and never modified afterwards, so
// an Engine can be used from multiple goroutines without synchronization.
type Engine struct {
	cfg      Config
	ordering FeeOrdering
}

// A compile-time check to ensure Engine implements terms.FeeSchedule.
var _ terms.FeeSchedule = (*Engine)(nil)

// New validates the given configuration and returns an engine pricing swaps
// against it. No engine is returned if any check fails.
func New(cfg Config, opts ...Option) (*Engine, error) {
	options := &engineOptions{
		ordering: DefaultFeeOrdering,
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := Validate(&cfg, options.ordering); err != nil {
		log.Debugf("Rejected fee curve config: %v", err)
		return nil, err
	}

	log.Debugf("Created fee curve engine (ordering=%v): %v",
		options.ordering, newLogClosure(func() string {
			return spew.Sdump(cfg)
		}))

	return &Engine{
		cfg:      cfg,
		ordering: options.ordering,
	}, nil
}

// Config returns a copy of the configuration the engine was created with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Ordering returns the fee ordering the configuration was validated against.
func (e *Engine) Ordering() FeeOrdering {
	return e.ordering
}

// Quote prices a swap and returns the details of the evaluation. The amount
// must not be nil.
func (e *Engine) Quote(zeroForOne bool, amountSpecified *big.Int) Quote {
	side, volume := Resolve(zeroForOne, amountSpecified)

	params := e.cfg.Params(side)
	fee, tier := Evaluate(&volume, &params, e.cfg.DefaultFee)

	log.Tracef("Priced swap zero_for_one=%v amount=%v: side=%v, tier=%v, "+
		"fee=%d", zeroForOne, amountSpecified, side, tier, fee)

	return Quote{
		Side:   side,
		Volume: volume,
		Tier:   tier,
		Fee:    fee,
	}
}

// PriceFee returns the fee rate for a swap in the given direction with the
// given signed amount.
func (e *Engine) PriceFee(zeroForOne bool, amountSpecified *big.Int) terms.FeeRate {
	return e.Quote(zeroForOne, amountSpecified).Fee
}

// FeeRate returns the fee rate for a swap.
//
// NOTE: This method is part of the terms.FeeSchedule interface.
func (e *Engine) FeeRate(zeroForOne bool, amountSpecified *big.Int) terms.FeeRate {
	return e.PriceFee(zeroForOne, amountSpecified)
}
