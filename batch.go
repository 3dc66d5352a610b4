package tierfee

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"runtime"

	"github.com/lightninglabs/tierfee/terms"
	"golang.org/x/sync/errgroup"
)

// ErrMissingAmount is returned when a trade of a batch has no amount.
var ErrMissingAmount = errors.New("trade amount missing")

// Trade is a single swap to be priced.
type Trade struct {
	// ZeroForOne is true if currency0 is offered for currency1.
	ZeroForOne bool

	// AmountSpecified is negative for exact input and positive for exact
	// output swaps.
	AmountSpecified *big.Int
}

// BatchQuote prices all trades against the schedule concurrently and returns
// the fee rates in the order of the trades. Since pricing never mutates the
// schedule, the trades are split between workers without any coordination.
func BatchQuote(ctx context.Context, schedule terms.FeeSchedule,
	trades []Trade) ([]terms.FeeRate, error) {

	for idx, trade := range trades {
		if trade.AmountSpecified == nil {
			return nil, fmt.Errorf("trade %d: %w", idx,
				ErrMissingAmount)
		}
	}

	fees := make([]terms.FeeRate, len(trades))

	numWorkers := runtime.NumCPU()
	if numWorkers > len(trades) {
		numWorkers = len(trades)
	}

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		w := w
		eg.Go(func() error {
			for idx := w; idx < len(trades); idx += numWorkers {
				if err := ctx.Err(); err != nil {
					return err
				}

				trade := trades[idx]
				fees[idx] = schedule.FeeRate(
					trade.ZeroForOne, trade.AmountSpecified,
				)
			}

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.Debugf("Priced batch of %d trades with %d workers", len(trades),
		numWorkers)

	return fees, nil
}
