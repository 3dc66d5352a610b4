package hook

import (
	"github.com/lightninglabs/tierfee/terms"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// unknownLabel is used for the side and tier labels if the fee
	// schedule does not explain its quotes.
	unknownLabel = "unknown"
)

// Metrics records the fees returned by a hook.
type Metrics struct {
	quotes  *prometheus.CounterVec
	feeRate prometheus.Histogram
}

// NewMetrics creates the hook metrics and registers them with the given
// registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		quotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tierfee",
				Name:      "quotes_total",
				Help:      "Total swaps priced by side and fee tier.",
			},
			[]string{"side", "tier"},
		),
		feeRate: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "tierfee",
				Name:      "fee_rate_pips",
				Help:      "Fee rates returned to the host in pips.",
				Buckets: []float64{
					100, 500, 1_000, 2_500, 3_000, 5_000,
					10_000, 100_000, 1_000_000,
				},
			},
		),
	}

	if err := reg.Register(m.quotes); err != nil {
		return nil, err
	}
	if err := reg.Register(m.feeRate); err != nil {
		reg.Unregister(m.quotes)
		return nil, err
	}

	return m, nil
}

// observe records a single priced swap.
func (m *Metrics) observe(side, tier string, fee terms.FeeRate) {
	if m == nil {
		return
	}

	m.quotes.WithLabelValues(side, tier).Inc()
	m.feeRate.Observe(float64(fee))
}
