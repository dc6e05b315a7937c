package optimizer

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine runs basket optimizations. It is a pure function of its
// inputs: no I/O, no shared mutable state, safe for concurrent use.
type Engine struct {
	config  *Config
	metrics *MetricsRecorder
	logger  zerolog.Logger

	// now is overridable in tests; validity windows and staleness are
	// evaluated against it.
	now func() time.Time
}

// NewEngine creates a basket optimization engine.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = Defaults()
	}
	return &Engine{
		config:  config,
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "basket_engine").Logger(),
		now:     time.Now,
	}
}

// daysSince returns whole days elapsed between t and now. Only the
// freshness bands floor to whole days; the staleness gate compares
// the full duration.
func (e *Engine) daysSince(t time.Time) int {
	return int(e.now().Sub(t).Hours() / 24)
}

// freshness classifies the age of a price observation.
func (e *Engine) freshness(observedAt time.Time) Freshness {
	days := e.daysSince(observedAt)
	switch {
	case days <= e.config.FreshnessFreshMax:
		return FreshnessFresh
	case days <= e.config.FreshnessAgingMax:
		return FreshnessAging
	default:
		return FreshnessStale
	}
}

// priceWithinAge reports whether an observation is recent enough to
// use. An observation aged 30 days and one hour is already too old,
// so the age is not floored to whole days here.
func (e *Engine) priceWithinAge(observedAt time.Time) bool {
	maxAge := time.Duration(e.config.MaxPriceAgeDays) * 24 * time.Hour
	return e.now().Sub(observedAt) <= maxAge
}

// dealValidToday checks the deal validity window with date-only
// granularity; either bound may be absent.
func (e *Engine) dealValidToday(d Deal) bool {
	today := dateOnly(e.now())
	if d.ValidFrom != nil && today.Before(dateOnly(*d.ValidFrom)) {
		return false
	}
	if d.ValidTo != nil && today.After(dateOnly(*d.ValidTo)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
