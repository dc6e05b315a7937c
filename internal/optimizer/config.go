package optimizer

// Config holds the tunables of the basket optimizer. It is loaded from
// the config file or environment variables.
type Config struct {
	// Price staleness
	MaxPriceAgeDays   int `mapstructure:"max_price_age_days" env:"MAX_PRICE_AGE_DAYS" default:"30"`
	FreshnessFreshMax int `mapstructure:"freshness_fresh_max_days" env:"FRESHNESS_FRESH_MAX_DAYS" default:"7"`
	FreshnessAgingMax int `mapstructure:"freshness_aging_max_days" env:"FRESHNESS_AGING_MAX_DAYS" default:"14"`

	// Ranking
	MissingItemPenaltyKr float64 `mapstructure:"missing_item_penalty_kr" env:"MISSING_ITEM_PENALTY_KR" default:"50"`

	// Pair search
	TwoStoreMinSavingsKr float64 `mapstructure:"two_store_min_savings_kr" env:"TWO_STORE_MIN_SAVINGS_KR" default:"10"`
	TopStoresForPairs    int     `mapstructure:"top_stores_for_pairs" env:"TOP_STORES_FOR_PAIRS" default:"6"`

	// Validation limits
	MaxListLines int `mapstructure:"max_list_lines" env:"MAX_LIST_LINES" default:"100"`

	// Concurrency for per-store and per-pair fan-out. 0 means one
	// goroutine per evaluation.
	EvalConcurrency int `mapstructure:"eval_concurrency" env:"EVAL_CONCURRENCY" default:"8"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		MaxPriceAgeDays:      30,
		FreshnessFreshMax:    7,
		FreshnessAgingMax:    14,
		MissingItemPenaltyKr: 50,
		TwoStoreMinSavingsKr: 10,
		TopStoresForPairs:    6,
		MaxListLines:         100,
		EvalConcurrency:      8,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.MaxPriceAgeDays < 1 {
		return ErrInvalidConfig{Field: "max_price_age_days", Reason: "must be at least 1"}
	}
	if c.FreshnessFreshMax < 1 || c.FreshnessAgingMax < c.FreshnessFreshMax {
		return ErrInvalidConfig{Field: "freshness_aging_max_days", Reason: "must be >= freshness_fresh_max_days >= 1"}
	}
	if c.FreshnessAgingMax > c.MaxPriceAgeDays {
		return ErrInvalidConfig{Field: "freshness_aging_max_days", Reason: "must be <= max_price_age_days"}
	}
	if c.MissingItemPenaltyKr < 0 {
		return ErrInvalidConfig{Field: "missing_item_penalty_kr", Reason: "must be non-negative"}
	}
	if c.TwoStoreMinSavingsKr < 0 {
		return ErrInvalidConfig{Field: "two_store_min_savings_kr", Reason: "must be non-negative"}
	}
	if c.TopStoresForPairs < 2 {
		return ErrInvalidConfig{Field: "top_stores_for_pairs", Reason: "must be at least 2"}
	}
	if c.MaxListLines < 1 {
		return ErrInvalidConfig{Field: "max_list_lines", Reason: "must be at least 1"}
	}
	if c.EvalConcurrency < 0 {
		return ErrInvalidConfig{Field: "eval_concurrency", Reason: "must be non-negative"}
	}
	return nil
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}
