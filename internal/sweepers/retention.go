package sweepers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// RetentionSweeper periodically prunes price observations that are too
// old to ever be used again and deal offers whose validity window has
// long passed. Keeps the hot tables small without touching anything
// the optimizer can still see.
type RetentionSweeper struct {
	pool          *pgxpool.Pool
	logger        *zerolog.Logger
	interval      time.Duration
	retentionDays int
	stopChan      chan struct{}
}

// NewRetentionSweeper creates a sweeper that keeps retentionDays of
// observation history. Retention must exceed the optimizer's staleness
// window or usable prices would disappear.
func NewRetentionSweeper(pool *pgxpool.Pool, logger *zerolog.Logger, interval time.Duration, retentionDays int) *RetentionSweeper {
	return &RetentionSweeper{
		pool:          pool,
		logger:        logger,
		interval:      interval,
		retentionDays: retentionDays,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the periodic retention sweep
func (s *RetentionSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Int("retention_days", s.retentionDays).
		Msg("Starting retention sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Retention sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Retention sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Retention sweep failed")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *RetentionSweeper) Stop() {
	close(s.stopChan)
}

// Sweep deletes observations past retention and deals expired for
// longer than the retention window.
func (s *RetentionSweeper) Sweep(ctx context.Context) error {
	s.logger.Debug().Msg("Running retention sweep")

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	obsResult, err := s.pool.Exec(ctx, `
		DELETE FROM price_observations WHERE observed_at < $1
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune price observations: %w", err)
	}

	dealResult, err := s.pool.Exec(ctx, `
		DELETE FROM deal_offers WHERE valid_to IS NOT NULL AND valid_to < $1
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune deal offers: %w", err)
	}

	prunedObs := obsResult.RowsAffected()
	prunedDeals := dealResult.RowsAffected()
	if prunedObs > 0 || prunedDeals > 0 {
		s.logger.Info().
			Int64("observations", prunedObs).
			Int64("deals", prunedDeals).
			Msg("Pruned expired price data")
	}

	return nil
}
