package optimizer

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Optimize runs the full basket optimization: every candidate store is
// aggregated, ranked by total cost, and the cheapest few are searched
// pairwise for a split that clears the savings threshold.
//
// Per-store and per-pair evaluations are independent, read-only passes
// over the lookup tables, so both stages fan out across goroutines and
// join before ranking.
func (e *Engine) Optimize(ctx context.Context, req *Request) (*Result, error) {
	startTime := time.Now()
	defer func() {
		e.metrics.RecordOptimizationDuration("full", time.Since(startTime))
	}()

	if err := req.Validate(e.config.MaxListLines); err != nil {
		e.metrics.RecordOptimizationError("validation")
		return nil, err
	}

	// Zero stores or zero lines is a well-formed empty result, not an
	// error.
	if len(req.Stores) == 0 || len(req.Lines) == 0 {
		return &Result{
			AllSingleStores:    []StoreResult{},
			DistanceMethod:     DistanceMethod,
			DistanceDisclaimer: DistanceDisclaimer,
			OptimizedAt:        e.now().UTC(),
		}, nil
	}

	e.metrics.RecordBasketSize(len(req.Lines))
	e.metrics.RecordCandidateCount("single", len(req.Stores))

	singles := make([]StoreResult, len(req.Stores))
	g, gctx := errgroup.WithContext(ctx)
	if e.config.EvalConcurrency > 0 {
		g.SetLimit(e.config.EvalConcurrency)
	}
	for i, store := range req.Stores {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			singles[i] = e.ComputeStoreResult(
				store,
				req.Lines,
				req.Lookups.PricesFor(store.ID),
				req.Lookups.DealsFor(store.ID),
				req.Home,
				req.Car,
				req.ChainMemberships,
				req.IncludeDeals,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.metrics.RecordOptimizationError("single_store")
		return nil, err
	}

	sort.SliceStable(singles, func(i, j int) bool {
		return singles[i].TotalCostKr < singles[j].TotalCostKr
	})

	bestSingle := singles[0]
	e.metrics.RecordCoverage(bestSingle.CoveragePercent / 100)

	storesByID := make(map[string]Store, len(req.Stores))
	for _, s := range req.Stores {
		storesByID[s.ID] = s
	}

	// Pair search over the cheapest N ranked stores.
	topN := e.config.TopStoresForPairs
	if topN > len(singles) {
		topN = len(singles)
	}
	top := singles[:topN]

	type pairIdx struct{ a, b int }
	var pairs []pairIdx
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			pairs = append(pairs, pairIdx{i, j})
		}
	}
	e.metrics.RecordCandidateCount("pair", len(pairs))

	pairResults := make([]*TwoStoreResult, len(pairs))
	pg, pgctx := errgroup.WithContext(ctx)
	if e.config.EvalConcurrency > 0 {
		pg.SetLimit(e.config.EvalConcurrency)
	}
	for idx, p := range pairs {
		pg.Go(func() error {
			if err := pgctx.Err(); err != nil {
				return err
			}
			storeA := storesByID[top[p.a].StoreID]
			storeB := storesByID[top[p.b].StoreID]
			pairResults[idx] = e.ComputeTwoStoreResult(
				storeA, storeB,
				req.Lines,
				req.Lookups.PricesFor(storeA.ID),
				req.Lookups.PricesFor(storeB.ID),
				req.Lookups.DealsFor(storeA.ID),
				req.Lookups.DealsFor(storeB.ID),
				req.Home,
				req.Car,
				req.ChainMemberships,
				req.IncludeDeals,
				bestSingle.TotalCostKr,
			)
			return nil
		})
	}
	if err := pg.Wait(); err != nil {
		e.metrics.RecordOptimizationError("two_store")
		return nil, err
	}

	var bestPair *TwoStoreResult
	for _, pr := range pairResults {
		if pr == nil {
			continue
		}
		if bestPair == nil || pr.TotalCostKr < bestPair.TotalCostKr {
			bestPair = pr
		}
	}

	e.logger.Debug().
		Int("stores", len(req.Stores)).
		Int("lines", len(req.Lines)).
		Int("pairs", len(pairs)).
		Float64("best_single_total", bestSingle.TotalCostKr).
		Bool("pair_found", bestPair != nil).
		Msg("optimization complete")

	return &Result{
		BestSingleStore:    &bestSingle,
		BestTwoStore:       bestPair,
		AllSingleStores:    singles,
		DistanceMethod:     DistanceMethod,
		DistanceDisclaimer: DistanceDisclaimer,
		OptimizedAt:        e.now().UTC(),
	}, nil
}
