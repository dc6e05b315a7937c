package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/billigkorg/basket-service/internal/matching"
	"github.com/billigkorg/basket-service/internal/optimizer"
)

// BuildLookups loads the immutable price and deal tables the optimizer
// consumes: the latest regular price observation per (store, product)
// inside the staleness window and the approved deal offers, both keyed
// the way the shopping list lines will look them up.
//
// Free text lines are resolved to catalog products through the
// normalized key; unresolved lines simply stay absent from the tables
// and surface as missing.
func (r *Repository) BuildLookups(ctx context.Context, storeIDs []string, lines []optimizer.ListLine, maxAgeDays int) (optimizer.Lookups, error) {
	lookups := optimizer.Lookups{
		PricesByStore: make(map[string]optimizer.PriceTable, len(storeIDs)),
		DealsByStore:  make(map[string]optimizer.DealTable, len(storeIDs)),
	}
	if len(storeIDs) == 0 || len(lines) == 0 {
		return lookups, nil
	}

	// keysByProduct maps a catalog product id to the lookup keys of
	// the lines that want it. Several lines can share a product.
	keysByProduct := make(map[string][]string)
	var freeTextKeys []string
	keyByNormalized := make(map[string]string)

	for _, line := range lines {
		if line.ProductID != "" {
			keysByProduct[line.ProductID] = append(keysByProduct[line.ProductID], line.LookupKey())
			continue
		}
		normalized := matching.NormalizeKey(line.FreeTextName)
		freeTextKeys = append(freeTextKeys, normalized)
		keyByNormalized[normalized] = line.LookupKey()
	}

	if len(freeTextKeys) > 0 {
		rows, err := r.pool.Query(ctx, `
			SELECT id, normalized_key FROM products WHERE normalized_key = ANY($1)
		`, freeTextKeys)
		if err != nil {
			return lookups, fmt.Errorf("error resolving free text lines: %w", err)
		}
		for rows.Next() {
			var id, normalized string
			if err := rows.Scan(&id, &normalized); err != nil {
				rows.Close()
				return lookups, fmt.Errorf("error scanning product key: %w", err)
			}
			if key, ok := keyByNormalized[normalized]; ok {
				keysByProduct[id] = append(keysByProduct[id], key)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return lookups, fmt.Errorf("error reading product keys: %w", err)
		}
	}

	productIDs := make([]string, 0, len(keysByProduct))
	for id := range keysByProduct {
		productIDs = append(productIDs, id)
	}
	if len(productIDs) == 0 {
		return lookups, nil
	}

	if err := r.loadPrices(ctx, &lookups, storeIDs, productIDs, keysByProduct, maxAgeDays); err != nil {
		return lookups, err
	}
	if err := r.loadDeals(ctx, &lookups, storeIDs, productIDs, freeTextKeys, keysByProduct, keyByNormalized); err != nil {
		return lookups, err
	}

	r.logger.Debug().
		Int("stores", len(storeIDs)).
		Int("lines", len(lines)).
		Int("resolved_products", len(productIDs)).
		Msg("built optimizer lookups")
	return lookups, nil
}

// loadPrices fills the per-store price tables with the newest
// observation per (store, product) inside the staleness window.
func (r *Repository) loadPrices(ctx context.Context, lookups *optimizer.Lookups, storeIDs, productIDs []string, keysByProduct map[string][]string, maxAgeDays int) error {
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (o.store_id, o.product_id)
		       o.store_id, o.product_id, p.name, o.price_kr, o.observed_at, o.source
		FROM price_observations o
		JOIN products p ON p.id = o.product_id
		WHERE o.store_id = ANY($1)
		  AND o.product_id = ANY($2)
		  AND o.observed_at >= $3
		ORDER BY o.store_id, o.product_id, o.observed_at DESC
	`, storeIDs, productIDs, cutoff)
	if err != nil {
		return fmt.Errorf("error querying price observations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var price optimizer.RegularPrice
		if err := rows.Scan(&price.StoreID, &price.ProductID, &price.ProductName,
			&price.PriceKr, &price.ObservedAt, &price.Source); err != nil {
			return fmt.Errorf("error scanning price observation: %w", err)
		}

		table, ok := lookups.PricesByStore[price.StoreID]
		if !ok {
			table = optimizer.PriceTable{}
			lookups.PricesByStore[price.StoreID] = table
		}
		for _, key := range keysByProduct[price.ProductID] {
			table[key] = price
		}
	}
	return rows.Err()
}

// loadDeals fills the per-store deal tables with approved offers that
// match the requested products by id or by normalized name.
func (r *Repository) loadDeals(ctx context.Context, lookups *optimizer.Lookups, storeIDs, productIDs, freeTextKeys []string, keysByProduct map[string][]string, keyByNormalized map[string]string) error {
	if len(freeTextKeys) == 0 {
		// ANY over an empty array never matches; keep the query shape.
		freeTextKeys = []string{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, store_id, product_id, name, normalized_key, deal_price_kr,
		       multi_buy_type, multi_buy_x, multi_buy_y, conditions,
		       member_only, limit_per_household, valid_from, valid_to
		FROM deal_offers
		WHERE store_id = ANY($1)
		  AND status = 'approved'
		  AND (product_id = ANY($2) OR normalized_key = ANY($3))
	`, storeIDs, productIDs, freeTextKeys)
	if err != nil {
		return fmt.Errorf("error querying deal offers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			deal          optimizer.Deal
			productID     *string
			normalizedKey string
			multiBuyType  string
			multiBuyX     *int
			multiBuyY     *float64
			conditions    *string
			limit         *int
		)
		if err := rows.Scan(&deal.ID, &deal.StoreID, &productID, &deal.Name, &normalizedKey,
			&deal.DealPriceKr, &multiBuyType, &multiBuyX, &multiBuyY, &conditions,
			&deal.MemberOnly, &limit, &deal.ValidFrom, &deal.ValidTo); err != nil {
			return fmt.Errorf("error scanning deal offer: %w", err)
		}

		deal.MultiBuy = optimizer.ParseMultiBuyKind(multiBuyType)
		if productID != nil {
			deal.ProductID = *productID
		}
		if multiBuyX != nil {
			deal.MultiBuyX = *multiBuyX
		}
		if multiBuyY != nil {
			deal.MultiBuyY = *multiBuyY
		}
		if conditions != nil {
			deal.Conditions = *conditions
		}
		if limit != nil {
			deal.LimitPerHousehold = *limit
		}

		table, ok := lookups.DealsByStore[deal.StoreID]
		if !ok {
			table = optimizer.DealTable{}
			lookups.DealsByStore[deal.StoreID] = table
		}

		// A deal registers under every lookup key that can reach it.
		seen := map[string]bool{}
		if deal.ProductID != "" {
			for _, key := range keysByProduct[deal.ProductID] {
				if !seen[key] {
					table[key] = append(table[key], deal)
					seen[key] = true
				}
			}
		}
		if key, ok := keyByNormalized[normalizedKey]; ok && !seen[key] {
			table[key] = append(table[key], deal)
		}
	}
	return rows.Err()
}
