package pricing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/billigkorg/basket-service/internal/chains"
	"github.com/billigkorg/basket-service/internal/database"
	"github.com/billigkorg/basket-service/internal/matching"
	"github.com/billigkorg/basket-service/internal/optimizer"
)

// Repository loads stores, regular prices and deal offers for the
// optimizer and accepts new price observations from ingestion.
type Repository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRepository creates a pricing repository on top of a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool:   pool,
		logger: log.With().Str("component", "pricing_repository").Logger(),
	}
}

// StoresNear returns active stores within radiusKm of the given point,
// closest first. Distance is straight-line haversine, computed in Go
// after a cheap bounding box cut in SQL.
func (r *Repository) StoresNear(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]optimizer.Store, error) {
	// One degree of latitude is ~111 km; longitude shrinks with
	// latitude but the box only needs to over-select.
	latDelta := radiusKm / 111.0
	lngDelta := radiusKm / 55.0

	query := `
		SELECT id, chain_slug, name, COALESCE(format, ''), COALESCE(address, ''), latitude, longitude
		FROM stores
		WHERE status = 'active'
		  AND latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
	`
	rows, err := r.pool.Query(ctx, query, lat-latDelta, lat+latDelta, lng-lngDelta, lng+lngDelta)
	if err != nil {
		return nil, fmt.Errorf("error querying stores: %w", err)
	}
	defer rows.Close()

	var stores []optimizer.Store
	for rows.Next() {
		var s optimizer.Store
		var chainSlug string
		if err := rows.Scan(&s.ID, &chainSlug, &s.Name, &s.Format, &s.Address, &s.Lat, &s.Lng); err != nil {
			return nil, fmt.Errorf("error scanning store: %w", err)
		}
		if optimizer.HaversineKm(lat, lng, s.Lat, s.Lng) > radiusKm {
			continue
		}
		s.Chain = chains.MembershipTag(chainSlug)
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading stores: %w", err)
	}

	sortStoresByDistance(stores, lat, lng)
	if limit > 0 && len(stores) > limit {
		stores = stores[:limit]
	}
	return stores, nil
}

// ListStores returns all stores, optionally filtered by chain slug.
func (r *Repository) ListStores(ctx context.Context, chainSlug string) ([]database.Store, error) {
	query := `
		SELECT id, chain_slug, name, format, address, city, postal_code,
		       latitude, longitude, status, created_at, updated_at
		FROM stores
	`
	args := []any{}
	if chainSlug != "" {
		query += ` WHERE chain_slug = $1`
		args = append(args, chainSlug)
	}
	query += ` ORDER BY chain_slug, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying stores: %w", err)
	}
	defer rows.Close()

	var stores []database.Store
	for rows.Next() {
		var s database.Store
		if err := rows.Scan(&s.ID, &s.ChainSlug, &s.Name, &s.Format, &s.Address, &s.City,
			&s.PostalCode, &s.Latitude, &s.Longitude, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// SearchProducts returns catalog products whose normalized key
// contains the normalized query.
func (r *Repository) SearchProducts(ctx context.Context, query string, limit int) ([]database.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	normalized := matching.NormalizeKey(query)

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, normalized_key, brand, category, unit, barcode, created_at, updated_at
		FROM products
		WHERE normalized_key LIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`, normalized, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching products: %w", err)
	}
	defer rows.Close()

	var products []database.Product
	for rows.Next() {
		var p database.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.NormalizedKey, &p.Brand, &p.Category,
			&p.Unit, &p.Barcode, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// EnsureProduct finds a catalog product by its normalized name key or
// creates it. Safe under concurrent ingestion via ON CONFLICT.
func (r *Repository) EnsureProduct(ctx context.Context, name string, brand, unit, barcode *string) (string, error) {
	key := matching.NormalizeKey(name)

	var id string
	err := r.pool.QueryRow(ctx, `SELECT id FROM products WHERE normalized_key = $1 LIMIT 1`, key).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return "", fmt.Errorf("error querying product: %w", err)
	}

	now := time.Now()
	newID := uuid.New().String()
	err = r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, normalized_key, brand, category, unit, barcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULL, $5, $6, $7, $7)
		ON CONFLICT (normalized_key) DO NOTHING
		RETURNING id
	`, newID, name, key, brand, unit, barcode, now).Scan(&id)
	if err == pgx.ErrNoRows {
		// Lost the race; the row exists now.
		if err := r.pool.QueryRow(ctx, `SELECT id FROM products WHERE normalized_key = $1 LIMIT 1`, key).Scan(&id); err != nil {
			return "", fmt.Errorf("error finding product after conflict: %w", err)
		}
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("error inserting product: %w", err)
	}
	return id, nil
}

// InsertObservations writes a batch of price observations in one
// transaction.
func (r *Repository) InsertObservations(ctx context.Context, observations []database.PriceObservation) error {
	if len(observations) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	now := time.Now()
	for _, obs := range observations {
		id := obs.ID
		if id == "" {
			id = uuid.New().String()
		}
		batch.Queue(`
			INSERT INTO price_observations (id, store_id, product_id, price_kr, source, observed_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, obs.StoreID, obs.ProductID, obs.PriceKr, obs.Source, obs.ObservedAt, now)
	}

	results := tx.SendBatch(ctx, batch)
	for range observations {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("error inserting observation: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("error closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing observations: %w", err)
	}

	r.logger.Info().Int("count", len(observations)).Msg("inserted price observations")
	return nil
}

func sortStoresByDistance(stores []optimizer.Store, lat, lng float64) {
	sort.SliceStable(stores, func(i, j int) bool {
		return optimizer.HaversineKm(lat, lng, stores[i].Lat, stores[i].Lng) <
			optimizer.HaversineKm(lat, lng, stores[j].Lat, stores[j].Lng)
	})
}
