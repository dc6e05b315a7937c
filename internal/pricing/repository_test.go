package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/billigkorg/basket-service/internal/database"
	"github.com/billigkorg/basket-service/internal/optimizer"
)

// setupPricingTestDB starts a postgres container and applies the schema.
func setupPricingTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping pricing test in short mode (requires Docker)")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	config, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(t, err, "Failed to create connection pool")

	require.NoError(t, runPricingTestMigrations(ctx, pool), "Failed to run migrations")

	cleanup := func() {
		pool.Close()
		testcontainers.TerminateContainer(container)
	}

	return pool, cleanup
}

func runPricingTestMigrations(ctx context.Context, db *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS chains (
		slug TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		website TEXT,
		logo_url TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		chain_slug TEXT NOT NULL REFERENCES chains(slug) ON DELETE CASCADE,
		name TEXT NOT NULL,
		format TEXT,
		address TEXT,
		city TEXT,
		postal_code TEXT,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		status TEXT DEFAULT 'active',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		normalized_key TEXT NOT NULL UNIQUE,
		brand TEXT,
		category TEXT,
		unit TEXT,
		barcode TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS price_observations (
		id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		price_kr DOUBLE PRECISION NOT NULL,
		source TEXT NOT NULL,
		observed_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS deal_offers (
		id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		product_id TEXT REFERENCES products(id) ON DELETE SET NULL,
		name TEXT NOT NULL,
		normalized_key TEXT NOT NULL,
		deal_price_kr DOUBLE PRECISION NOT NULL,
		multi_buy_type TEXT NOT NULL DEFAULT 'NONE',
		multi_buy_x INTEGER,
		multi_buy_y DOUBLE PRECISION,
		conditions TEXT,
		member_only BOOLEAN NOT NULL DEFAULT false,
		limit_per_household INTEGER,
		valid_from TIMESTAMPTZ,
		valid_to TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	`
	_, err := db.Exec(ctx, schema)
	return err
}

// seedStores inserts the ica chain and two Stockholm stores.
func seedStores(ctx context.Context, t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	_, err := db.Exec(ctx, `
		INSERT INTO chains (slug, name) VALUES ('ica', 'ICA'), ('willys', 'Willys');

		INSERT INTO stores (id, chain_slug, name, format, latitude, longitude, status) VALUES
		('store-a', 'ica', 'ICA Supermarket Hornstull', 'supermarket', 59.3158, 18.0343, 'active'),
		('store-b', 'willys', 'Willys Liljeholmen', 'hypermarket', 59.3103, 18.0225, 'active'),
		('store-far', 'ica', 'ICA Maxi Uppsala', 'hypermarket', 59.8586, 17.6389, 'active'),
		('store-pending', 'ica', 'ICA Nara Pending', 'convenience', 59.3160, 18.0350, 'pending');
	`)
	require.NoError(t, err)
}

func TestStoresNear(t *testing.T) {
	pool, cleanup := setupPricingTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedStores(ctx, t, pool)
	repo := NewRepository(pool)

	stores, err := repo.StoresNear(ctx, 59.3158, 18.0343, 10, 50)
	require.NoError(t, err)

	// Uppsala is ~63 km away and the pending store is filtered out.
	require.Len(t, stores, 2)
	assert.Equal(t, "store-a", stores[0].ID)
	assert.Equal(t, "ICA", stores[0].Chain)
	assert.Equal(t, "store-b", stores[1].ID)
	assert.Equal(t, "WILLYS", stores[1].Chain)
}

func TestStoresNearLimit(t *testing.T) {
	pool, cleanup := setupPricingTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedStores(ctx, t, pool)
	repo := NewRepository(pool)

	stores, err := repo.StoresNear(ctx, 59.3158, 18.0343, 10, 1)
	require.NoError(t, err)

	require.Len(t, stores, 1)
	assert.Equal(t, "store-a", stores[0].ID, "closest store should survive the limit")
}

func TestEnsureProduct(t *testing.T) {
	pool, cleanup := setupPricingTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRepository(pool)

	brand := "Arla"
	id, err := repo.EnsureProduct(ctx, "Mellanmjölk 1,5%", &brand, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Same normalized name resolves to the same product.
	again, err := repo.EnsureProduct(ctx, "mellanmjölk 1,5%", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	other, err := repo.EnsureProduct(ctx, "Kaffe mellanrost", nil, nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestInsertObservationsAndBuildLookups(t *testing.T) {
	pool, cleanup := setupPricingTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedStores(ctx, t, pool)
	repo := NewRepository(pool)

	milkID, err := repo.EnsureProduct(ctx, "Mellanmjölk", nil, nil, nil)
	require.NoError(t, err)
	coffeeID, err := repo.EnsureProduct(ctx, "Kaffe mellanrost", nil, nil, nil)
	require.NoError(t, err)

	now := time.Now()
	err = repo.InsertObservations(ctx, []database.PriceObservation{
		// Older milk price must lose to the newer one.
		{StoreID: "store-a", ProductID: milkID, PriceKr: 17.90, Source: "receipt", ObservedAt: now.AddDate(0, 0, -5)},
		{StoreID: "store-a", ProductID: milkID, PriceKr: 15.90, Source: "receipt", ObservedAt: now.AddDate(0, 0, -1)},
		{StoreID: "store-b", ProductID: milkID, PriceKr: 13.90, Source: "flyer", ObservedAt: now.AddDate(0, 0, -2)},
		// Too old to be usable at all.
		{StoreID: "store-b", ProductID: coffeeID, PriceKr: 49.90, Source: "receipt", ObservedAt: now.AddDate(0, 0, -45)},
	})
	require.NoError(t, err)

	lines := []optimizer.ListLine{
		{ProductID: milkID, Quantity: 1},
		{FreeTextName: "Kaffe Mellanrost", Quantity: 1},
	}

	lookups, err := repo.BuildLookups(ctx, []string{"store-a", "store-b"}, lines, 30)
	require.NoError(t, err)

	priceA, ok := lookups.PricesFor("store-a")[milkID]
	require.True(t, ok)
	assert.Equal(t, 15.90, priceA.PriceKr, "latest observation should win")
	assert.Equal(t, "Mellanmjölk", priceA.ProductName)

	priceB, ok := lookups.PricesFor("store-b")[milkID]
	require.True(t, ok)
	assert.Equal(t, 13.90, priceB.PriceKr)

	// The coffee observation is outside the staleness window, so the
	// free text line stays unpriced.
	_, ok = lookups.PricesFor("store-b")["Kaffe Mellanrost"]
	assert.False(t, ok)
}

func TestBuildLookupsFreeTextResolution(t *testing.T) {
	pool, cleanup := setupPricingTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedStores(ctx, t, pool)
	repo := NewRepository(pool)

	breadID, err := repo.EnsureProduct(ctx, "Rågbröd", nil, nil, nil)
	require.NoError(t, err)

	now := time.Now()
	err = repo.InsertObservations(ctx, []database.PriceObservation{
		{StoreID: "store-a", ProductID: breadID, PriceKr: 32.50, Source: "receipt", ObservedAt: now.AddDate(0, 0, -3)},
	})
	require.NoError(t, err)

	// The free text line carries diacritics and mixed case; the
	// normalized key resolves it to the catalog product.
	lines := []optimizer.ListLine{{FreeTextName: "RÅGBRÖD", Quantity: 1}}

	lookups, err := repo.BuildLookups(ctx, []string{"store-a"}, lines, 30)
	require.NoError(t, err)

	price, ok := lookups.PricesFor("store-a")["RÅGBRÖD"]
	require.True(t, ok, "price should be registered under the raw lookup key")
	assert.Equal(t, 32.50, price.PriceKr)
}

func TestBuildLookupsDeals(t *testing.T) {
	pool, cleanup := setupPricingTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedStores(ctx, t, pool)
	repo := NewRepository(pool)

	coffeeID, err := repo.EnsureProduct(ctx, "Kaffe mellanrost", nil, nil, nil)
	require.NoError(t, err)

	now := time.Now()
	err = repo.InsertObservations(ctx, []database.PriceObservation{
		{StoreID: "store-a", ProductID: coffeeID, PriceKr: 55.00, Source: "receipt", ObservedAt: now.AddDate(0, 0, -1)},
	})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO deal_offers (id, store_id, product_id, name, normalized_key, deal_price_kr, multi_buy_type, multi_buy_x, multi_buy_y, member_only, status) VALUES
		('deal-1', 'store-a', $1, 'Veckans kaffe', 'kaffe mellanrost', 39.90, 'NONE', NULL, NULL, false, 'approved'),
		('deal-2', 'store-a', $1, '3 för 100', 'kaffe mellanrost', 39.90, 'X_FOR_Y', 3, 100, false, 'approved'),
		('deal-3', 'store-a', $1, 'Pending deal', 'kaffe mellanrost', 9.90, 'NONE', NULL, NULL, false, 'pending')
	`, coffeeID)
	require.NoError(t, err)

	lines := []optimizer.ListLine{{ProductID: coffeeID, Quantity: 3}}

	lookups, err := repo.BuildLookups(ctx, []string{"store-a"}, lines, 30)
	require.NoError(t, err)

	deals := lookups.DealsFor("store-a")[coffeeID]
	require.Len(t, deals, 2, "pending deals must not load")

	byID := map[string]optimizer.Deal{}
	for _, d := range deals {
		byID[d.ID] = d
	}
	assert.Equal(t, optimizer.MultiBuyNone, byID["deal-1"].MultiBuy)
	assert.Equal(t, optimizer.MultiBuyXForY, byID["deal-2"].MultiBuy)
	assert.Equal(t, 3, byID["deal-2"].MultiBuyX)
	assert.Equal(t, 100.0, byID["deal-2"].MultiBuyY)
}

func TestSearchProducts(t *testing.T) {
	pool, cleanup := setupPricingTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRepository(pool)

	_, err := repo.EnsureProduct(ctx, "Mellanmjölk", nil, nil, nil)
	require.NoError(t, err)
	_, err = repo.EnsureProduct(ctx, "Kärnmjölk", nil, nil, nil)
	require.NoError(t, err)
	_, err = repo.EnsureProduct(ctx, "Kaffe mellanrost", nil, nil, nil)
	require.NoError(t, err)

	products, err := repo.SearchProducts(ctx, "mjölk", 20)
	require.NoError(t, err)
	require.Len(t, products, 2)

	names := []string{products[0].Name, products[1].Name}
	assert.Contains(t, names, "Mellanmjölk")
	assert.Contains(t, names, "Kärnmjölk")
}

func TestListStores(t *testing.T) {
	pool, cleanup := setupPricingTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedStores(ctx, t, pool)
	repo := NewRepository(pool)

	all, err := repo.ListStores(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	ica, err := repo.ListStores(ctx, "ica")
	require.NoError(t, err)
	require.Len(t, ica, 3)
	for _, s := range ica {
		assert.Equal(t, "ica", s.ChainSlug)
	}
}
