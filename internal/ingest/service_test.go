package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billigkorg/basket-service/internal/database"
)

type fakeCatalog struct {
	products     map[string]string
	observations []database.PriceObservation
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]string{}}
}

func (f *fakeCatalog) EnsureProduct(_ context.Context, name string, _, _, _ *string) (string, error) {
	if id, ok := f.products[name]; ok {
		return id, nil
	}
	id := "prod-" + name
	f.products[name] = id
	return id, nil
}

func (f *fakeCatalog) InsertObservations(_ context.Context, observations []database.PriceObservation) error {
	f.observations = append(f.observations, observations...)
	return nil
}

func TestIngestorIngestFile(t *testing.T) {
	catalog := newFakeCatalog()
	ingestor := NewIngestor(catalog)

	path := filepath.Join(t.TempDir(), "prices.csv")
	content := "Produkt;Pris;Datum\nMjölk;15,90;2025-06-10\nBröd;22,50;2025-06-10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, err := ingestor.IngestFile(context.Background(), path, "store-1", "import")

	require.NoError(t, err)
	assert.Equal(t, 2, result.ValidRows)
	require.Len(t, catalog.observations, 2)

	obs := catalog.observations[0]
	assert.Equal(t, "store-1", obs.StoreID)
	assert.Equal(t, "prod-Mjölk", obs.ProductID)
	assert.Equal(t, 15.90, obs.PriceKr)
	assert.Equal(t, "import", obs.Source)
	assert.NotEmpty(t, obs.ID)
}

func TestIngestorUnsupportedExtension(t *testing.T) {
	ingestor := NewIngestor(newFakeCatalog())

	path := filepath.Join(t.TempDir(), "prices.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := ingestor.IngestFile(context.Background(), path, "store-1", "")
	assert.Error(t, err)
}

func TestParserForFile(t *testing.T) {
	p, err := ParserForFile("prices.csv")
	require.NoError(t, err)
	assert.IsType(t, &CSVParser{}, p)

	p, err = ParserForFile("PRICES.XLSX")
	require.NoError(t, err)
	assert.IsType(t, &XLSXParser{}, p)

	_, err = ParserForFile("prices.xml")
	assert.Error(t, err)
}
