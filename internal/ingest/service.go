package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/billigkorg/basket-service/internal/database"
)

// Catalog is the slice of the pricing repository the ingestor needs.
type Catalog interface {
	EnsureProduct(ctx context.Context, name string, brand, unit, barcode *string) (string, error)
	InsertObservations(ctx context.Context, observations []database.PriceObservation) error
}

// Parser turns raw file content into normalized observation rows.
type Parser interface {
	Parse(content []byte) (*Result, error)
}

// Ingestor loads price observation files into the catalog.
type Ingestor struct {
	catalog Catalog
	logger  zerolog.Logger
}

// NewIngestor creates a price file ingestor.
func NewIngestor(catalog Catalog) *Ingestor {
	return &Ingestor{
		catalog: catalog,
		logger:  log.With().Str("component", "ingest").Logger(),
	}
}

// ParserForFile picks a parser by file extension.
func ParserForFile(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// IngestFile parses a price file and writes its observations for the
// given store. Row-level failures are reported in the result, not as
// an error.
func (in *Ingestor) IngestFile(ctx context.Context, path, storeID, source string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	parser, err := ParserForFile(path)
	if err != nil {
		return nil, err
	}

	result, err := in.Ingest(ctx, parser, content, storeID, source)
	if err != nil {
		return nil, err
	}

	in.logger.Info().
		Str("file", filepath.Base(path)).
		Str("store_id", storeID).
		Int("total_rows", result.TotalRows).
		Int("valid_rows", result.ValidRows).
		Int("errors", len(result.Errors)).
		Msg("ingested price file")
	return result, nil
}

// Ingest parses raw content and writes its observations.
func (in *Ingestor) Ingest(ctx context.Context, parser Parser, content []byte, storeID, source string) (*Result, error) {
	if source == "" {
		source = "import"
	}

	result, err := parser.Parse(content)
	if err != nil {
		return nil, err
	}

	observations := make([]database.PriceObservation, 0, len(result.Rows))
	for i, row := range result.Rows {
		productID, err := in.catalog.EnsureProduct(ctx, row.ProductName, optional(row.Brand), optional(row.Unit), optional(row.Barcode))
		if err != nil {
			result.Errors = append(result.Errors, ParseError{Row: i, Field: "name", Message: err.Error()})
			result.ValidRows--
			continue
		}
		observations = append(observations, database.PriceObservation{
			ID:         uuid.New().String(),
			StoreID:    storeID,
			ProductID:  productID,
			PriceKr:    row.PriceKr,
			Source:     source,
			ObservedAt: row.ObservedAt,
		})
	}

	if err := in.catalog.InsertObservations(ctx, observations); err != nil {
		return nil, err
	}
	return result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
