package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/billigkorg/basket-service/internal/database"
	"github.com/billigkorg/basket-service/internal/ingest"
	"github.com/billigkorg/basket-service/internal/pricing"
)

var (
	ingestStore  string
	ingestSource string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a price file for a store",
	Long: `Parse a local price file (CSV or XLSX) and persist the observations for a store.
Rows that fail to parse are reported but do not abort the ingest; the remaining
valid rows are stored.`,
	Example: `  basket-service ingest ./priser.csv --store 6f1b2a8e-... --source import
  basket-service ingest ./priser.xlsx --store 6f1b2a8e-...`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestFile,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestStore, "store", "", "Store ID the observations belong to (required)")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "import", "Observation source tag")
	_ = ingestCmd.MarkFlagRequired("store")
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	repo := pricing.NewRepository(database.Pool())
	ingestor := ingest.NewIngestor(repo)

	result, err := ingestor.IngestFile(ctx, args[0], ingestStore, ingestSource)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	logger.Info().
		Int("total_rows", result.TotalRows).
		Int("valid_rows", result.ValidRows).
		Int("errors", len(result.Errors)).
		Msg("Ingest complete")

	if len(result.Errors) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROW\tFIELD\tERROR")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "%d\t%s\t%s\n", e.Row, e.Field, e.Message)
		}
		w.Flush()
	}

	return nil
}
