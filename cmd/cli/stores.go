package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/billigkorg/basket-service/internal/chains"
	"github.com/billigkorg/basket-service/internal/database"
	"github.com/billigkorg/basket-service/internal/pricing"
)

var (
	storesChain  string
	storesOutput string
)

// storesCmd represents the stores command
var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List known stores",
	Long: `List the stores the service knows about, optionally filtered by chain.
Output can be formatted as a human-readable table (default) or JSON.`,
	Example: `  basket-service stores
  basket-service stores --chain ica
  basket-service stores --output json`,
	Args: cobra.NoArgs,
	RunE: runStores,
}

func init() {
	rootCmd.AddCommand(storesCmd)

	storesCmd.Flags().StringVar(&storesChain, "chain", "", "Filter by chain slug")
	storesCmd.Flags().StringVar(&storesOutput, "output", "table", "Output format: table or json")
}

func runStores(cmd *cobra.Command, args []string) error {
	if storesChain != "" && !chains.IsValidChain(storesChain) {
		return fmt.Errorf("invalid chain: %s\nValid chains: %s", storesChain, strings.Join(chains.ValidChains(), ", "))
	}

	ctx := context.Background()
	repo := pricing.NewRepository(database.Pool())

	stores, err := repo.ListStores(ctx, storesChain)
	if err != nil {
		return fmt.Errorf("failed to list stores: %w", err)
	}

	if storesOutput == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stores)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHAIN\tNAME\tCITY\tSTATUS")
	for _, s := range stores {
		city := ""
		if s.City != nil {
			city = *s.City
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, chains.Label(s.ChainSlug), s.Name, city, s.Status)
	}
	w.Flush()

	fmt.Printf("\n%d stores\n", len(stores))
	return nil
}
