package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/billigkorg/basket-service/internal/database"
	"github.com/billigkorg/basket-service/internal/optimizer"
	"github.com/billigkorg/basket-service/internal/pricing"
)

var (
	optimizeRadius float64
	optimizeStores int
	optimizeOutput string
)

// optimizeRequestFile is the JSON shape the optimize command reads.
type optimizeRequestFile struct {
	Lines []struct {
		ProductID string `json:"productId"`
		Name      string `json:"name"`
		Quantity  int    `json:"quantity"`
	} `json:"lines"`
	Home struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"home"`
	Car *struct {
		FuelType            string  `json:"fuelType"`
		ConsumptionPer100Km float64 `json:"consumptionPer100Km"`
		EnergyUnit          string  `json:"energyUnit"`
		EnergyPriceKr       float64 `json:"energyPriceKr"`
	} `json:"car"`
	ChainMemberships []string `json:"chainMemberships"`
}

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize <request-file>",
	Short: "Optimize a shopping basket from a JSON request file",
	Long: `Run basket optimization for a shopping list described in a JSON file. The file
carries the list lines, the home location, and optionally a car profile and chain
memberships. Results are printed as a table or as JSON.`,
	Example: `  basket-service optimize ./basket.json
  basket-service optimize ./basket.json --radius 15
  basket-service optimize ./basket.json --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().Float64Var(&optimizeRadius, "radius", 10, "Search radius in km around the home location")
	optimizeCmd.Flags().IntVar(&optimizeStores, "max-stores", 50, "Maximum number of candidate stores")
	optimizeCmd.Flags().StringVar(&optimizeOutput, "output", "table", "Output format: table or json")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}

	var reqFile optimizeRequestFile
	if err := json.Unmarshal(content, &reqFile); err != nil {
		return fmt.Errorf("invalid request file: %w", err)
	}
	if len(reqFile.Lines) == 0 {
		return fmt.Errorf("request file has no lines")
	}

	lines := make([]optimizer.ListLine, len(reqFile.Lines))
	for i, l := range reqFile.Lines {
		qty := l.Quantity
		if qty == 0 {
			qty = 1
		}
		lines[i] = optimizer.ListLine{ProductID: l.ProductID, FreeTextName: l.Name, Quantity: qty}
	}

	ctx := context.Background()
	repo := pricing.NewRepository(database.Pool())

	stores, err := repo.StoresNear(ctx, reqFile.Home.Latitude, reqFile.Home.Longitude, optimizeRadius, optimizeStores)
	if err != nil {
		return fmt.Errorf("failed to load stores: %w", err)
	}
	if len(stores) == 0 {
		return fmt.Errorf("no stores within %.1f km", optimizeRadius)
	}

	engine := optimizer.NewEngine(&cfg.Optimizer)

	storeIDs := make([]string, len(stores))
	for i, s := range stores {
		storeIDs[i] = s.ID
	}
	lookups, err := repo.BuildLookups(ctx, storeIDs, lines, cfg.Optimizer.MaxPriceAgeDays)
	if err != nil {
		return fmt.Errorf("failed to load prices: %w", err)
	}

	req := &optimizer.Request{
		Stores:           stores,
		Lines:            lines,
		Lookups:          lookups,
		Home:             optimizer.Coordinate{Lat: reqFile.Home.Latitude, Lng: reqFile.Home.Longitude},
		ChainMemberships: reqFile.ChainMemberships,
		IncludeDeals:     true,
	}
	if reqFile.Car != nil {
		req.Car = optimizer.CarProfile{
			FuelType:            reqFile.Car.FuelType,
			ConsumptionPer100Km: reqFile.Car.ConsumptionPer100Km,
			EnergyUnit:          reqFile.Car.EnergyUnit,
			EnergyPriceKr:       reqFile.Car.EnergyPriceKr,
		}
	}

	result, err := engine.Optimize(ctx, req)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	if optimizeOutput == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printOptimizeResult(result)
	return nil
}

func printOptimizeResult(result *optimizer.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "STORE\tCHAIN\tDIST KM\tGROCERY KR\tTRAVEL KR\tTOTAL KR\tCOVERAGE")
	for _, sr := range result.AllSingleStores {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.2f\t%.2f\t%.2f\t%.0f%%\n",
			sr.StoreName, sr.Chain, sr.DistanceKm, sr.GroceryCostKr, sr.TravelCostKr, sr.TotalCostKr, sr.CoveragePercent)
	}
	w.Flush()

	if result.BestSingleStore != nil {
		best := result.BestSingleStore
		fmt.Printf("\nBest single store: %s (%.2f kr total, %.0f%% coverage)\n",
			best.StoreName, best.TotalCostKr, best.CoveragePercent)
	}

	if result.BestTwoStore != nil {
		pair := result.BestTwoStore
		fmt.Printf("Two-store split: %s + %s saves %.2f kr (%.2f kr total, route %s)\n",
			pair.StoreA.StoreName, pair.StoreB.StoreName, pair.NetSavingsKr, pair.TotalCostKr, pair.RouteOrder)
	} else {
		fmt.Println("No two-store split worth the extra trip.")
	}

	fmt.Println("\n" + result.DistanceDisclaimer)
}
