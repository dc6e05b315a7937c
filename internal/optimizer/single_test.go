package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Hornstull and a store 1 km-ish away, so travel costs are small but
// nonzero.
var (
	testHome  = Coordinate{Lat: 59.3158, Lng: 18.0343}
	testCar   = CarProfile{FuelType: "petrol", ConsumptionPer100Km: 7.0, EnergyUnit: "liter", EnergyPriceKr: 19.0}
	zeroCar   = CarProfile{}
	testStore = Store{ID: "store-a", Name: "ICA Supermarket Hornstull", Chain: "ICA", Format: "supermarket", Lat: 59.3158, Lng: 18.0343}
)

func testPrices(ageDays int, prices map[string]float64) PriceTable {
	table := PriceTable{}
	for key, price := range prices {
		table[key] = RegularPrice{
			ProductID:   key,
			ProductName: key,
			StoreID:     "store-a",
			PriceKr:     price,
			ObservedAt:  testNow.AddDate(0, 0, -ageDays),
			Source:      "receipt",
		}
	}
	return table
}

func TestComputeStoreResultBasics(t *testing.T) {
	e := newTestEngine()

	lines := []ListLine{
		{ProductID: "milk", Quantity: 2},
		{ProductID: "bread", Quantity: 1},
	}
	prices := testPrices(2, map[string]float64{"milk": 15.90, "bread": 32.50})

	// Store at the home coordinate, zero consumption car: total is
	// grocery cost only.
	result := e.ComputeStoreResult(testStore, lines, prices, nil, testHome, zeroCar, nil, true)

	assert.Equal(t, 64.30, result.GroceryCostKr)
	assert.Equal(t, 0.0, result.TravelCostKr)
	assert.Equal(t, 64.30, result.TotalCostKr)
	assert.Equal(t, 100.0, result.CoveragePercent)
	assert.Equal(t, 2, result.PricedItemCount)
	assert.Equal(t, 0, result.MissingItemCount)
	assert.Len(t, result.Items, 2)
	assert.Empty(t, result.MissingItems)
}

func TestComputeStoreResultMissingItemPenalty(t *testing.T) {
	e := newTestEngine()

	lines := []ListLine{
		{ProductID: "milk", Quantity: 1},
		{ProductID: "saffron", Quantity: 1}, // no observation
	}
	prices := testPrices(2, map[string]float64{"milk": 15.90})

	result := e.ComputeStoreResult(testStore, lines, prices, nil, testHome, zeroCar, nil, true)

	assert.Equal(t, 15.90, result.GroceryCostKr)
	assert.Equal(t, 65.90, result.TotalCostKr) // 15.90 + one 50 kr penalty
	assert.Equal(t, 50.0, result.CoveragePercent)
	assert.Equal(t, 1, result.MissingItemCount)
	require.Len(t, result.MissingItems, 1)
	assert.Equal(t, "saffron", result.MissingItems[0].ProductID)
}

func TestComputeStoreResultBookkeeping(t *testing.T) {
	e := newTestEngine()

	store := testStore
	store.Lat = 59.3326 // Sergels torg, a few km from home
	store.Lng = 18.0649

	lines := []ListLine{
		{ProductID: "milk", Quantity: 2},
		{ProductID: "coffee", Quantity: 1},
		{ProductID: "saffron", Quantity: 1},
	}
	prices := testPrices(3, map[string]float64{"milk": 15.90, "coffee": 55.00})
	deals := DealTable{"coffee": {{Name: "Veckans kaffe", DealPriceKr: 39.90, MultiBuy: MultiBuyNone}}}

	result := e.ComputeStoreResult(store, lines, prices, deals, testHome, testCar, nil, true)

	// Grocery, travel and penalty always reconcile with the total.
	reconstructed := Round2(result.GroceryCostKr + result.TravelCostKr + float64(result.MissingItemCount)*50)
	assert.Equal(t, result.TotalCostKr, reconstructed)

	assert.Equal(t, 71.70, result.GroceryCostKr) // 31.80 + 39.90
	assert.Equal(t, 15.10, result.DealsSavingsKr)
	assert.Equal(t, 1, result.DealsApplied)
	assert.Greater(t, result.TravelCostKr, 0.0)
	assert.Equal(t, Round2(result.DistanceKm*2), result.TravelDistanceKm)
	assert.Equal(t, 66.67, result.CoveragePercent) // 2 of 3 lines priced
}

func TestComputeStoreResultMemberOnlyNeedsChainMembership(t *testing.T) {
	e := newTestEngine()

	lines := []ListLine{{ProductID: "coffee", Quantity: 1}}
	prices := testPrices(1, map[string]float64{"coffee": 55.00})
	deals := DealTable{"coffee": {{Name: "Medlemspris", DealPriceKr: 39.90, MultiBuy: MultiBuyNone, MemberOnly: true}}}

	// Membership in another chain does not unlock the deal.
	result := e.ComputeStoreResult(testStore, lines, prices, deals, testHome, zeroCar, []string{"COOP"}, true)
	assert.Equal(t, 55.00, result.GroceryCostKr)
	assert.Equal(t, 0, result.DealsApplied)

	// Membership in the store's own chain does.
	result = e.ComputeStoreResult(testStore, lines, prices, deals, testHome, zeroCar, []string{"COOP", "ICA"}, true)
	assert.Equal(t, 39.90, result.GroceryCostKr)
	assert.Equal(t, 1, result.DealsApplied)
}

func TestComputeStoreResultEmptyList(t *testing.T) {
	e := newTestEngine()

	result := e.ComputeStoreResult(testStore, nil, PriceTable{}, nil, testHome, zeroCar, nil, true)

	assert.Equal(t, 0.0, result.GroceryCostKr)
	assert.Equal(t, 0.0, result.TotalCostKr)
	assert.Equal(t, 0.0, result.CoveragePercent)
	assert.Equal(t, 0, result.ItemCount)
}

func TestMembershipsForChain(t *testing.T) {
	memberships := []string{"ICA", "WILLYS"}

	assert.Equal(t, memberships, membershipsForChain("ICA", memberships))
	assert.Nil(t, membershipsForChain("COOP", memberships))
	assert.Nil(t, membershipsForChain("ICA", nil))
}
