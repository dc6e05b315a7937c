package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pairStoreA = Store{ID: "store-a", Name: "ICA Supermarket Hornstull", Chain: "ICA", Lat: 59.3158, Lng: 18.0343}
	pairStoreB = Store{ID: "store-b", Name: "Willys Liljeholmen", Chain: "WILLYS", Lat: 59.3158, Lng: 18.0343}
)

func TestComputeTwoStoreResultAssignsCheaperStore(t *testing.T) {
	e := newTestEngine()

	lines := []ListLine{
		{ProductID: "milk", Quantity: 1},
		{ProductID: "coffee", Quantity: 1},
	}
	pricesA := testPrices(1, map[string]float64{"milk": 10.00, "coffee": 60.00})
	pricesB := testPrices(1, map[string]float64{"milk": 15.00, "coffee": 40.00})

	// Best single store would pay 55.00 at B; the split pays 50.00.
	result := e.ComputeTwoStoreResult(pairStoreA, pairStoreB, lines, pricesA, pricesB, nil, nil, testHome, zeroCar, nil, true, 65.00)

	require.NotNil(t, result)
	assert.Equal(t, 50.00, result.CombinedGroceryCostKr)
	assert.Equal(t, 50.00, result.TotalCostKr)
	assert.Equal(t, 15.00, result.NetSavingsKr)
	assert.Equal(t, 100.0, result.CoveragePercent)

	require.Len(t, result.ItemAssignment, 2)
	byName := map[string]string{}
	for _, a := range result.ItemAssignment {
		byName[a.ItemName] = a.AssignedStore
	}
	assert.Equal(t, "A", byName["milk"])
	assert.Equal(t, "B", byName["coffee"])

	assert.Equal(t, 10.00, result.StoreA.GroceryCostKr)
	assert.Equal(t, 40.00, result.StoreB.GroceryCostKr)
}

func TestComputeTwoStoreResultSavingsGate(t *testing.T) {
	e := newTestEngine()

	lines := []ListLine{{ProductID: "milk", Quantity: 1}}
	pricesA := testPrices(1, map[string]float64{"milk": 10.00})
	pricesB := testPrices(1, map[string]float64{"milk": 15.00})

	// Savings of 5 kr against the best single store stays below the
	// 10 kr threshold.
	result := e.ComputeTwoStoreResult(pairStoreA, pairStoreB, lines, pricesA, pricesB, nil, nil, testHome, zeroCar, nil, true, 15.00)
	assert.Nil(t, result)

	// Exactly at the threshold the split is surfaced.
	result = e.ComputeTwoStoreResult(pairStoreA, pairStoreB, lines, pricesA, pricesB, nil, nil, testHome, zeroCar, nil, true, 20.00)
	require.NotNil(t, result)
	assert.Equal(t, 10.00, result.NetSavingsKr)
}

func TestComputeTwoStoreResultTieFavorsStoreA(t *testing.T) {
	e := newTestEngine()

	lines := []ListLine{{ProductID: "milk", Quantity: 1}}
	prices := testPrices(1, map[string]float64{"milk": 10.00})

	result := e.ComputeTwoStoreResult(pairStoreA, pairStoreB, lines, prices, prices, nil, nil, testHome, zeroCar, nil, true, 100.00)

	require.NotNil(t, result)
	require.Len(t, result.ItemAssignment, 1)
	assert.Equal(t, "A", result.ItemAssignment[0].AssignedStore)
}

func TestComputeTwoStoreResultOneSidedAvailability(t *testing.T) {
	e := newTestEngine()

	lines := []ListLine{{ProductID: "coffee", Quantity: 1}}
	pricesB := testPrices(1, map[string]float64{"coffee": 99.00})

	// A has no observation, so even the pricier side gets the line.
	result := e.ComputeTwoStoreResult(pairStoreA, pairStoreB, lines, PriceTable{}, pricesB, nil, nil, testHome, zeroCar, nil, true, 200.00)

	require.NotNil(t, result)
	require.Len(t, result.ItemAssignment, 1)
	assert.Equal(t, "B", result.ItemAssignment[0].AssignedStore)
	assert.Empty(t, result.MissingItems)
}

func TestComputeTwoStoreResultSharedMissingList(t *testing.T) {
	e := newTestEngine()

	lines := []ListLine{
		{ProductID: "milk", Quantity: 1},
		{ProductID: "saffron", Quantity: 1},
	}
	prices := testPrices(1, map[string]float64{"milk": 10.00})

	result := e.ComputeTwoStoreResult(pairStoreA, pairStoreB, lines, prices, prices, nil, nil, testHome, zeroCar, nil, true, 200.00)

	require.NotNil(t, result)
	// One 50 kr penalty, charged once for the pair.
	assert.Equal(t, 60.00, result.TotalCostKr)
	assert.Equal(t, 50.0, result.CoveragePercent)
	require.Len(t, result.MissingItems, 1)
	assert.Equal(t, "saffron", result.MissingItems[0].ProductID)

	// The shared list lives on A's breakdown only.
	assert.Len(t, result.StoreA.MissingItems, 1)
	assert.Empty(t, result.StoreB.MissingItems)
}

func TestComputeTwoStoreResultRouteOrder(t *testing.T) {
	e := newTestEngine()

	storeB := pairStoreB
	storeB.Lat = 59.3326
	storeB.Lng = 18.0649

	lines := []ListLine{
		{ProductID: "milk", Quantity: 1},
		{ProductID: "coffee", Quantity: 1},
	}
	pricesA := testPrices(1, map[string]float64{"milk": 5.00, "coffee": 60.00})
	pricesB := testPrices(1, map[string]float64{"milk": 15.00, "coffee": 30.00})

	result := e.ComputeTwoStoreResult(pairStoreA, storeB, lines, pricesA, pricesB, nil, nil, testHome, testCar, nil, true, 200.00)

	require.NotNil(t, result)
	// Haversine routing is symmetric, so the tie resolves to A first.
	assert.Equal(t, RouteAThenB, result.RouteOrder)
	assert.Greater(t, result.TravelDistanceKm, 0.0)
	assert.Greater(t, result.TravelCostKr, 0.0)

	reconstructed := Round2(result.CombinedGroceryCostKr + result.TravelCostKr)
	assert.Equal(t, result.TotalCostKr, reconstructed)
}
