package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Stockholm central station to Uppsala central station, roughly
	// 63 km apart as the crow flies.
	d := HaversineKm(59.3303, 18.0590, 59.8581, 17.6447)
	assert.InDelta(t, 63.0, d, 2.0)

	// Same point is zero.
	assert.Equal(t, 0.0, HaversineKm(59.3158, 18.0343, 59.3158, 18.0343))

	// Symmetric in both directions.
	ab := HaversineKm(59.3158, 18.0343, 59.3326, 18.0649)
	ba := HaversineKm(59.3326, 18.0649, 59.3158, 18.0343)
	assert.InDelta(t, ab, ba, 1e-9)
}

func TestTravelCostKr(t *testing.T) {
	car := CarProfile{FuelType: "petrol", ConsumptionPer100Km: 7.0, EnergyUnit: "liter", EnergyPriceKr: 20.0}

	// 10 km at 7 l/100km and 20 kr/l is 14 kr.
	assert.InDelta(t, 14.0, TravelCostKr(10, car), 1e-9)
	assert.Equal(t, 0.0, TravelCostKr(0, car))

	ev := CarProfile{FuelType: "electric", ConsumptionPer100Km: 18.0, EnergyUnit: "kWh", EnergyPriceKr: 2.5}
	assert.InDelta(t, 4.5, TravelCostKr(10, ev), 1e-9)
}
