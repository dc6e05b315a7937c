package optimizer

import "math"

// DistanceMethod identifies how distances are computed. The engine
// ships with straight-line haversine only; the label travels with
// every result so the UI can disclaim it.
const (
	DistanceMethod     = "haversine"
	DistanceDisclaimer = "Distances are straight-line (haversine). Actual driving distance may be longer."
)

// HaversineKm calculates the great-circle distance between two points
// in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371.0 // Earth radius km
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// TravelCostKr prices a trip of distanceKm with the given car profile.
// Consumption is per 100 km regardless of the energy unit family.
func TravelCostKr(distanceKm float64, car CarProfile) float64 {
	return (distanceKm / 100) * car.ConsumptionPer100Km * car.EnergyPriceKr
}
