package optimizer

// ComputeStoreResult aggregates the whole shopping list against one
// store: per-line resolution, grocery cost, deals savings, round-trip
// travel cost, missing-item penalty and coverage.
func (e *Engine) ComputeStoreResult(store Store, lines []ListLine, prices PriceTable, deals DealTable, home Coordinate, car CarProfile, memberships []string, includeDeals bool) StoreResult {
	storeMemberships := membershipsForChain(store.Chain, memberships)

	pricedItems := make([]LineExplanation, 0, len(lines))
	var missingItems []LineExplanation
	var groceryCost, regularCostForDeals, dealCostForDeals float64
	dealsApplied := 0

	for _, line := range lines {
		key := line.LookupKey()
		var regular *RegularPrice
		if p, ok := prices[key]; ok {
			regular = &p
		}

		expl := e.ComputeItemPrice(line, regular, deals[key], storeMemberships, includeDeals)
		if expl.Missing {
			missingItems = append(missingItems, expl)
			continue
		}

		pricedItems = append(pricedItems, expl)
		groceryCost += expl.EffectiveTotal
		if expl.DealApplied {
			dealsApplied++
			regularCostForDeals += Round2(expl.RegularPriceKr * float64(expl.Quantity))
			dealCostForDeals += expl.EffectiveTotal
		}
	}

	groceryCost = Round2(groceryCost)
	dealsSavings := Round2(regularCostForDeals - dealCostForDeals)

	distanceKm := HaversineKm(home.Lat, home.Lng, store.Lat, store.Lng)
	travelDistanceKm := Round2(distanceKm * 2) // round trip
	travelCost := Round2(TravelCostKr(travelDistanceKm, car))

	missingPenalty := float64(len(missingItems)) * e.config.MissingItemPenaltyKr
	totalCost := Round2(groceryCost + travelCost + missingPenalty)

	totalItems := len(lines)
	coverage := 0.0
	if totalItems > 0 {
		coverage = Round2(float64(len(pricedItems)) / float64(totalItems) * 100)
	}

	return StoreResult{
		StoreID:          store.ID,
		StoreName:        store.Name,
		Chain:            store.Chain,
		Format:           store.Format,
		Address:          store.Address,
		Lat:              store.Lat,
		Lng:              store.Lng,
		DistanceKm:       Round2(distanceKm),
		GroceryCostKr:    groceryCost,
		DealsSavingsKr:   dealsSavings,
		TravelCostKr:     travelCost,
		TravelDistanceKm: travelDistanceKm,
		TotalCostKr:      totalCost,
		CoveragePercent:  coverage,
		ItemCount:        totalItems,
		PricedItemCount:  len(pricedItems),
		MissingItemCount: len(missingItems),
		DealsApplied:     dealsApplied,
		Items:            pricedItems,
		MissingItems:     missingItems,
	}
}

// membershipsForChain narrows the user's memberships to the store's
// own chain: a non-empty slice is passed through only when the chain
// is among them, which is what unlocks member-only deals downstream.
func membershipsForChain(chain string, memberships []string) []string {
	for _, m := range memberships {
		if m == chain {
			return memberships
		}
	}
	return nil
}
