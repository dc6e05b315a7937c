package optimizer

// ComputeTwoStoreResult evaluates splitting the list across a store
// pair. Each line is resolved independently at both stores and
// assigned to the cheaper one (ties favor A); lines missing at both
// go to a single shared missing list. The pair is only surfaced when
// it beats bestSingleTotal by the minimum savings threshold, otherwise
// nil is returned.
func (e *Engine) ComputeTwoStoreResult(storeA, storeB Store, lines []ListLine, pricesA, pricesB PriceTable, dealsA, dealsB DealTable, home Coordinate, car CarProfile, memberships []string, includeDeals bool, bestSingleTotal float64) *TwoStoreResult {
	membershipsA := membershipsForChain(storeA.Chain, memberships)
	membershipsB := membershipsForChain(storeB.Chain, memberships)

	var (
		assignment   []ItemAssignment
		missingItems []LineExplanation
		itemsA       []LineExplanation
		itemsB       []LineExplanation

		combinedGrocery     float64
		regularCostForDeals float64
		dealCostForDeals    float64
	)

	assign := func(expl LineExplanation, label string) {
		if label == "A" {
			itemsA = append(itemsA, expl)
		} else {
			itemsB = append(itemsB, expl)
		}
		combinedGrocery += expl.EffectiveTotal
		if expl.DealApplied {
			regularCostForDeals += Round2(expl.RegularPriceKr * float64(expl.Quantity))
			dealCostForDeals += expl.EffectiveTotal
		}
		assignment = append(assignment, ItemAssignment{
			ItemName:      expl.ItemName,
			AssignedStore: label,
			PriceKr:       expl.EffectiveTotal,
		})
	}

	for _, line := range lines {
		key := line.LookupKey()

		var regularA, regularB *RegularPrice
		if p, ok := pricesA[key]; ok {
			regularA = &p
		}
		if p, ok := pricesB[key]; ok {
			regularB = &p
		}

		explA := e.ComputeItemPrice(line, regularA, dealsA[key], membershipsA, includeDeals)
		explB := e.ComputeItemPrice(line, regularB, dealsB[key], membershipsB, includeDeals)

		switch {
		case explA.Missing && explB.Missing:
			missingItems = append(missingItems, explA)
		case explA.Missing:
			assign(explB, "B")
		case explB.Missing:
			assign(explA, "A")
		case explA.EffectiveTotal <= explB.EffectiveTotal:
			assign(explA, "A")
		default:
			assign(explB, "B")
		}
	}

	combinedGrocery = Round2(combinedGrocery)
	combinedSavings := Round2(regularCostForDeals - dealCostForDeals)

	// Both visiting orders are evaluated even though haversine is
	// symmetric and they tie; the two-branch structure stays so an
	// asymmetric routing provider can slot in without touching the
	// assignment logic.
	distHA := HaversineKm(home.Lat, home.Lng, storeA.Lat, storeA.Lng)
	distHB := HaversineKm(home.Lat, home.Lng, storeB.Lat, storeB.Lng)
	distAB := HaversineKm(storeA.Lat, storeA.Lng, storeB.Lat, storeB.Lng)

	routeAThenB := distHA + distAB + distHB
	routeBThenA := distHB + distAB + distHA

	var travelDistanceKm float64
	var order RouteOrder
	if routeAThenB <= routeBThenA {
		travelDistanceKm = Round2(routeAThenB)
		order = RouteAThenB
	} else {
		travelDistanceKm = Round2(routeBThenA)
		order = RouteBThenA
	}

	travelCost := Round2(TravelCostKr(travelDistanceKm, car))
	missingPenalty := float64(len(missingItems)) * e.config.MissingItemPenaltyKr
	totalCost := Round2(combinedGrocery + travelCost + missingPenalty)

	netSavings := Round2(bestSingleTotal - totalCost)
	if netSavings < e.config.TwoStoreMinSavingsKr {
		e.metrics.RecordPairGate(false)
		return nil
	}
	e.metrics.RecordPairGate(true)

	totalItems := len(lines)
	pricedCount := totalItems - len(missingItems)
	coverage := 0.0
	if totalItems > 0 {
		coverage = Round2(float64(pricedCount) / float64(totalItems) * 100)
	}

	// The shared missing list is reported once, attached to A's
	// breakdown; B's breakdown carries no missing lines.
	resultA := e.buildPartialStoreResult(storeA, itemsA, missingItems, totalItems, home, car)
	resultB := e.buildPartialStoreResult(storeB, itemsB, nil, totalItems, home, car)

	return &TwoStoreResult{
		StoreA:                resultA,
		StoreB:                resultB,
		CombinedGroceryCostKr: combinedGrocery,
		CombinedDealsSavings:  combinedSavings,
		TravelDistanceKm:      travelDistanceKm,
		TravelCostKr:          travelCost,
		TotalCostKr:           totalCost,
		NetSavingsKr:          netSavings,
		RouteOrder:            order,
		ItemAssignment:        assignment,
		MissingItems:          missingItems,
		CoveragePercent:       coverage,
	}
}

// buildPartialStoreResult summarizes one side of a pair from its
// already-resolved line assignments.
func (e *Engine) buildPartialStoreResult(store Store, pricedItems, missingItems []LineExplanation, totalItemCount int, home Coordinate, car CarProfile) StoreResult {
	var groceryCost, regularCostForDeals, dealCostForDeals float64
	dealsApplied := 0

	for _, item := range pricedItems {
		groceryCost += item.EffectiveTotal
		if item.DealApplied {
			dealsApplied++
			regularCostForDeals += Round2(item.RegularPriceKr * float64(item.Quantity))
			dealCostForDeals += item.EffectiveTotal
		}
	}

	groceryCost = Round2(groceryCost)
	dealsSavings := Round2(regularCostForDeals - dealCostForDeals)

	distanceKm := HaversineKm(home.Lat, home.Lng, store.Lat, store.Lng)
	travelDistanceKm := Round2(distanceKm * 2)
	travelCost := Round2(TravelCostKr(travelDistanceKm, car))

	missingPenalty := float64(len(missingItems)) * e.config.MissingItemPenaltyKr
	totalCost := Round2(groceryCost + travelCost + missingPenalty)

	coverage := 0.0
	if totalItemCount > 0 {
		coverage = Round2(float64(len(pricedItems)) / float64(totalItemCount) * 100)
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
		ItemCount:        totalItemCount,
		PricedItemCount:  len(pricedItems),
		MissingItemCount: len(missingItems),
		DealsApplied:     dealsApplied,
		Items:            pricedItems,
		MissingItems:     missingItems,
	}
}
