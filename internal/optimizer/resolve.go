package optimizer

import "fmt"

// ComputeItemPrice resolves one shopping list line at one store: it
// decides between the regular price and the best applicable deal and
// returns the quantity-weighted total with a full explanation.
//
// memberships must be non-empty only when the user is a member of the
// store's own chain; the caller is expected to have filtered deals to
// that store already, so a non-empty list signals eligibility for
// member-only deals.
func (e *Engine) ComputeItemPrice(line ListLine, regular *RegularPrice, deals []Deal, memberships []string, includeDeals bool) LineExplanation {
	itemName := line.FreeTextName
	if itemName == "" && regular != nil {
		itemName = regular.ProductName
	}
	if itemName == "" {
		itemName = "Unknown item"
	}
	productID := line.ProductID
	if productID == "" && regular != nil {
		productID = regular.ProductID
	}
	quantity := line.Quantity

	// A line is missing when there is no observation at all or the
	// observation has aged out of the staleness window. Missing is
	// data, not an error: the caller can always render a partial
	// result.
	if regular == nil || !e.priceWithinAge(regular.ObservedAt) {
		expl := LineExplanation{
			ItemName:      itemName,
			ProductID:     productID,
			Quantity:      quantity,
			PriceUsed:     PriceUsedMissing,
			Missing:       true,
			MissingReason: "No price data found for this item at this store",
		}
		if regular != nil {
			observed := regular.ObservedAt
			expl.RegularPriceKr = regular.PriceKr
			expl.ObservedAt = &observed
			expl.Freshness = e.freshness(observed)
			expl.PriceSource = regular.Source
			expl.MissingReason = fmt.Sprintf("Price data is too old (older than %d days)", e.config.MaxPriceAgeDays)
		}
		return expl
	}

	unitPrice := regular.PriceKr
	regularTotal := Round2(unitPrice * float64(quantity))
	observed := regular.ObservedAt

	base := LineExplanation{
		ItemName:       itemName,
		ProductID:      productID,
		Quantity:       quantity,
		RegularPriceKr: unitPrice,
		ObservedAt:     &observed,
		Freshness:      e.freshness(observed),
		PriceSource:    regular.Source,
		EffectiveKr:    unitPrice,
		EffectiveTotal: regularTotal,
		PriceUsed:      PriceUsedRegular,
	}

	if !includeDeals || len(deals) == 0 {
		return base
	}

	bestTotal := regularTotal
	var best *Deal

	for i := range deals {
		deal := &deals[i]
		if !e.dealValidToday(*deal) {
			continue
		}
		if deal.MemberOnly && len(memberships) == 0 {
			continue
		}
		total := e.dealTotal(*deal, quantity, unitPrice)
		if total < bestTotal {
			bestTotal = total
			best = deal
		}
	}

	// Deals apply only when strictly cheaper than the regular total.
	if best == nil {
		return base
	}

	e.metrics.RecordDealApplication()

	expl := base
	expl.DealPriceKr = best.DealPriceKr
	expl.DealName = best.Name
	expl.DealConditions = best.Conditions
	expl.DealMemberOnly = best.MemberOnly
	expl.DealApplied = true
	expl.EffectiveKr = Round2(bestTotal / float64(quantity))
	expl.EffectiveTotal = bestTotal
	expl.PriceUsed = PriceUsedDeal
	return expl
}

// dealTotal prices quantity units under one deal. Units beyond the
// per-household limit fall back to the regular unit price.
func (e *Engine) dealTotal(deal Deal, quantity int, unitPrice float64) float64 {
	effectiveQty := quantity
	if deal.LimitPerHousehold > 0 && deal.LimitPerHousehold < quantity {
		effectiveQty = deal.LimitPerHousehold
	}
	remainderQty := quantity - effectiveQty

	var total float64
	switch deal.MultiBuy {
	case MultiBuyXForY:
		// Buy X units for Y kr; units outside a full bundle stay at
		// the regular price.
		x := deal.MultiBuyX
		if x < 1 {
			x = 1
		}
		y := deal.MultiBuyY
		if y <= 0 {
			y = deal.DealPriceKr
		}
		bundles := effectiveQty / x
		leftover := effectiveQty % x
		total = float64(bundles)*y + float64(leftover)*unitPrice

	case MultiBuyBuyXGetY:
		// Pay for X units, take X+Y; partial groups get no free units.
		x := deal.MultiBuyX
		if x < 1 {
			x = 1
		}
		y := int(deal.MultiBuyY)
		if y < 1 {
			y = 1
		}
		groupSize := x + y
		groups := effectiveQty / groupSize
		leftover := effectiveQty % groupSize
		total = float64(groups*x)*unitPrice + float64(leftover)*unitPrice

	case MultiBuyPercentOff:
		// DealPriceKr is the already-discounted unit price; the
		// percentage itself is descriptive only.
		total = float64(effectiveQty) * deal.DealPriceKr

	case MultiBuyNone:
		total = float64(effectiveQty) * deal.DealPriceKr
	}

	return Round2(total + float64(remainderQty)*unitPrice)
}
