package optimizer

import (
	"fmt"
	"time"
)

// MultiBuyKind is the payout shape of a deal offer. The set is closed;
// evaluation switches exhaustively over it.
type MultiBuyKind int

const (
	// MultiBuyNone is a flat per-unit deal price.
	MultiBuyNone MultiBuyKind = iota
	// MultiBuyXForY is "buy X units for Y kr total".
	MultiBuyXForY
	// MultiBuyBuyXGetY is "buy X units, get Y units free".
	MultiBuyBuyXGetY
	// MultiBuyPercentOff is a percentage discount; the deal price field
	// carries the already-discounted unit price, the percentage itself
	// is descriptive.
	MultiBuyPercentOff
)

// String returns the wire representation used by flyer ingestion.
func (k MultiBuyKind) String() string {
	switch k {
	case MultiBuyXForY:
		return "X_FOR_Y"
	case MultiBuyBuyXGetY:
		return "BUY_X_GET_Y"
	case MultiBuyPercentOff:
		return "PERCENT_OFF"
	default:
		return "NONE"
	}
}

// ParseMultiBuyKind maps the stored deal type tag to a MultiBuyKind.
// Unknown tags fall back to NONE, matching how unrecognized flyer rows
// are priced flat.
func ParseMultiBuyKind(s string) MultiBuyKind {
	switch s {
	case "X_FOR_Y":
		return MultiBuyXForY
	case "BUY_X_GET_Y":
		return MultiBuyBuyXGetY
	case "PERCENT_OFF":
		return MultiBuyPercentOff
	default:
		return MultiBuyNone
	}
}

// Freshness classifies how recently a regular price was observed.
// It is advisory only and never changes which price is chosen.
type Freshness string

const (
	FreshnessFresh Freshness = "FRESH" // observed within 7 days
	FreshnessAging Freshness = "AGING" // observed within 14 days
	FreshnessStale Freshness = "STALE" // older, but still usable
)

// PriceUsed names the price source chosen for a shopping list line.
type PriceUsed string

const (
	PriceUsedRegular PriceUsed = "REGULAR"
	PriceUsedDeal    PriceUsed = "DEAL"
	PriceUsedMissing PriceUsed = "MISSING"
)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Store is one candidate retail location.
type Store struct {
	ID      string
	Name    string
	Chain   string
	Format  string
	Address string
	Lat     float64
	Lng     float64
}

// ListLine is one requested line of the shopping list. Either ProductID
// or FreeTextName identifies the product; callers resolve free text to
// product IDs where possible before invoking the engine.
type ListLine struct {
	ProductID        string
	FreeTextName     string
	Quantity         int
	AllowSubstitutes bool // informational, not consumed by the engine
}

// LookupKey returns the key used against price and deal tables.
func (l ListLine) LookupKey() string {
	if l.ProductID != "" {
		return l.ProductID
	}
	return l.FreeTextName
}

// RegularPrice is the most recent regular price observation for a
// (store, product) pair. Callers pre-resolve "latest observation";
// at most one feeds the engine per pair.
type RegularPrice struct {
	ProductID   string
	ProductName string
	StoreID     string
	PriceKr     float64
	ObservedAt  time.Time
	Source      string
}

// Deal is a promotional price override for one store and product.
type Deal struct {
	ID                string
	StoreID           string
	ProductID         string // empty when matched by name only
	Name              string
	DealPriceKr       float64
	MultiBuy          MultiBuyKind
	MultiBuyX         int     // 0 when unset
	MultiBuyY         float64 // 0 when unset; bundle price for X_FOR_Y, free-unit count for BUY_X_GET_Y
	Conditions        string
	MemberOnly        bool
	LimitPerHousehold int // 0 means no limit
	ValidFrom         *time.Time
	ValidTo           *time.Time
}

// CarProfile prices travel. Consumption is per 100 km in the unit
// family named by EnergyUnit (litres or kWh); EnergyPriceKr is the
// price per consumption unit.
type CarProfile struct {
	FuelType            string
	ConsumptionPer100Km float64
	EnergyUnit          string
	EnergyPriceKr       float64
}

// LineExplanation is the resolver output for one line at one store.
// It is both the internal computation artifact and the user-facing
// explanation of how a line was priced.
type LineExplanation struct {
	ItemName       string
	ProductID      string
	Quantity       int
	RegularPriceKr float64 // 0 when no observation exists
	ObservedAt     *time.Time
	Freshness      Freshness // empty when no observation exists
	PriceSource    string
	DealPriceKr    float64
	DealName       string
	DealConditions string
	DealMemberOnly bool
	DealApplied    bool
	EffectiveKr    float64 // per-unit, averaged over the line when a deal splits it
	EffectiveTotal float64
	PriceUsed      PriceUsed
	Missing        bool
	MissingReason  string
}

// StoreResult is the aggregated outcome of buying the whole list from
// one store. Never mutated after construction.
type StoreResult struct {
	StoreID          string
	StoreName        string
	Chain            string
	Format           string
	Address          string
	Lat              float64
	Lng              float64
	DistanceKm       float64
	GroceryCostKr    float64
	DealsSavingsKr   float64
	TravelCostKr     float64
	TravelDistanceKm float64
	TotalCostKr      float64
	CoveragePercent  float64
	ItemCount        int
	PricedItemCount  int
	MissingItemCount int
	DealsApplied     int
	Items            []LineExplanation
	MissingItems     []LineExplanation
}

// RouteOrder names the visiting order of a two-store trip.
type RouteOrder string

const (
	RouteAThenB RouteOrder = "A_THEN_B"
	RouteBThenA RouteOrder = "B_THEN_A"
)

// ItemAssignment records which store of a pair a line was assigned to.
type ItemAssignment struct {
	ItemName      string
	AssignedStore string // "A" or "B"
	PriceKr       float64
}

// TwoStoreResult is a split-basket candidate across a store pair.
type TwoStoreResult struct {
	StoreA                StoreResult
	StoreB                StoreResult
	CombinedGroceryCostKr float64
	CombinedDealsSavings  float64
	TravelDistanceKm      float64
	TravelCostKr          float64
	TotalCostKr           float64
	NetSavingsKr          float64 // versus the best single-store total
	RouteOrder            RouteOrder
	ItemAssignment        []ItemAssignment
	MissingItems          []LineExplanation
	CoveragePercent       float64
}

// PriceTable maps lookup key (product ID or free-text name) to the
// latest regular price observation at one store.
type PriceTable map[string]RegularPrice

// DealTable maps lookup key to the deal offers at one store. A deal
// may appear under both its product ID and its normalized name.
type DealTable map[string][]Deal

// Lookups carries the read-only price and deal tables for all
// candidate stores, keyed by store ID. The engine never mutates them.
type Lookups struct {
	PricesByStore map[string]PriceTable
	DealsByStore  map[string]DealTable
}

// PricesFor returns the price table for a store, possibly empty.
func (l Lookups) PricesFor(storeID string) PriceTable {
	if t, ok := l.PricesByStore[storeID]; ok {
		return t
	}
	return PriceTable{}
}

// DealsFor returns the deal table for a store, possibly empty.
func (l Lookups) DealsFor(storeID string) DealTable {
	if t, ok := l.DealsByStore[storeID]; ok {
		return t
	}
	return DealTable{}
}

// Request is the full input of a basket optimization run.
type Request struct {
	Stores           []Store
	Lines            []ListLine
	Lookups          Lookups
	Home             Coordinate
	Car              CarProfile
	ChainMemberships []string
	IncludeDeals     bool
}

// Result is the complete outcome of one optimization run. It is the
// entire contract with the presentation layer.
type Result struct {
	BestSingleStore    *StoreResult
	BestTwoStore       *TwoStoreResult
	AllSingleStores    []StoreResult
	DistanceMethod     string
	DistanceDisclaimer string
	OptimizedAt        time.Time
}

// Validate checks request preconditions the engine does not re-check.
func (r *Request) Validate(maxLines int) error {
	if len(r.Lines) > maxLines {
		return ErrInvalidRequest{Field: "lines", Reason: "exceeds maximum allowed"}
	}
	for i, line := range r.Lines {
		if line.ProductID == "" && line.FreeTextName == "" {
			return ErrInvalidRequest{Field: "lines", Reason: fmt.Sprintf("line at index %d has neither product id nor name", i), Index: i}
		}
		if line.Quantity <= 0 {
			return ErrInvalidRequest{Field: "lines", Reason: fmt.Sprintf("line at index %d has invalid quantity", i), Index: i}
		}
	}
	if r.Home.Lat < -90 || r.Home.Lat > 90 {
		return ErrInvalidRequest{Field: "home.lat", Reason: "must be between -90 and 90"}
	}
	if r.Home.Lng < -180 || r.Home.Lng > 180 {
		return ErrInvalidRequest{Field: "home.lng", Reason: "must be between -180 and 180"}
	}
	if r.Car.ConsumptionPer100Km < 0 {
		return ErrInvalidRequest{Field: "car.consumptionPer100Km", Reason: "must be non-negative"}
	}
	return nil
}

// ErrInvalidRequest is returned when an optimization request is invalid.
type ErrInvalidRequest struct {
	Field  string
	Reason string
	Index  int
}

func (e ErrInvalidRequest) Error() string {
	return e.Field + ": " + e.Reason
}
