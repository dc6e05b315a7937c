package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/billigkorg/basket-service/internal/optimizer"
)

// LookupSource loads candidate stores and the price/deal tables the
// engine consumes. Implemented by the pricing repository.
type LookupSource interface {
	StoresNear(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]optimizer.Store, error)
	BuildLookups(ctx context.Context, storeIDs []string, lines []optimizer.ListLine, maxAgeDays int) (optimizer.Lookups, error)
}

// ListLineDTO is one shopping list line in an optimization request.
type ListLineDTO struct {
	ProductID        string `json:"productId"`
	Name             string `json:"name"`
	Quantity         int    `json:"quantity" binding:"required,min=1"`
	AllowSubstitutes bool   `json:"allowSubstitutes"`
}

// LocationDTO is a geographic location
type LocationDTO struct {
	Latitude  float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// CarDTO describes the user's car for travel cost pricing
type CarDTO struct {
	FuelType            string  `json:"fuelType"`
	ConsumptionPer100Km float64 `json:"consumptionPer100Km" binding:"min=0"`
	EnergyUnit          string  `json:"energyUnit"`
	EnergyPriceKr       float64 `json:"energyPriceKr" binding:"min=0"`
}

// OptimizeRequest represents the basket optimization request
type OptimizeRequest struct {
	Lines            []*ListLineDTO `json:"lines" binding:"required,min=1,max=100,dive"`
	Home             *LocationDTO   `json:"home" binding:"required"`
	Car              *CarDTO        `json:"car,omitempty"`
	RadiusKm         float64        `json:"radiusKm,omitempty"`
	MaxStores        int            `json:"maxStores,omitempty"`
	ChainMemberships []string       `json:"chainMemberships,omitempty"`
	IncludeDeals     *bool          `json:"includeDeals,omitempty"`
}

// LineDTO explains how one list line was priced at a store.
type LineDTO struct {
	ItemName       string   `json:"itemName"`
	ProductID      string   `json:"productId,omitempty"`
	Quantity       int      `json:"quantity"`
	RegularPriceKr float64  `json:"regularPriceKr,omitempty"`
	ObservedAt     *string  `json:"observedAt,omitempty"`
	Freshness      string   `json:"freshness,omitempty"`
	PriceSource    string   `json:"priceSource,omitempty"`
	DealName       string   `json:"dealName,omitempty"`
	DealConditions string   `json:"dealConditions,omitempty"`
	DealMemberOnly bool     `json:"dealMemberOnly,omitempty"`
	DealApplied    bool     `json:"dealApplied,omitempty"`
	EffectiveKr    float64  `json:"effectiveKr,omitempty"`
	EffectiveTotal float64  `json:"effectiveTotal,omitempty"`
	PriceUsed      string   `json:"priceUsed"`
	MissingReason  string   `json:"missingReason,omitempty"`
}

// StoreResultDTO is the aggregated result for one store.
type StoreResultDTO struct {
	StoreID          string    `json:"storeId"`
	StoreName        string    `json:"storeName"`
	Chain            string    `json:"chain"`
	Format           string    `json:"format,omitempty"`
	Address          string    `json:"address,omitempty"`
	DistanceKm       float64   `json:"distanceKm"`
	GroceryCostKr    float64   `json:"groceryCostKr"`
	DealsSavingsKr   float64   `json:"dealsSavingsKr"`
	TravelCostKr     float64   `json:"travelCostKr"`
	TravelDistanceKm float64   `json:"travelDistanceKm"`
	TotalCostKr      float64   `json:"totalCostKr"`
	CoveragePercent  float64   `json:"coveragePercent"`
	DealsApplied     int       `json:"dealsApplied"`
	Items            []LineDTO `json:"items,omitempty"`
	MissingItems     []LineDTO `json:"missingItems,omitempty"`
}

// AssignmentDTO records which store of a pair a line goes to.
type AssignmentDTO struct {
	ItemName      string  `json:"itemName"`
	AssignedStore string  `json:"assignedStore"`
	PriceKr       float64 `json:"priceKr"`
}

// TwoStoreResultDTO is a split-basket result across two stores.
type TwoStoreResultDTO struct {
	StoreA                StoreResultDTO  `json:"storeA"`
	StoreB                StoreResultDTO  `json:"storeB"`
	CombinedGroceryCostKr float64         `json:"combinedGroceryCostKr"`
	CombinedDealsSavings  float64         `json:"combinedDealsSavingsKr"`
	TravelDistanceKm      float64         `json:"travelDistanceKm"`
	TravelCostKr          float64         `json:"travelCostKr"`
	TotalCostKr           float64         `json:"totalCostKr"`
	NetSavingsKr          float64         `json:"netSavingsKr"`
	RouteOrder            string          `json:"routeOrder"`
	ItemAssignment        []AssignmentDTO `json:"itemAssignment"`
	MissingItems          []LineDTO       `json:"missingItems,omitempty"`
	CoveragePercent       float64         `json:"coveragePercent"`
}

// OptimizeResponse is the basket optimization response
type OptimizeResponse struct {
	BestSingleStore    *StoreResultDTO    `json:"bestSingleStore,omitempty"`
	BestTwoStore       *TwoStoreResultDTO `json:"bestTwoStore,omitempty"`
	AllSingleStores    []StoreResultDTO   `json:"allSingleStores"`
	DistanceMethod     string             `json:"distanceMethod"`
	DistanceDisclaimer string             `json:"distanceDisclaimer"`
	OptimizedAt        string             `json:"optimizedAt"`
}

// OptimizeHandler serves basket optimization requests.
type OptimizeHandler struct {
	engine *optimizer.Engine
	source LookupSource
	config *optimizer.Config
}

// NewOptimizeHandler creates the optimize handler.
func NewOptimizeHandler(engine *optimizer.Engine, source LookupSource, config *optimizer.Config) *OptimizeHandler {
	if config == nil {
		config = optimizer.Defaults()
	}
	return &OptimizeHandler{engine: engine, source: source, config: config}
}

// Optimize handles basket optimization
// @Summary Optimize a shopping basket
// @Description Finds the cheapest single store and, when worthwhile, a two store split for a shopping list.
// @Tags basket
// @Accept json
// @Produce json
// @Param request body OptimizeRequest true "Shopping list and location"
// @Success 200 {object} OptimizeResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/basket/optimize [post]
func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = 10
	}
	maxStores := req.MaxStores
	if maxStores <= 0 {
		maxStores = 50
	}
	includeDeals := true
	if req.IncludeDeals != nil {
		includeDeals = *req.IncludeDeals
	}

	lines := make([]optimizer.ListLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = optimizer.ListLine{
			ProductID:        line.ProductID,
			FreeTextName:     line.Name,
			Quantity:         line.Quantity,
			AllowSubstitutes: line.AllowSubstitutes,
		}
	}

	ctx := c.Request.Context()
	stores, err := h.source.StoresNear(ctx, req.Home.Latitude, req.Home.Longitude, radiusKm, maxStores)
	if err != nil {
		log.Error().Err(err).Msg("failed to load candidate stores")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stores"})
		return
	}

	storeIDs := make([]string, len(stores))
	for i, s := range stores {
		storeIDs[i] = s.ID
	}

	lookups, err := h.source.BuildLookups(ctx, storeIDs, lines, h.config.MaxPriceAgeDays)
	if err != nil {
		log.Error().Err(err).Msg("failed to build lookups")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load prices"})
		return
	}

	optimizeReq := &optimizer.Request{
		Stores:           stores,
		Lines:            lines,
		Lookups:          lookups,
		Home:             optimizer.Coordinate{Lat: req.Home.Latitude, Lng: req.Home.Longitude},
		ChainMemberships: req.ChainMemberships,
		IncludeDeals:     includeDeals,
	}
	if req.Car != nil {
		optimizeReq.Car = optimizer.CarProfile{
			FuelType:            req.Car.FuelType,
			ConsumptionPer100Km: req.Car.ConsumptionPer100Km,
			EnergyUnit:          req.Car.EnergyUnit,
			EnergyPriceKr:       req.Car.EnergyPriceKr,
		}
	}

	result, err := h.engine.Optimize(ctx, optimizeReq)
	if err != nil {
		var invalid optimizer.ErrInvalidRequest
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		log.Error().Err(err).Msg("optimization failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "optimization failed"})
		return
	}

	c.JSON(http.StatusOK, toOptimizeResponse(result))
}

func toOptimizeResponse(result *optimizer.Result) OptimizeResponse {
	resp := OptimizeResponse{
		AllSingleStores:    make([]StoreResultDTO, len(result.AllSingleStores)),
		DistanceMethod:     result.DistanceMethod,
		DistanceDisclaimer: result.DistanceDisclaimer,
		OptimizedAt:        result.OptimizedAt.Format(time.RFC3339),
	}
	for i, sr := range result.AllSingleStores {
		resp.AllSingleStores[i] = toStoreResultDTO(sr)
	}
	if result.BestSingleStore != nil {
		best := toStoreResultDTO(*result.BestSingleStore)
		resp.BestSingleStore = &best
	}
	if result.BestTwoStore != nil {
		pair := result.BestTwoStore
		dto := TwoStoreResultDTO{
			StoreA:                toStoreResultDTO(pair.StoreA),
			StoreB:                toStoreResultDTO(pair.StoreB),
			CombinedGroceryCostKr: pair.CombinedGroceryCostKr,
			CombinedDealsSavings:  pair.CombinedDealsSavings,
			TravelDistanceKm:      pair.TravelDistanceKm,
			TravelCostKr:          pair.TravelCostKr,
			TotalCostKr:           pair.TotalCostKr,
			NetSavingsKr:          pair.NetSavingsKr,
			RouteOrder:            string(pair.RouteOrder),
			ItemAssignment:        make([]AssignmentDTO, len(pair.ItemAssignment)),
			MissingItems:          toLineDTOs(pair.MissingItems),
			CoveragePercent:       pair.CoveragePercent,
		}
		for i, a := range pair.ItemAssignment {
			dto.ItemAssignment[i] = AssignmentDTO{
				ItemName:      a.ItemName,
				AssignedStore: a.AssignedStore,
				PriceKr:       a.PriceKr,
			}
		}
		resp.BestTwoStore = &dto
	}
	return resp
}

func toStoreResultDTO(sr optimizer.StoreResult) StoreResultDTO {
	return StoreResultDTO{
		StoreID:          sr.StoreID,
		StoreName:        sr.StoreName,
		Chain:            sr.Chain,
		Format:           sr.Format,
		Address:          sr.Address,
		DistanceKm:       sr.DistanceKm,
		GroceryCostKr:    sr.GroceryCostKr,
		DealsSavingsKr:   sr.DealsSavingsKr,
		TravelCostKr:     sr.TravelCostKr,
		TravelDistanceKm: sr.TravelDistanceKm,
		TotalCostKr:      sr.TotalCostKr,
		CoveragePercent:  sr.CoveragePercent,
		DealsApplied:     sr.DealsApplied,
		Items:            toLineDTOs(sr.Items),
		MissingItems:     toLineDTOs(sr.MissingItems),
	}
}

func toLineDTOs(lines []optimizer.LineExplanation) []LineDTO {
	if len(lines) == 0 {
		return nil
	}
	dtos := make([]LineDTO, len(lines))
	for i, line := range lines {
		dto := LineDTO{
			ItemName:       line.ItemName,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			RegularPriceKr: line.RegularPriceKr,
			Freshness:      string(line.Freshness),
			PriceSource:    line.PriceSource,
			DealName:       line.DealName,
			DealConditions: line.DealConditions,
			DealMemberOnly: line.DealMemberOnly,
			DealApplied:    line.DealApplied,
			EffectiveKr:    line.EffectiveKr,
			EffectiveTotal: line.EffectiveTotal,
			PriceUsed:      string(line.PriceUsed),
			MissingReason:  line.MissingReason,
		}
		if line.ObservedAt != nil {
			observed := line.ObservedAt.Format(time.RFC3339)
			dto.ObservedAt = &observed
		}
		dtos[i] = dto
	}
	return dtos
}
