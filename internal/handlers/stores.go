package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/billigkorg/basket-service/internal/chains"
	"github.com/billigkorg/basket-service/internal/database"
)

// StoreCatalog is the slice of the pricing repository the store and
// product endpoints need.
type StoreCatalog interface {
	ListStores(ctx context.Context, chainSlug string) ([]database.Store, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]database.Product, error)
}

// StoreDTO is one store in the store listing.
type StoreDTO struct {
	ID         string  `json:"id"`
	Chain      string  `json:"chain"`
	ChainLabel string  `json:"chainLabel"`
	Name       string  `json:"name"`
	Format     string  `json:"format,omitempty"`
	Address    string  `json:"address,omitempty"`
	City       string  `json:"city,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// ProductDTO is one catalog product in search results.
type ProductDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Barcode  string `json:"barcode,omitempty"`
}

// StoresHandler serves store and product catalog endpoints.
type StoresHandler struct {
	catalog StoreCatalog
}

// NewStoresHandler creates the store catalog handler.
func NewStoresHandler(catalog StoreCatalog) *StoresHandler {
	return &StoresHandler{catalog: catalog}
}

// ListStores handles store listing
// @Summary List stores
// @Description Lists stores, optionally filtered by chain slug.
// @Tags stores
// @Produce json
// @Param chain query string false "Chain slug filter"
// @Success 200 {object} map[string][]StoreDTO
// @Failure 400 {object} map[string]string
// @Router /api/v1/stores [get]
func (h *StoresHandler) ListStores(c *gin.Context) {
	chainSlug := c.Query("chain")
	if chainSlug != "" && !chains.IsValidChain(chainSlug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown chain: " + chainSlug})
		return
	}

	stores, err := h.catalog.ListStores(c.Request.Context(), chainSlug)
	if err != nil {
		log.Error().Err(err).Msg("failed to list stores")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list stores"})
		return
	}

	dtos := make([]StoreDTO, len(stores))
	for i, s := range stores {
		dto := StoreDTO{
			ID:         s.ID,
			Chain:      s.ChainSlug,
			ChainLabel: chains.Label(s.ChainSlug),
			Name:       s.Name,
			Latitude:   s.Latitude,
			Longitude:  s.Longitude,
		}
		if s.Format != nil {
			dto.Format = *s.Format
		}
		if s.Address != nil {
			dto.Address = *s.Address
		}
		if s.City != nil {
			dto.City = *s.City
		}
		dtos[i] = dto
	}

	c.JSON(http.StatusOK, gin.H{"stores": dtos})
}

// SearchProducts handles product search
// @Summary Search products
// @Description Searches catalog products by normalized name.
// @Tags products
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum results" default(20)
// @Success 200 {object} map[string][]ProductDTO
// @Failure 400 {object} map[string]string
// @Router /api/v1/products/search [get]
func (h *StoresHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	products, err := h.catalog.SearchProducts(c.Request.Context(), query, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to search products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search products"})
		return
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dto := ProductDTO{ID: p.ID, Name: p.Name}
		if p.Brand != nil {
			dto.Brand = *p.Brand
		}
		if p.Category != nil {
			dto.Category = *p.Category
		}
		if p.Unit != nil {
			dto.Unit = *p.Unit
		}
		if p.Barcode != nil {
			dto.Barcode = *p.Barcode
		}
		dtos[i] = dto
	}

	c.JSON(http.StatusOK, gin.H{"products": dtos})
}

// ListChains handles chain listing
// @Summary List supported chains
// @Tags stores
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/chains [get]
func ListChains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": chains.ValidChains()})
}
