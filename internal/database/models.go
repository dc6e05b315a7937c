package database

import (
	"time"
)

// Chain represents a retail chain (ICA, Coop, Willys, etc.)
type Chain struct {
	Slug      string    `json:"slug"` // ica, coop, willys, etc.
	Name      string    `json:"name"` // Human-readable name
	Website   *string   `json:"website"`
	LogoURL   *string   `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Store represents a physical store location
type Store struct {
	ID         string    `json:"id"`         // UUID
	ChainSlug  string    `json:"chain_slug"` // FK to chains.slug
	Name       string    `json:"name"`
	Format     *string   `json:"format"` // 'supermarket', 'hypermarket', 'convenience'
	Address    *string   `json:"address"`
	City       *string   `json:"city"`
	PostalCode *string   `json:"postal_code"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Status     string    `json:"status"` // 'active' | 'pending'
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Product represents a catalog product shared across chains
type Product struct {
	ID            string    `json:"id"` // UUID
	Name          string    `json:"name"`
	NormalizedKey string    `json:"normalized_key"` // lowercased, diacritics folded
	Brand         *string   `json:"brand"`
	Category      *string   `json:"category"`
	Unit          *string   `json:"unit"` // kg, l, st, etc.
	Barcode       *string   `json:"barcode"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PriceObservation is one observed regular price for a product at a
// store. Observations accumulate; the newest one per (store, product)
// is the effective regular price.
type PriceObservation struct {
	ID         string    `json:"id"`         // UUID
	StoreID    string    `json:"store_id"`   // FK to stores.id
	ProductID  string    `json:"product_id"` // FK to products.id
	PriceKr    float64   `json:"price_kr"`
	Source     string    `json:"source"` // 'receipt', 'flyer', 'manual', 'import'
	ObservedAt time.Time `json:"observed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// DealOffer is an approved promotional offer at a store
type DealOffer struct {
	ID                string     `json:"id"`       // UUID
	StoreID           string     `json:"store_id"` // FK to stores.id
	ProductID         *string    `json:"product_id"`
	Name              string     `json:"name"`
	NormalizedKey     string     `json:"normalized_key"`
	DealPriceKr       float64    `json:"deal_price_kr"`
	MultiBuyType      string     `json:"multi_buy_type"` // 'NONE', 'X_FOR_Y', 'BUY_X_GET_Y', 'PERCENT_OFF'
	MultiBuyX         *int       `json:"multi_buy_x"`
	MultiBuyY         *float64   `json:"multi_buy_y"`
	Conditions        *string    `json:"conditions"`
	MemberOnly        bool       `json:"member_only"`
	LimitPerHousehold *int       `json:"limit_per_household"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidTo           *time.Time `json:"valid_to"`
	Status            string     `json:"status"` // 'approved' | 'pending' | 'rejected'
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
