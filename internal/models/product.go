package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Tags is an ordered set of tag strings persisted as a JSON column.
// Order is preserved on write but irrelevant for equality.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *Tags) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported type for tags: %T", src)
	}
}

type Product struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   *string   `db:"description" json:"description"`
	Price         float64   `db:"price" json:"price"`
	Category      *string   `db:"category" json:"category"`
	Brand         *string   `db:"brand" json:"brand"`
	SKU           *string   `db:"sku" json:"sku"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	ImageURL      *string   `db:"image_url" json:"image_url"`
	Tags          Tags      `db:"tags" json:"tags"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

type ProductCreateRequest struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Price         float64  `json:"price"`
	Category      *string  `json:"category"`
	Brand         *string  `json:"brand"`
	SKU           *string  `json:"sku"`
	StockQuantity int      `json:"stock_quantity"`
	ImageURL      *string  `json:"image_url"`
	Tags          []string `json:"tags"`
	IsActive      *bool    `json:"is_active"`
}

// ProductUpdateRequest carries only the fields present in the request body.
// Nil means "leave unchanged".
type ProductUpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Category      *string  `json:"category"`
	Brand         *string  `json:"brand"`
	SKU           *string  `json:"sku"`
	StockQuantity *int     `json:"stock_quantity"`
	ImageURL      *string  `json:"image_url"`
	Tags          []string `json:"tags"`
	IsActive      *bool    `json:"is_active"`
}

// ProductFilter captures the list/search query parameters shared by the
// public and admin product listings.
type ProductFilter struct {
	Query           string
	Category        string
	Brand           string
	MinPrice        *float64
	MaxPrice        *float64
	InStock         *bool
	IncludeInactive bool
	SortBy          string
	SortOrder       string
}

type CategoryCount struct {
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

type StockUpdateRequest struct {
	StockQuantity int `json:"stock_quantity"`
}

type BulkStatusRequest struct {
	IDs      []string `json:"ids"`
	IsActive bool     `json:"is_active"`
}
