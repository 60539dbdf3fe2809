package models

import (
	"github.com/shopspring/decimal"
)

// Category groups products on the storefront menu.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// Product is a catalog entry. Catalog data is read-only reference data
// loaded once at startup; nothing in the storefront mutates it.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Images      []string        `json:"images,omitempty"`
	CategoryID  string          `json:"category_id"`
	Available   bool            `json:"available"`
	Options     []ProductOption `json:"options,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
}

// ProductOption is a named choice group on a product, e.g. a drink size.
type ProductOption struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Required bool          `json:"required"`
	Values   []OptionValue `json:"values"`
}

// OptionValue is one selectable value of an option group. Price is a
// delta added to the product base price and may be zero.
type OptionValue struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

const (
	OptionTypeSize   = "size"
	OptionTypeAddon  = "addon"
	OptionTypeCustom = "custom"
)
