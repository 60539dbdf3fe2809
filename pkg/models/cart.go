package models

import (
	"github.com/shopspring/decimal"
)

type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// CartItem is one line in the cart: a product snapshot plus a specific
// option selection and quantity. SelectedOptions maps option id to the
// chosen value id, one choice per option group.
type CartItem struct {
	ID              string            `json:"id"`
	Product         Product           `json:"product"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

// Cart is the view the cart ledger exposes. Subtotal, DeliveryPrice and
// Total are derived from Items and DeliveryType and are never stale.
type Cart struct {
	Items           []CartItem      `json:"items"`
	DeliveryType    DeliveryType    `json:"delivery_type"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryPrice   decimal.Decimal `json:"delivery_price"`
	Total           decimal.Decimal `json:"total"`
}
