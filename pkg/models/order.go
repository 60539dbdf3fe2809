package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable snapshot taken at checkout. Items and prices are
// frozen even if the catalog or cart changes afterwards; only Status is
// updated later, by the fulfillment side.
type Order struct {
	ID                  string          `json:"id"`
	Items               []CartItem      `json:"items"`
	DeliveryType        DeliveryType    `json:"delivery_type"`
	DeliveryAddress     string          `json:"delivery_address,omitempty"`
	ContactName         string          `json:"contact_name"`
	ContactPhone        string          `json:"contact_phone"`
	PaymentMethod       string          `json:"payment_method"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryPrice       decimal.Decimal `json:"delivery_price"`
	Total               decimal.Decimal `json:"total"`
	Status              string          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	LoyaltyPointsEarned int64           `json:"loyalty_points_earned,omitempty"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)
