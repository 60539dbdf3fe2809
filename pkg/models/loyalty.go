package models

import (
	"time"
)

const (
	LoyaltyTxEarned = "earned"
	LoyaltyTxSpent  = "spent"
)

// LoyaltyTransaction is an immutable ledger entry. OrderID is set on
// transactions earned by checkout.
type LoyaltyTransaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Points      int64     `json:"points"`
	Description string    `json:"description"`
	OrderID     string    `json:"order_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoyaltyRules describe how points accrue: points per currency unit and
// the minimum order value that qualifies for accrual.
type LoyaltyRules struct {
	PointsPerRub      int64 `json:"points_per_rub"`
	MinOrderForPoints int64 `json:"min_order_for_points"`
}

// LoyaltyAccount is the view the loyalty ledger exposes. Balance always
// equals the signed sum of Transactions.
type LoyaltyAccount struct {
	Balance      int64                `json:"balance"`
	Transactions []LoyaltyTransaction `json:"transactions"`
	Rules        LoyaltyRules         `json:"rules"`
}
