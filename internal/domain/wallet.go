package domain

import (
	"time"

	"github.com/shopspring/decimal" // Fixed-point money
)

// DisplayPreference controls how a wallet is summarised by clients
type DisplayPreference string

// Supported display preferences
const (
	DisplayDaily   DisplayPreference = "daily"
	DisplayWeekly  DisplayPreference = "weekly"
	DisplayMonthly DisplayPreference = "monthly"
	DisplayYearly  DisplayPreference = "yearly"
)

// DefaultDisplayPreference is applied when a wallet is created without one
const DefaultDisplayPreference = DisplayMonthly

// Wallet Model
type Wallet struct {
	ID                uint              `gorm:"primaryKey" json:"id"`                                      // Primary key
	UserID            uint              `gorm:"not null;index" json:"user_id"`                             // Foreign key to User
	Name              string            `gorm:"size:255;not null" json:"walletName"`                       // Wallet name
	Category          string            `gorm:"size:255;not null" json:"category"`                         // Free-form category
	Location          string            `gorm:"size:255;not null" json:"location"`                         // Location or context label
	Balance           decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`      // income minus expense
	DisplayPreference DisplayPreference `gorm:"size:16;not null;default:monthly" json:"displayPreference"` // Summary period
	Transactions      []Transaction     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`    // One-to-many relationship with Transaction
	CreatedAt         time.Time         `json:"created_at"`                                                // Record creation time
	UpdatedAt         time.Time         `json:"updated_at"`                                                // Last update time
}

// WalletUpdate holds the owner-editable wallet fields
type WalletUpdate struct {
	Name              string
	Category          string
	Location          string
	DisplayPreference DisplayPreference // Empty keeps the stored value
}

// WalletSummary is the aggregated view of a wallet's transactions
type WalletSummary struct {
	WalletID uint            `json:"wallet_id"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Balance  decimal.Decimal `json:"balance"`
}
