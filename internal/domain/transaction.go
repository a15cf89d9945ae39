package domain

import (
	"time"

	"github.com/shopspring/decimal" // Fixed-point money
)

// TransactionType is either income or expense
type TransactionType string

// Transaction types
const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the two enumerated types
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction Model
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`                                                                 // Primary key
	WalletID        uint            `gorm:"not null;index" json:"wallet_id"`                                                      // Foreign key to Wallet
	Description     string          `gorm:"size:255;not null" json:"description"`                                                 // What the money was for
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`                                            // Always a positive magnitude
	Type            TransactionType `gorm:"size:7;not null;check:chk_transactions_type,type IN ('income','expense')" json:"type"` // income or expense
	TransactionDate time.Time       `gorm:"not null;index" json:"transactionDate"`                                                // When it happened
	CreatedAt       time.Time       `json:"created_at"`                                                                           // Record creation time
	UpdatedAt       time.Time       `json:"updated_at"`                                                                           // Last update time
}

// Delta returns the signed effect of the transaction on its wallet balance
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionFilter narrows a wallet's transaction list
type TransactionFilter struct {
	Type TransactionType // Empty means any
	From *time.Time      // Inclusive lower bound on TransactionDate
	To   *time.Time      // Inclusive upper bound on TransactionDate
}

// IsZero reports whether no filter is set
func (f TransactionFilter) IsZero() bool {
	return f.Type == "" && f.From == nil && f.To == nil
}
