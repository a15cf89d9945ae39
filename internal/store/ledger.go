package store

import (
	"context"
	"fmt"
	"time"

	"budgetin/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OpeningBalanceDescription labels the transaction recorded for a non-zero
// initial wallet balance.
const OpeningBalanceDescription = "Opening balance"

// Ledger owns wallets and their transactions.
//
// wallets.balance is maintained alongside every transaction write in the same
// database transaction, so balance == sum(income) - sum(expense) always holds.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a ledger store.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ListWallets returns every wallet owned by userID.
func (l *Ledger) ListWallets(ctx context.Context, userID uint) ([]domain.Wallet, error) {
	wallets := []domain.Wallet{}
	if err := l.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&wallets).Error; err != nil {
		return nil, err
	}
	return wallets, nil
}

// GetWallet returns one wallet owned by userID.
func (l *Ledger) GetWallet(ctx context.Context, userID, walletID uint) (*domain.Wallet, error) {
	return findWallet(l.db.WithContext(ctx), userID, walletID)
}

func findWallet(db *gorm.DB, userID, walletID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := db.Where("id = ? AND user_id = ?", walletID, userID).First(&w).Error; err != nil {
		return nil, notFound(err, domain.ErrWalletNotFound)
	}
	return &w, nil
}

// CreateWallet inserts w. A non-zero w.Balance is recorded as an opening
// transaction so the balance stays derivable from the ledger.
func (l *Ledger) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	if w.DisplayPreference == "" {
		w.DisplayPreference = domain.DefaultDisplayPreference
	}
	opening := w.Balance
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(w).Error; err != nil { // Wallet row first, the opening entry needs its ID
			return err
		}
		if opening.IsZero() {
			return nil
		}
		t := domain.Transaction{
			WalletID:        w.ID,
			Description:     OpeningBalanceDescription,
			Amount:          opening.Abs(),
			Type:            domain.Income,
			TransactionDate: time.Now().UTC(),
		}
		if opening.IsNegative() {
			t.Type = domain.Expense
		}
		return tx.Create(&t).Error
	})
}

// UpdateWallet changes the descriptive fields of a wallet. The balance is
// never written here.
func (l *Ledger) UpdateWallet(ctx context.Context, userID, walletID uint, upd domain.WalletUpdate) (*domain.Wallet, error) {
	var out *domain.Wallet
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := findWallet(tx, userID, walletID)
		if err != nil {
			return err
		}
		changes := map[string]any{
			"name":     upd.Name,
			"category": upd.Category,
			"location": upd.Location,
		}
		if upd.DisplayPreference != "" {
			changes["display_preference"] = upd.DisplayPreference
		}
		if err := tx.Model(w).Updates(changes).Error; err != nil {
			return err
		}
		out, err = findWallet(tx, userID, walletID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteWallet removes a wallet and all of its transactions atomically.
func (l *Ledger) DeleteWallet(ctx context.Context, userID, walletID uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := findWallet(tx, userID, walletID)
		if err != nil {
			return err
		}
		if err := tx.Where("wallet_id = ?", w.ID).Delete(&domain.Transaction{}).Error; err != nil { // Entries go with the wallet
			return err
		}
		return tx.Delete(w).Error
	})
}

// ListTransactions returns a wallet's transactions, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, userID, walletID uint, f domain.TransactionFilter) ([]domain.Transaction, error) {
	db := l.db.WithContext(ctx)
	if _, err := findWallet(db, userID, walletID); err != nil {
		return nil, err
	}
	query := db.Where("wallet_id = ?", walletID)
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.From != nil {
		query = query.Where("transaction_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		query = query.Where("transaction_date <= ?", f.To.UTC())
	}
	txs := []domain.Transaction{}
	if err := query.Order("transaction_date desc").Order("id desc").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateTransaction records t against one of userID's wallets and applies
// its effect to the wallet balance in the same database transaction.
func (l *Ledger) CreateTransaction(ctx context.Context, userID uint, t *domain.Transaction) error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense", domain.ErrValidation)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now()
	}
	t.TransactionDate = t.TransactionDate.UTC()
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findWallet(tx, userID, t.WalletID); err != nil {
			return err
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return applyDelta(tx, t.WalletID, t.Delta())
	})
}

// DeleteTransaction removes a transaction and reverses its balance effect.
// It returns the id of the wallet the transaction belonged to.
func (l *Ledger) DeleteTransaction(ctx context.Context, userID, transactionID uint) (uint, error) {
	var t domain.Transaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&domain.Wallet{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("id = ? AND wallet_id IN (?)", transactionID, owned).First(&t).Error; err != nil { // Scoped to the caller's wallets
			return notFound(err, domain.ErrTransactionNotFound)
		}
		if err := tx.Delete(&t).Error; err != nil {
			return err
		}
		return applyDelta(tx, t.WalletID, t.Delta().Neg())
	})
	if err != nil {
		return 0, err
	}
	return t.WalletID, nil
}

// Summary aggregates a wallet's income and expense next to its stored balance.
func (l *Ledger) Summary(ctx context.Context, userID, walletID uint) (*domain.WalletSummary, error) {
	db := l.db.WithContext(ctx)
	w, err := findWallet(db, userID, walletID)
	if err != nil {
		return nil, err
	}
	var sums struct {
		Income  decimal.Decimal
		Expense decimal.Decimal
	}
	if err := db.Model(&domain.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expense", domain.Income, domain.Expense).
		Where("wallet_id = ?", walletID).
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	return &domain.WalletSummary{
		WalletID: w.ID,
		Income:   sums.Income,
		Expense:  sums.Expense,
		Balance:  w.Balance,
	}, nil
}

// applyDelta adjusts the stored balance with a single atomic UPDATE.
func applyDelta(tx *gorm.DB, walletID uint, delta decimal.Decimal) error {
	res := tx.Model(&domain.Wallet{}).Where("id = ?", walletID).
		Update("balance", gorm.Expr("balance + ?", delta)) // Adjust in SQL, never read-modify-write
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}
