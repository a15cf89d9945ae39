package store

import (
	"context"
	"testing"
	"time"

	"budgetin/internal/domain"
	"budgetin/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLedger(t *testing.T) (*Ledger, *gorm.DB, *domain.User, *domain.User) {
	t.Helper()
	gdb := testutil.NewDB(t)
	alice := testutil.CreateUser(t, gdb, "alice", "alice@x.io")
	bob := testutil.CreateUser(t, gdb, "bob", "bob@x.io")
	return NewLedger(gdb), gdb, alice, bob
}

func newWallet(t *testing.T, l *Ledger, owner uint, name string) *domain.Wallet {
	t.Helper()
	w := &domain.Wallet{UserID: owner, Name: name, Category: "daily", Location: "home"}
	require.NoError(t, l.CreateWallet(context.Background(), w))
	return w
}

func record(t *testing.T, l *Ledger, owner, walletID uint, typ domain.TransactionType, amount int64, date time.Time) *domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		WalletID:        walletID,
		Description:     string(typ),
		Amount:          decimal.NewFromInt(amount),
		Type:            typ,
		TransactionDate: date,
	}
	require.NoError(t, l.CreateTransaction(context.Background(), owner, tx))
	return tx
}

func TestCreateWalletDefaults(t *testing.T) {
	l, _, alice, _ := newLedger(t)
	w := newWallet(t, l, alice.ID, "Cash")
	assert.NotZero(t, w.ID)
	assert.Equal(t, domain.DisplayMonthly, w.DisplayPreference)

	got, err := l.GetWallet(context.Background(), alice.ID, w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
	assert.Equal(t, "Cash", got.Name)
}

func TestBalanceFollowsTransactions(t *testing.T) {
	ctx := context.Background()
	l, _, alice, _ := newLedger(t)
	w := newWallet(t, l, alice.ID, "Main")
	now := time.Now()

	record(t, l, alice.ID, w.ID, domain.Income, 100, now)
	record(t, l, alice.ID, w.ID, domain.Expense, 30, now)
	record(t, l, alice.ID, w.ID, domain.Income, 5, now)

	got, err := l.GetWallet(ctx, alice.ID, w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(75)), "balance %s", got.Balance)

	sum, err := l.Summary(ctx, alice.ID, w.ID)
	require.NoError(t, err)
	assert.True(t, sum.Income.Equal(decimal.NewFromInt(105)), "income %s", sum.Income)
	assert.True(t, sum.Expense.Equal(decimal.NewFromInt(30)), "expense %s", sum.Expense)
	assert.True(t, sum.Balance.Equal(sum.Income.Sub(sum.Expense)))
}

func TestOpeningBalanceIsRecorded(t *testing.T) {
	ctx := context.Background()
	l, _, alice, _ := newLedger(t)
	w := &domain.Wallet{UserID: alice.ID, Name: "Savings", Category: "bank", Location: "online", Balance: decimal.NewFromInt(250)}
	require.NoError(t, l.CreateWallet(ctx, w))

	txs, err := l.ListTransactions(ctx, alice.ID, w.ID, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, OpeningBalanceDescription, txs[0].Description)
	assert.Equal(t, domain.Income, txs[0].Type)

	sum, err := l.Summary(ctx, alice.ID, w.ID)
	require.NoError(t, err)
	assert.True(t, sum.Balance.Equal(decimal.NewFromInt(250)))
	assert.True(t, sum.Balance.Equal(sum.Income.Sub(sum.Expense)))
}

func TestNegativeOpeningBalanceIsAnExpense(t *testing.T) {
	ctx := context.Background()
	l, _, alice, _ := newLedger(t)
	w := &domain.Wallet{UserID: alice.ID, Name: "Card", Category: "credit", Location: "bank", Balance: decimal.NewFromInt(-40)}
	require.NoError(t, l.CreateWallet(ctx, w))

	txs, err := l.ListTransactions(ctx, alice.ID, w.ID, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.Expense, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(40)))
}

func TestWalletsAreIsolatedPerOwner(t *testing.T) {
	ctx := context.Background()
	l, _, alice, bob := newLedger(t)
	w := newWallet(t, l, alice.ID, "Alice only")

	bobs, err := l.ListWallets(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = l.GetWallet(ctx, bob.ID, w.ID)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	_, err = l.UpdateWallet(ctx, bob.ID, w.ID, domain.WalletUpdate{Name: "stolen"})
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	assert.ErrorIs(t, l.DeleteWallet(ctx, bob.ID, w.ID), domain.ErrWalletNotFound)
	_, err = l.ListTransactions(ctx, bob.ID, w.ID, domain.TransactionFilter{})
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	_, err = l.Summary(ctx, bob.ID, w.ID)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	err = l.CreateTransaction(ctx, bob.ID, &domain.Transaction{WalletID: w.ID, Description: "x", Amount: decimal.NewFromInt(1), Type: domain.Income})
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	tx := record(t, l, alice.ID, w.ID, domain.Income, 10, time.Now())
	_, err = l.DeleteTransaction(ctx, bob.ID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	alices, err := l.ListWallets(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "Alice only", alices[0].Name)
}

func TestUpdateWalletKeepsBalance(t *testing.T) {
	ctx := context.Background()
	l, _, alice, _ := newLedger(t)
	w := newWallet(t, l, alice.ID, "Old")
	record(t, l, alice.ID, w.ID, domain.Income, 20, time.Now())

	got, err := l.UpdateWallet(ctx, alice.ID, w.ID, domain.WalletUpdate{Name: "New", Category: "travel", Location: "abroad"})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "travel", got.Category)
	assert.Equal(t, domain.DisplayMonthly, got.DisplayPreference)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(20)))

	got, err = l.UpdateWallet(ctx, alice.ID, w.ID, domain.WalletUpdate{Name: "New", Category: "travel", Location: "abroad", DisplayPreference: domain.DisplayWeekly})
	require.NoError(t, err)
	assert.Equal(t, domain.DisplayWeekly, got.DisplayPreference)
}

func TestDeleteWalletCascades(t *testing.T) {
	ctx := context.Background()
	l, gdb, alice, _ := newLedger(t)
	w := newWallet(t, l, alice.ID, "Doomed")
	keep := newWallet(t, l, alice.ID, "Kept")
	record(t, l, alice.ID, w.ID, domain.Income, 10, time.Now())
	record(t, l, alice.ID, w.ID, domain.Expense, 3, time.Now())
	record(t, l, alice.ID, keep.ID, domain.Income, 1, time.Now())

	require.NoError(t, l.DeleteWallet(ctx, alice.ID, w.ID))

	var orphans int64
	require.NoError(t, gdb.Model(&domain.Transaction{}).Where("wallet_id = ?", w.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
	_, err := l.GetWallet(ctx, alice.ID, w.ID)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	txs, err := l.ListTransactions(ctx, alice.ID, keep.ID, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestCreateTransactionRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	l, gdb, alice, _ := newLedger(t)
	w := newWallet(t, l, alice.ID, "Main")

	err := l.CreateTransaction(ctx, alice.ID, &domain.Transaction{WalletID: w.ID, Description: "x", Amount: decimal.NewFromInt(5), Type: "transfer"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	err = l.CreateTransaction(ctx, alice.ID, &domain.Transaction{WalletID: w.ID, Description: "x", Amount: decimal.Zero, Type: domain.Income})
	assert.ErrorIs(t, err, domain.ErrValidation)

	var count int64
	require.NoError(t, gdb.Model(&domain.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
	got, err := l.GetWallet(ctx, alice.ID, w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestCreateTransactionUnknownWallet(t *testing.T) {
	l, _, alice, _ := newLedger(t)
	err := l.CreateTransaction(context.Background(), alice.ID, &domain.Transaction{WalletID: 999, Description: "x", Amount: decimal.NewFromInt(1), Type: domain.Income})
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestDeleteTransactionRevertsBalance(t *testing.T) {
	ctx := context.Background()
	l, _, alice, _ := newLedger(t)
	w := newWallet(t, l, alice.ID, "Main")
	record(t, l, alice.ID, w.ID, domain.Income, 100, time.Now())
	spent := record(t, l, alice.ID, w.ID, domain.Expense, 30, time.Now())

	walletID, err := l.DeleteTransaction(ctx, alice.ID, spent.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, walletID)
	got, err := l.GetWallet(ctx, alice.ID, w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)), "balance %s", got.Balance)

	_, err = l.DeleteTransaction(ctx, alice.ID, spent.ID)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestListTransactionsFilters(t *testing.T) {
	ctx := context.Background()
	l, _, alice, _ := newLedger(t)
	w := newWallet(t, l, alice.ID, "Main")
	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	record(t, l, alice.ID, w.ID, domain.Income, 1, jan)
	record(t, l, alice.ID, w.ID, domain.Expense, 2, feb)
	record(t, l, alice.ID, w.ID, domain.Income, 3, mar)

	all, err := l.ListTransactions(ctx, alice.ID, w.ID, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Amount.Equal(decimal.NewFromInt(3)), "newest first")

	incomes, err := l.ListTransactions(ctx, alice.ID, w.ID, domain.TransactionFilter{Type: domain.Income})
	require.NoError(t, err)
	assert.Len(t, incomes, 2)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	ranged, err := l.ListTransactions(ctx, alice.ID, w.ID, domain.TransactionFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, domain.Expense, ranged[0].Type)
}
