package api

import (
	"net/http" // HTTP status codes
	"time"     // Time parsing

	"budgetin/internal/cache"  // Redis cache
	"budgetin/internal/domain" // Importing domain models
	"budgetin/internal/store"  // Ledger store

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Fixed-point money
	"github.com/sirupsen/logrus"    // Logging library
)

// TransactionRequest is the body of POST /transactions
type TransactionRequest struct {
	WalletID        uint                   `json:"wallet_id" binding:"required"`                    // Target wallet
	Description     string                 `json:"description" binding:"required,notblank,max=255"` // What the money was for
	Amount          *decimal.Decimal       `json:"amount" binding:"required,gt=0"`                  // Positive magnitude
	Type            domain.TransactionType `json:"type" binding:"required,oneof=income expense"`    // income or expense
	TransactionDate string                 `json:"transactionDate"`                                 // RFC3339 or YYYY-MM-DD, now when omitted
}

// ListTransactionsHandler returns a wallet's transactions, optionally filtered by type or date
func ListTransactionsHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		walletID, ok := pathID(c)
		if !ok {
			respondError(c, domain.ErrWalletNotFound)
			return
		}
		var filter domain.TransactionFilter
		if txType := c.Query("type"); txType != "" {
			filter.Type = domain.TransactionType(txType)
			if !filter.Type.Valid() {
				respondFieldError(c, "type", "oneof")
				return
			}
		}
		if from := c.Query("from"); from != "" {
			t, ok := parseDate(from, false) // Filter by start date
			if !ok {
				respondFieldError(c, "from", "date")
				return
			}
			filter.From = &t
		}
		if to := c.Query("to"); to != "" {
			t, ok := parseDate(to, true)
			if !ok {
				respondFieldError(c, "to", "date")
				return
			}
			filter.To = &t
		}

		ctx := c.Request.Context()
		cacheKey := cache.TransactionsKey(walletID)
		var txs []domain.Transaction
		var gen int64
		// Only the unfiltered list is cached, and only after ownership was checked once
		if filter.IsZero() {
			if _, err := ledger.GetWallet(ctx, user.ID, walletID); err != nil {
				respondError(c, err)
				return
			}
			gen = rc.Generation(ctx, cacheKey)
			if rc.Get(ctx, cacheKey, &txs) {
				c.JSON(http.StatusOK, txs)
				return
			}
		}
		txs, err := ledger.ListTransactions(ctx, user.ID, walletID, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		if filter.IsZero() {
			rc.Set(ctx, cacheKey, gen, txs)
		}
		c.JSON(http.StatusOK, txs)
	})
}

// CreateTransactionHandler records income or expense against an owned wallet
func CreateTransactionHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		if !checkMoney(c, "amount", req.Amount) {
			return
		}
		tx := domain.Transaction{
			WalletID:    req.WalletID,
			Description: req.Description,
			Amount:      *req.Amount,
			Type:        req.Type,
		}
		if req.TransactionDate != "" {
			date, ok := parseDate(req.TransactionDate, false)
			if !ok {
				respondFieldError(c, "transactionDate", "date")
				return
			}
			tx.TransactionDate = date
		}
		if err := ledger.CreateTransaction(c.Request.Context(), user.ID, &tx); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":   user.ID,
				"wallet_id": req.WalletID,
				"amount":    tx.Amount.String(),
				"error":     err.Error(),
			}).Warn("Transaction not recorded")
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"wallet_id": tx.WalletID,
			"amount":    tx.Amount.String(),
			"type":      tx.Type,
			"timestamp": time.Now().Format(time.RFC3339),
		}).Info("Transaction recorded")
		rc.Delete(c.Request.Context(), cache.WalletsKey(user.ID), cache.TransactionsKey(tx.WalletID))
		c.JSON(http.StatusCreated, tx)
	})
}

// DeleteTransactionHandler removes a transaction and reverses its balance effect
func DeleteTransactionHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		txID, ok := pathID(c)
		if !ok {
			respondError(c, domain.ErrTransactionNotFound)
			return
		}
		walletID, err := ledger.DeleteTransaction(c.Request.Context(), user.ID, txID)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        user.ID,
			"wallet_id":      walletID,
			"transaction_id": txID,
			"type":           "delete_transaction",
			"timestamp":      time.Now().Format(time.RFC3339),
		}).Info("Transaction deleted")
		rc.Delete(c.Request.Context(), cache.WalletsKey(user.ID), cache.TransactionsKey(walletID))
		c.Status(http.StatusNoContent)
	})
}
