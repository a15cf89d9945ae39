package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Audit timestamps

	"budgetin/internal/cache"  // Redis cache
	"budgetin/internal/domain" // Importing domain models
	"budgetin/internal/store"  // Ledger store

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Fixed-point money
	"github.com/sirupsen/logrus"    // Logging library
)

// WalletRequest is the body of POST /wallets
type WalletRequest struct {
	Name              string                   `json:"walletName" binding:"required,notblank,max=255"`                          // Wallet name
	Category          string                   `json:"category" binding:"required,notblank,max=255"`                            // Free-form category
	Location          string                   `json:"location" binding:"required,notblank,max=255"`                            // Location label
	Balance           *decimal.Decimal         `json:"balance"`                                                                 // Opening balance, zero when omitted
	DisplayPreference domain.DisplayPreference `json:"displayPreference" binding:"omitempty,oneof=daily weekly monthly yearly"` // Summary period
}

// WalletUpdateRequest is the body of PUT /wallets/:id; the balance is not editable
type WalletUpdateRequest struct {
	Name              string                   `json:"walletName" binding:"required,notblank,max=255"`                          // Wallet name
	Category          string                   `json:"category" binding:"required,notblank,max=255"`                            // Free-form category
	Location          string                   `json:"location" binding:"required,notblank,max=255"`                            // Location label
	DisplayPreference domain.DisplayPreference `json:"displayPreference" binding:"omitempty,oneof=daily weekly monthly yearly"` // Summary period, kept when omitted
}

// ListWalletsHandler returns every wallet of the authenticated user
func ListWalletsHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		ctx := c.Request.Context()
		cacheKey := cache.WalletsKey(user.ID)
		gen := rc.Generation(ctx, cacheKey) // Read before the query so a racing write wins
		var wallets []domain.Wallet
		if rc.Get(ctx, cacheKey, &wallets) {
			c.JSON(http.StatusOK, wallets)
			return
		}
		wallets, err := ledger.ListWallets(ctx, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		rc.Set(ctx, cacheKey, gen, wallets)
		c.JSON(http.StatusOK, wallets)
	})
}

// GetWalletHandler returns one wallet of the authenticated user
func GetWalletHandler(ledger *store.Ledger) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		walletID, ok := pathID(c)
		if !ok {
			respondError(c, domain.ErrWalletNotFound)
			return
		}
		wallet, err := ledger.GetWallet(c.Request.Context(), user.ID, walletID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, wallet)
	})
}

// CreateWalletHandler creates a wallet owned by the authenticated user
func CreateWalletHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		var req WalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		if !checkMoney(c, "balance", req.Balance) {
			return
		}
		wallet := domain.Wallet{
			UserID:            user.ID,
			Name:              req.Name,
			Category:          req.Category,
			Location:          req.Location,
			DisplayPreference: req.DisplayPreference,
		}
		if req.Balance != nil {
			wallet.Balance = *req.Balance
		}
		if err := ledger.CreateWallet(c.Request.Context(), &wallet); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Failed to create wallet")
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"wallet_id": wallet.ID,
			"balance":   wallet.Balance.String(),
			"type":      "create_wallet",
			"timestamp": time.Now().Format(time.RFC3339),
		}).Info("Wallet created")
		rc.Delete(c.Request.Context(), cache.WalletsKey(user.ID)) // Invalidate wallet list
		c.JSON(http.StatusCreated, wallet)
	})
}

// UpdateWalletHandler edits a wallet of the authenticated user
func UpdateWalletHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		walletID, ok := pathID(c)
		if !ok {
			respondError(c, domain.ErrWalletNotFound)
			return
		}
		var req WalletUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		wallet, err := ledger.UpdateWallet(c.Request.Context(), user.ID, walletID, domain.WalletUpdate{
			Name:              req.Name,
			Category:          req.Category,
			Location:          req.Location,
			DisplayPreference: req.DisplayPreference,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"wallet_id": wallet.ID,
			"type":      "update_wallet",
			"timestamp": time.Now().Format(time.RFC3339),
		}).Info("Wallet updated")
		rc.Delete(c.Request.Context(), cache.WalletsKey(user.ID))
		c.JSON(http.StatusOK, wallet)
	})
}

// DeleteWalletHandler removes a wallet and its transactions
func DeleteWalletHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		walletID, ok := pathID(c)
		if !ok {
			respondError(c, domain.ErrWalletNotFound)
			return
		}
		if err := ledger.DeleteWallet(c.Request.Context(), user.ID, walletID); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"wallet_id": walletID,
			"type":      "delete_wallet",
			"timestamp": time.Now().Format(time.RFC3339),
		}).Info("Wallet deleted")
		rc.Delete(c.Request.Context(), cache.WalletsKey(user.ID), cache.TransactionsKey(walletID))
		c.Status(http.StatusNoContent)
	})
}

// WalletSummaryHandler returns income, expense and balance of a wallet
func WalletSummaryHandler(ledger *store.Ledger) gin.HandlerFunc {
	return authed(func(c *gin.Context, user *domain.User) {
		walletID, ok := pathID(c)
		if !ok {
			respondError(c, domain.ErrWalletNotFound)
			return
		}
		summary, err := ledger.Summary(c.Request.Context(), user.ID, walletID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	})
}

// pathID parses the :id route parameter
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
