// Package api exposes the budgeting HTTP surface: user sync, the current
// user, and owner-scoped wallet and transaction endpoints.
package api

import (
	"net/http" // HTTP status codes

	"budgetin/internal/cache"      // Redis cache
	"budgetin/internal/directory"  // User directory
	"budgetin/internal/middleware" // Access gate
	"budgetin/internal/store"      // Ledger store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Deps are the collaborators the handlers are built from
type Deps struct {
	DB        *gorm.DB             // Used by the health check
	Directory *directory.Directory // Token verification and user sync
	Ledger    *store.Ledger        // Wallets and transactions
	Cache     *cache.Cache         // Optional, nil disables caching
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	setupValidation()

	r.GET("/healthz", HealthHandler(d.DB))             // Liveness and database reachability
	r.POST("/sync-user", SyncUserHandler(d.Directory)) // Provision or refresh the local user

	// Everything below requires a verified bearer token
	authGroup := r.Group("/")
	authGroup.Use(middleware.AccessGate(d.Directory))
	authGroup.GET("/user", CurrentUserHandler())

	authGroup.GET("/wallets", ListWalletsHandler(d.Ledger, d.Cache))
	authGroup.POST("/wallets", CreateWalletHandler(d.Ledger, d.Cache))
	authGroup.GET("/wallets/:id", GetWalletHandler(d.Ledger))
	authGroup.PUT("/wallets/:id", UpdateWalletHandler(d.Ledger, d.Cache))
	authGroup.DELETE("/wallets/:id", DeleteWalletHandler(d.Ledger, d.Cache))
	authGroup.GET("/wallets/:id/summary", WalletSummaryHandler(d.Ledger))
	authGroup.GET("/wallets/:id/transactions", ListTransactionsHandler(d.Ledger, d.Cache))

	authGroup.POST("/transactions", CreateTransactionHandler(d.Ledger, d.Cache))
	authGroup.DELETE("/transactions/:id", DeleteTransactionHandler(d.Ledger, d.Cache))
}

// HealthHandler reports whether the database answers a ping
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logrus.WithError(err).Error("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
