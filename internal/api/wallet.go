package api

import (
	"context"  // Context for history reads
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin"                             // Gin web framework
	"github.com/iblisbuu/gracenode-wallet/internal/domain" // Importing domain models
	"github.com/iblisbuu/gracenode-wallet/internal/utils"  // Cache helpers
	"github.com/iblisbuu/gracenode-wallet/internal/wallet" // Ledger
	"github.com/sirupsen/logrus"                           // Logging library
)

// HistoryLister pages through a user's history in one wallet
type HistoryLister interface {
	ListHistory(ctx context.Context, walletName, userID string, page, pageSize int) (domain.HistoryPage, error)
}

// SpendRequest represents a debit by the caller
type SpendRequest struct {
	Amount int64  `json:"amount"` // Amount to spend, validated by the ledger
	Reason string `json:"reason"` // What the spend is for
}

// BalanceResponse is the caller's balance in one wallet
type BalanceResponse struct {
	Wallet string `json:"wallet"` // Wallet name
	Paid   int64  `json:"paid"`   // Paid bucket
	Free   int64  `json:"free"`   // Free bucket
	Total  int64  `json:"total"`  // Paid + free
}

// lookupWallet resolves :name or writes a 404
func lookupWallet(c *gin.Context, reg *wallet.Registry) (*wallet.Wallet, bool) {
	name := c.Param("name")
	w, ok := reg.Get(name)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", wallet.ErrWalletNotFound, name))
		return nil, false
	}
	return w, true
}

// invalidate drops cached reads of a user after a committed mutation
func invalidate(c *gin.Context, cache *utils.Cache, walletName, userID string) {
	if err := cache.Invalidate(c.Request.Context(), walletName, userID); err != nil {
		requestLog(c).WithFields(logrus.Fields{
			"wallet":  walletName,
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("cache invalidation failed")
	}
}

// ListWalletsHandler returns the configured wallet names
func ListWalletsHandler(reg *wallet.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"wallets": reg.Names()})
	}
}

// BalanceHandler returns the caller's balance, served from cache when possible
func BalanceHandler(reg *wallet.Registry, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		w, ok := lookupWallet(c, reg)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		userID := domain.LedgerUserID(id)
		cacheKey := utils.BalanceKey(w.Name(), userID)

		var cached BalanceResponse
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"balance": cached, "cached": true})
			return
		}
		bal, err := w.GetBalance(ctx, userID)
		if err != nil {
			requestLog(c).WithFields(logrus.Fields{
				"wallet":  w.Name(),
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Failed to read balance")
			respondError(c, err)
			return
		}
		resp := BalanceResponse{Wallet: w.Name(), Paid: bal.Paid, Free: bal.Free, Total: bal.Total()}
		_ = cache.Set(ctx, cacheKey, resp) // Cache the balance
		c.JSON(http.StatusOK, gin.H{"balance": resp, "cached": false})
	}
}

// SpendHandler debits the caller, free balance first
func SpendHandler(reg *wallet.Registry, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		w, ok := lookupWallet(c, reg)
		if !ok {
			return
		}
		var req SpendRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		userID := domain.LedgerUserID(id)
		log := requestLog(c).WithFields(logrus.Fields{
			"wallet":  w.Name(),
			"user_id": userID,
			"amount":  req.Amount,
		})
		if err := w.Debit(c.Request.Context(), userID, req.Amount, req.Reason); err != nil {
			log.WithField("error", err.Error()).Warn("Spend rejected")
			respondError(c, err)
			return
		}
		log.Info("Spend committed")
		invalidate(c, cache, w.Name(), userID)
		c.JSON(http.StatusOK, gin.H{"message": "Spend successful"})
	}
}

// HistoryHandler returns a page of the caller's inbound and outbound entries
func HistoryHandler(reg *wallet.Registry, history HistoryLister, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		w, ok := lookupWallet(c, reg)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		userID := domain.LedgerUserID(id)
		page, pageSize := pagination(c)
		cacheKey := utils.HistoryPrefix(w.Name(), userID) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)

		var cached domain.HistoryPage
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"history": cached, "cached": true})
			return
		}
		hp, err := history.ListHistory(ctx, w.Name(), userID, page, pageSize)
		if err != nil {
			requestLog(c).WithFields(logrus.Fields{
				"wallet":  w.Name(),
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Failed to fetch history")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
			return
		}
		_ = cache.Set(ctx, cacheKey, hp) // Cache the page
		c.JSON(http.StatusOK, gin.H{"history": hp, "cached": false})
	}
}
