package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin"                                 // Gin web framework
	"github.com/iblisbuu/gracenode-wallet/internal/middleware" // Context keys
	"github.com/iblisbuu/gracenode-wallet/internal/wallet"     // Ledger errors
	"github.com/sirupsen/logrus"                               // Logging library
)

// Pagination defaults shared by the listing handlers
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// statusFor maps ledger errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, wallet.ErrWalletNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Internal details stay in the logs.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// requestLog scopes the standard logger to the current request
func requestLog(c *gin.Context) *logrus.Entry {
	return logrus.WithField("request_id", c.GetString(middleware.RequestIDKey))
}

// callerID returns the authenticated user id in its ledger form
func callerID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// pagination reads page and page_size, falling back to defaults on bad input
func pagination(c *gin.Context) (int, int) {
	page := 1                   // Default page number
	pageSize := defaultPageSize // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
			pageSize = v
		}
	}
	return page, pageSize
}
