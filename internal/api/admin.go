package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin"                             // Gin web framework
	"github.com/iblisbuu/gracenode-wallet/internal/domain" // Importing domain models
	"github.com/iblisbuu/gracenode-wallet/internal/utils"  // Cache helpers
	"github.com/iblisbuu/gracenode-wallet/internal/wallet" // Ledger
	"github.com/sirupsen/logrus"                           // Logging library
	"gorm.io/gorm"                                         // GORM ORM library
)

// Batch operation kinds
const (
	OpCredit = "credit"
	OpDebit  = "debit"
)

// CreditRequest represents a purchase or grant credited by an admin
type CreditRequest struct {
	ReceiptID string `json:"receipt_id" binding:"required"` // External correlation token
	UserID    uint   `json:"user_id" binding:"required"`    // Target user
	Price     int64  `json:"price"`                         // Nominal price of the purchase
	Paid      int64  `json:"paid"`                          // Paid amount to add
	Free      int64  `json:"free"`                          // Free amount to add
}

// BatchOperation is one credit or debit of a batch
type BatchOperation struct {
	Op        string `json:"op" binding:"required,oneof=credit debit"` // Operation kind
	UserID    uint   `json:"user_id" binding:"required"`               // Target user
	ReceiptID string `json:"receipt_id"`                               // Credit only
	Price     int64  `json:"price"`                                    // Credit only
	Paid      int64  `json:"paid"`                                     // Credit only
	Free      int64  `json:"free"`                                     // Credit only
	Amount    int64  `json:"amount"`                                   // Debit only
	Reason    string `json:"reason"`                                   // Debit only
}

// BatchRequest runs all operations atomically
type BatchRequest struct {
	Operations []BatchOperation `json:"operations" binding:"required,min=1,dive"`
}

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID        uint   `json:"id"`         // User ID
	Username  string `json:"username"`   // Username
	Role      string `json:"role"`       // User role
	CreatedAt int64  `json:"created_at"` // Registration time in millis
}

// usersPage is the cached body of ListUsersHandler
type usersPage struct {
	Users      []UserAdminResponse `json:"users"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int64               `json:"total"`
	TotalPages int                 `json:"total_pages"`
}

// ListUsersHandler returns registered users, paginated
func ListUsersHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		cacheKey := "admin:users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)

		var cached usersPage
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"users": cached, "cached": true})
			return
		}
		var total int64 // Total user count
		if err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}
		var users []domain.User
		if err := db.WithContext(ctx).Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		resp := usersPage{
			Users:      make([]UserAdminResponse, len(users)),
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (int(total) + pageSize - 1) / pageSize,
		}
		for i, u := range users {
			resp.Users[i] = UserAdminResponse{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
		}
		_ = cache.Set(ctx, cacheKey, resp) // Cache the page
		c.JSON(http.StatusOK, gin.H{"users": resp, "cached": false})
	}
}

// CreditHandler credits a user's paid and free buckets
func CreditHandler(reg *wallet.Registry, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, ok := lookupWallet(c, reg)
		if !ok {
			return
		}
		var req CreditRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		userID := domain.LedgerUserID(req.UserID)
		log := requestLog(c).WithFields(logrus.Fields{
			"wallet":     w.Name(),
			"user_id":    userID,
			"receipt_id": req.ReceiptID,
			"paid":       req.Paid,
			"free":       req.Free,
		})
		amounts := wallet.Amounts{Paid: req.Paid, Free: req.Free}
		if err := w.Credit(c.Request.Context(), req.ReceiptID, userID, req.Price, amounts); err != nil {
			log.WithField("error", err.Error()).Warn("Credit rejected")
			respondError(c, err)
			return
		}
		log.Info("Credit committed")
		invalidate(c, cache, w.Name(), userID)
		c.JSON(http.StatusOK, gin.H{"message": "Credit successful"})
	}
}

// BatchHandler applies several credits and debits as one unit
func BatchHandler(reg *wallet.Registry, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, ok := lookupWallet(c, reg)
		if !ok {
			return
		}
		var req BatchRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		failed := -1 // Index of the operation that aborted the batch
		err := w.Batch(c.Request.Context(), func(b *wallet.Batch) error {
			for i, op := range req.Operations {
				userID := domain.LedgerUserID(op.UserID)
				var err error
				switch op.Op {
				case OpCredit:
					err = b.Credit(op.ReceiptID, userID, op.Price, wallet.Amounts{Paid: op.Paid, Free: op.Free})
				case OpDebit:
					err = b.Debit(userID, op.Amount, op.Reason)
				}
				if err != nil {
					failed = i
					return err
				}
			}
			return nil
		})
		log := requestLog(c).WithFields(logrus.Fields{
			"wallet":     w.Name(),
			"operations": len(req.Operations),
		})
		if err != nil {
			log.WithFields(logrus.Fields{"failed_operation": failed, "error": err.Error()}).Warn("Batch rolled back")
			status := statusFor(err)
			body := gin.H{"error": err.Error(), "failed_operation": failed}
			if status == http.StatusInternalServerError {
				body["error"] = "Internal error"
			}
			c.JSON(status, body)
			return
		}
		log.Info("Batch committed")
		seen := make(map[uint]bool, len(req.Operations))
		for _, op := range req.Operations {
			if !seen[op.UserID] {
				seen[op.UserID] = true
				invalidate(c, cache, w.Name(), domain.LedgerUserID(op.UserID))
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Batch successful", "operations": len(req.Operations)})
	}
}
