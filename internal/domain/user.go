package domain

import "strconv"

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User Model
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"` // Primary key
	Username  string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password  string `gorm:"not null" json:"-"`                      // Hashed password
	Role      string `gorm:"size:16;default:user" json:"role"`       // Role: user or admin
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}

// LedgerUserID is a user id as stored in the wallet tables
func LedgerUserID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
