package domain

// Balance Model
type Balance struct {
	UserID   string `gorm:"primaryKey;size:64" json:"user_id"` // Owner of the balance
	Name     string `gorm:"primaryKey;size:64" json:"name"`    // Wallet name
	Paid     int64  `gorm:"not null;default:0" json:"paid"`    // Purchased currency
	Free     int64  `gorm:"not null;default:0" json:"free"`    // Granted currency
	Created  int64  `gorm:"not null" json:"created"`           // Unix millis of the first credit
	Modified int64  `gorm:"not null" json:"modified"`          // Unix millis of the last mutation
}

// TableName pins the balance table name
func (Balance) TableName() string {
	return "wallet_balance"
}

// Total is the spendable amount across both buckets
func (b Balance) Total() int64 {
	return b.Paid + b.Free
}
