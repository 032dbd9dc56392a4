package domain

// Value types of an inbound entry
const (
	ValueTypePaid = "paid"
	ValueTypeFree = "free"
)

// InboundEntry Model (one row per credited bucket)
type InboundEntry struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                      // Primary key
	ReceiptID string `gorm:"size:128;index;not null" json:"receipt_id"` // External correlation token
	UserID    string `gorm:"size:64;index:idx_in_owner;not null" json:"user_id"`
	Name      string `gorm:"size:64;index:idx_in_owner;not null" json:"name"`
	Price     int64  `gorm:"not null;default:0" json:"price"` // Nominal price of the purchase
	Value     int64  `gorm:"not null" json:"value"`           // Amount credited
	ValueType string `gorm:"size:8;not null" json:"value_type"`
	Created   int64  `gorm:"not null" json:"created"` // Unix millis
}

// TableName pins the inbound history table name
func (InboundEntry) TableName() string {
	return "wallet_in"
}

// OutboundEntry Model (one row per debit)
type OutboundEntry struct {
	ID      uint   `gorm:"primaryKey" json:"id"` // Primary key
	UserID  string `gorm:"size:64;index:idx_out_owner;not null" json:"user_id"`
	Name    string `gorm:"size:64;index:idx_out_owner;not null" json:"name"`
	Paid    int64  `gorm:"not null" json:"paid"`   // Taken from the paid bucket
	Free    int64  `gorm:"not null" json:"free"`   // Taken from the free bucket
	Reason  string `gorm:"size:255" json:"reason"` // What the spend was for
	Created int64  `gorm:"not null" json:"created"`
}

// TableName pins the outbound history table name
func (OutboundEntry) TableName() string {
	return "wallet_out"
}

// HistoryPage is one page of a user's inbound and outbound entries in a wallet
type HistoryPage struct {
	Inbound       []InboundEntry  `json:"inbound"`
	Outbound      []OutboundEntry `json:"outbound"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
	TotalInbound  int64           `json:"total_inbound"`
	TotalOutbound int64           `json:"total_outbound"`
}
