package models

import "time"

// Receipt is issued once, when an order is closed. Lines are copied from the
// order so later menu edits do not change it.
type Receipt struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderID       uint          `gorm:"uniqueIndex;not null" json:"order_id"`
	ReceiptNumber string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"receipt_number"`
	TableName     string        `gorm:"type:varchar(50);not null" json:"table_name"`
	Tables        int           `gorm:"not null;default:1" json:"tables"`
	Total         float64       `gorm:"type:decimal(12,2);not null" json:"total"`
	IssuedBy      uint          `json:"issued_by"`
	Items         []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
}

type ReceiptItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	ReceiptID   uint    `gorm:"not null;index" json:"-"`
	ProductName string  `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal    float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Notes       string  `gorm:"type:text" json:"notes,omitempty"`
}
