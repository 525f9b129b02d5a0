package models

import (
	"time"
)

const (
	NotifyItemReady     = "item_ready"
	NotifyBillRequested = "bill_requested"
)

// Notification is a message for every employee of Role. Admins see all of them.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Role      string     `gorm:"type:varchar(20);index;not null" json:"role"`
	Kind      string     `gorm:"type:varchar(30);not null" json:"kind"`
	Title     string     `gorm:"type:varchar(100)" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	OrderID   *uint      `json:"order_id,omitempty"`
	TableID   *uint      `json:"table_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}
