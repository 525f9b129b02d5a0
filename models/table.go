package models

import "time"

// Table is a dining table. OrderID points at the open order carried by the
// table; in a group only the primary table carries one.
type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Capacity  int       `gorm:"not null;default:4" json:"capacity"`
	ZoneID    *uint     `gorm:"index" json:"zone_id"`
	State     string    `gorm:"type:varchar(20);not null;default:'free'" json:"state"`
	OrderID   *uint     `json:"order_id,omitempty"`
	GroupCode string    `gorm:"type:varchar(36);index" json:"group,omitempty"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
