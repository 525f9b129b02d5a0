package models

import "time"

const (
	OrderOpen    = "open"
	OrderBilling = "billing"
	OrderClosed  = "closed"
)

type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	TableID   uint        `gorm:"index;not null" json:"table_id"`
	Status    string      `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Total     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	StartedAt time.Time   `gorm:"not null" json:"started_at"`
	ClosedAt  *time.Time  `json:"closed_at,omitempty"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
}

// AlertCount counts the items the kitchen has finished that nobody collected.
func (o *Order) AlertCount() int {
	n := 0
	for _, it := range o.Items {
		if it.Status == ItemReady {
			n++
		}
	}
	return n
}

// Recalculate sums the line totals into Total.
func (o *Order) Recalculate() {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	o.Total = total
}
