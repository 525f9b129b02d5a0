package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWaiter  = "waiter"
	RoleChef    = "chef"
)

type Employee struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255); not null"`
	Email     string `gorm:"type:varchar(255); unique;not null"`
	Password  string `gorm:"type:varchar(255); not null"`
	Role      string `gorm:"type:varchar(50); not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Employee{},
		&Zone{},
		&Table{},
		&MenuCategory{},
		&Product{},
		&Order{},
		&OrderItem{},
		&Receipt{},
		&ReceiptItem{},
		&Notification{},
	}
}
