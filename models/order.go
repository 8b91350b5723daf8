package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a customer order in the system.
// TotalAmount is a snapshot of the linked product prices at creation
// time; it is never recomputed from the join afterwards.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"` // foreign key to customers table
	Customer    Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	Products    []Product       `gorm:"many2many:order_products" json:"products"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	OrderDate   time.Time       `gorm:"not null" json:"order_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
