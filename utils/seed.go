package utils

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avery-lane/storefront-crm-api/models"
)

// SeedDatabase resets the store and loads the sample data set. This is
// a data-reset utility for development and demos, not part of the
// mutation pipeline: it deletes every order, product and customer
// before inserting.
func SeedDatabase(db *gorm.DB) error {
	log.Println("Starting database seeding...")

	// Orders first so foreign keys and join rows go before their targets
	if err := db.Exec("DELETE FROM order_products").Error; err != nil {
		return fmt.Errorf("failed to clear order_products: %w", err)
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Order{}).Error; err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error; err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Customer{}).Error; err != nil {
		return fmt.Errorf("failed to clear customers: %w", err)
	}
	log.Println("Cleared existing data")

	phone := func(s string) *string { return &s }

	customers := []models.Customer{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: phone("+1234567890")},
		{Name: "Bob Smith", Email: "bob@example.com", Phone: phone("123-456-7890")},
		{Name: "Carol White", Email: "carol@example.com", Phone: phone("+1987654321")},
		{Name: "David Brown", Email: "david@example.com", Phone: phone("555-123-4567")},
		{Name: "Eva Davis", Email: "eva@example.com"},
	}
	if err := db.Create(&customers).Error; err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	products := []models.Product{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
		{Name: "Mouse", Price: decimal.RequireFromString("29.99"), Stock: 50},
		{Name: "Keyboard", Price: decimal.RequireFromString("79.99"), Stock: 5},
		{Name: "Monitor", Price: decimal.RequireFromString("299.99"), Stock: 8},
		{Name: "Headphones", Price: decimal.RequireFromString("149.99"), Stock: 3},
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	// One sample order: Laptop + Mouse for the first customer
	order := models.Order{
		CustomerID:  customers[0].ID,
		Products:    products[:2],
		TotalAmount: products[0].Price.Add(products[1].Price),
		OrderDate:   customers[0].CreatedAt,
	}
	if err := db.Omit("Products.*").Create(&order).Error; err != nil {
		return fmt.Errorf("failed to seed order: %w", err)
	}

	log.Printf("Seeded %d customers, %d products, 1 order", len(customers), len(products))
	return nil
}
