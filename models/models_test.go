package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "customers", Customer{}.TableName(), "Table name should be 'customers'")
	assert.Equal(t, "products", Product{}.TableName(), "Table name should be 'products'")
	assert.Equal(t, "orders", Order{}.TableName(), "Table name should be 'orders'")
}

func TestCustomerStructFields(t *testing.T) {
	phone := "+1234567890"
	customer := Customer{
		Name:  "Alice Johnson",
		Email: "alice@example.com",
		Phone: &phone,
	}

	assert.Equal(t, "alice@example.com", customer.Email, "Email should be set correctly")
	assert.Equal(t, "+1234567890", *customer.Phone, "Phone should be set correctly")
}

func TestCustomerPhoneIsOptional(t *testing.T) {
	customer := Customer{
		Name:  "Eva Davis",
		Email: "eva@example.com",
	}

	assert.Nil(t, customer.Phone, "Phone should be nil when not provided")
}

func TestProductDefaultStock(t *testing.T) {
	product := Product{
		Name:  "Laptop",
		Price: decimal.RequireFromString("999.99"),
	}

	assert.Equal(t, 0, product.Stock, "Stock should default to zero in the Go struct")
}

func TestOrderTotalAmountIsIndependentOfProducts(t *testing.T) {
	// TotalAmount is a snapshot; changing the product slice must not
	// affect it
	order := Order{
		TotalAmount: decimal.RequireFromString("1029.98"),
		Products: []Product{
			{Name: "Laptop", Price: decimal.RequireFromString("999.99")},
		},
	}

	order.Products[0].Price = decimal.RequireFromString("1999.99")
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1029.98")))
}
