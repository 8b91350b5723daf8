package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avery-lane/storefront-crm-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Customer{}, &models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func createProduct(t *testing.T, crm *CRMService, name, price string, stock int) *models.Product {
	t.Helper()
	payload, err := crm.CreateProduct(ProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: intPtr(stock),
	})
	if err != nil {
		t.Fatalf("Failed to create product %s: %v", name, err)
	}
	return payload.Product
}

func TestCreateCustomer(t *testing.T) {
	db := setupTestDB(t)
	crm := NewCRMService(db)

	t.Run("Creates customer with message", func(t *testing.T) {
		payload, err := crm.CreateCustomer(CustomerInput{
			Name:  "Alice Johnson",
			Email: "alice@example.com",
			Phone: strPtr("+1234567890"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "Customer created successfully", payload.Message)
		assert.NotZero(t, payload.Customer.ID)
		assert.False(t, payload.Customer.CreatedAt.IsZero())
	})

	t.Run("Creates customer without phone", func(t *testing.T) {
		payload, err := crm.CreateCustomer(CustomerInput{
			Name:  "Eva Davis",
			Email: "eva@example.com",
		})
		assert.NoError(t, err)
		assert.Nil(t, payload.Customer.Phone)
	})

	t.Run("Rejects duplicate email", func(t *testing.T) {
		_, err := crm.CreateCustomer(CustomerInput{
			Name:  "Alice Clone",
			Email: "alice@example.com",
		})
		assert.Error(t, err)
		vErr, ok := err.(*ValidationError)
		assert.True(t, ok)
		assert.Equal(t, CodeDuplicateEmail, vErr.Code)

		// Store must hold exactly one customer with that email
		var count int64
		db.Model(&models.Customer{}).Where("email = ?", "alice@example.com").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Rejects malformed phone before any write", func(t *testing.T) {
		_, err := crm.CreateCustomer(CustomerInput{
			Name:  "Bad Phone",
			Email: "badphone@example.com",
			Phone: strPtr("12345"),
		})
		assert.Error(t, err)
		vErr, ok := err.(*ValidationError)
		assert.True(t, ok)
		assert.Equal(t, CodeInvalidPhone, vErr.Code)

		var count int64
		db.Model(&models.Customer{}).Where("email = ?", "badphone@example.com").Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestBulkCreateCustomers(t *testing.T) {
	t.Run("Partial success with indexed errors", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)

		// Pre-existing customer whose email collides with row 2
		_, err := crm.CreateCustomer(CustomerInput{Name: "Existing", Email: "taken@example.com"})
		assert.NoError(t, err)

		payload, err := crm.BulkCreateCustomers([]CustomerInput{
			{Name: "One", Email: "one@example.com"},
			{Name: "Two", Email: "taken@example.com"},
			{Name: "Three", Email: "three@example.com", Phone: strPtr("123-456-7890")},
			{Name: "Four", Email: "four@example.com"},
		})
		assert.NoError(t, err)
		assert.Len(t, payload.Customers, 3)
		assert.Len(t, payload.Errors, 1)
		assert.Equal(t, "Row 2: Email 'taken@example.com' already exists", payload.Errors[0])

		var count int64
		db.Model(&models.Customer{}).Count(&count)
		assert.Equal(t, int64(4), count) // existing + 3 created
	})

	t.Run("Invalid phone is a row error, not a batch failure", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)

		payload, err := crm.BulkCreateCustomers([]CustomerInput{
			{Name: "Good", Email: "good@example.com"},
			{Name: "Bad", Email: "bad@example.com", Phone: strPtr("nope")},
		})
		assert.NoError(t, err)
		assert.Len(t, payload.Customers, 1)
		assert.Len(t, payload.Errors, 1)
		assert.Equal(t, "Row 2: Invalid phone format for 'nope'", payload.Errors[0])
	})

	t.Run("Intra-batch duplicate email rejects the later row", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)

		payload, err := crm.BulkCreateCustomers([]CustomerInput{
			{Name: "First", Email: "same@example.com"},
			{Name: "Second", Email: "same@example.com"},
		})
		assert.NoError(t, err)
		assert.Len(t, payload.Customers, 1)
		assert.Equal(t, "First", payload.Customers[0].Name)
		assert.Len(t, payload.Errors, 1)
		assert.Equal(t, "Row 2: Email 'same@example.com' already exists", payload.Errors[0])
	})

	t.Run("Empty batch returns empty lists", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)

		payload, err := crm.BulkCreateCustomers(nil)
		assert.NoError(t, err)
		assert.Empty(t, payload.Customers)
		assert.Empty(t, payload.Errors)
	})
}

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	crm := NewCRMService(db)

	t.Run("Creates product", func(t *testing.T) {
		payload, err := crm.CreateProduct(ProductInput{
			Name:  "Laptop",
			Price: decimal.RequireFromString("999.99"),
			Stock: intPtr(10),
		})
		assert.NoError(t, err)
		assert.Equal(t, 10, payload.Product.Stock)
		assert.True(t, payload.Product.Price.Equal(decimal.RequireFromString("999.99")))
	})

	t.Run("Stock defaults to zero when absent", func(t *testing.T) {
		payload, err := crm.CreateProduct(ProductInput{
			Name:  "Cable",
			Price: decimal.RequireFromString("9.99"),
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, payload.Product.Stock)
	})

	t.Run("Rejects non-positive price", func(t *testing.T) {
		_, err := crm.CreateProduct(ProductInput{
			Name:  "Freebie",
			Price: decimal.Zero,
		})
		vErr, ok := err.(*ValidationError)
		assert.True(t, ok)
		assert.Equal(t, CodeInvalidPrice, vErr.Code)
	})

	t.Run("Rejects negative stock", func(t *testing.T) {
		_, err := crm.CreateProduct(ProductInput{
			Name:  "Phantom",
			Price: decimal.RequireFromString("5.00"),
			Stock: intPtr(-1),
		})
		vErr, ok := err.(*ValidationError)
		assert.True(t, ok)
		assert.Equal(t, CodeInvalidStock, vErr.Code)
	})
}

func TestCreateOrder(t *testing.T) {
	t.Run("Total is the exact decimal sum of product prices", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)

		customer, err := crm.CreateCustomer(CustomerInput{Name: "Alice", Email: "alice@example.com"})
		assert.NoError(t, err)
		laptop := createProduct(t, crm, "Laptop", "999.99", 10)
		mouse := createProduct(t, crm, "Mouse", "29.99", 50)

		payload, err := crm.CreateOrder(OrderInput{
			CustomerID: customer.Customer.ID,
			ProductIDs: []uint{laptop.ID, mouse.ID},
		})
		assert.NoError(t, err)
		assert.True(t, payload.Order.TotalAmount.Equal(decimal.RequireFromString("1029.98")),
			"expected 1029.98, got %s", payload.Order.TotalAmount)
		assert.Len(t, payload.Order.Products, 2)
		assert.False(t, payload.Order.OrderDate.IsZero())
	})

	t.Run("Total is a snapshot, not a live join", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)

		customer, _ := crm.CreateCustomer(CustomerInput{Name: "Bob", Email: "bob@example.com"})
		product := createProduct(t, crm, "Monitor", "299.99", 8)

		payload, err := crm.CreateOrder(OrderInput{
			CustomerID: customer.Customer.ID,
			ProductIDs: []uint{product.ID},
		})
		assert.NoError(t, err)

		// Raise the price after the order was created
		err = db.Model(&models.Product{}).Where("id = ?", product.ID).
			Update("price", decimal.RequireFromString("399.99")).Error
		assert.NoError(t, err)

		var stored models.Order
		assert.NoError(t, db.First(&stored, payload.Order.ID).Error)
		assert.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("299.99")))
	})

	t.Run("Fails when customer does not exist", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)
		product := createProduct(t, crm, "Mouse", "29.99", 50)

		_, err := crm.CreateOrder(OrderInput{CustomerID: 42, ProductIDs: []uint{product.ID}})
		nfErr, ok := err.(*NotFoundError)
		assert.True(t, ok)
		assert.Equal(t, "Customer", nfErr.Entity)
		assert.Equal(t, uint(42), nfErr.ID)
		assert.Equal(t, "Customer with ID '42' does not exist", nfErr.Error())
	})

	t.Run("Fails when no products selected", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)
		customer, _ := crm.CreateCustomer(CustomerInput{Name: "Carol", Email: "carol@example.com"})

		_, err := crm.CreateOrder(OrderInput{CustomerID: customer.Customer.ID, ProductIDs: []uint{}})
		vErr, ok := err.(*ValidationError)
		assert.True(t, ok)
		assert.Equal(t, CodeNoProducts, vErr.Code)
	})

	t.Run("Missing product rolls back the whole order", func(t *testing.T) {
		db := setupTestDB(t)
		crm := NewCRMService(db)

		customer, _ := crm.CreateCustomer(CustomerInput{Name: "Dave", Email: "dave@example.com"})
		product := createProduct(t, crm, "Keyboard", "79.99", 5)

		_, err := crm.CreateOrder(OrderInput{
			CustomerID: customer.Customer.ID,
			ProductIDs: []uint{product.ID, 999},
		})
		nfErr, ok := err.(*NotFoundError)
		assert.True(t, ok)
		assert.Equal(t, "Product", nfErr.Entity)
		assert.Equal(t, uint(999), nfErr.ID)

		// No order row and no partial product attachment left behind
		var orderCount int64
		db.Model(&models.Order{}).Count(&orderCount)
		assert.Equal(t, int64(0), orderCount)

		var joinCount int64
		db.Table("order_products").Count(&joinCount)
		assert.Equal(t, int64(0), joinCount)
	})
}

func TestUpdateLowStockProducts(t *testing.T) {
	db := setupTestDB(t)
	crm := NewCRMService(db)

	createProduct(t, crm, "Headphones", "149.99", 3)
	createProduct(t, crm, "Mouse", "29.99", 15)
	createProduct(t, crm, "Webcam", "59.99", 0)
	createProduct(t, crm, "Monitor", "299.99", 9)

	payload, err := crm.UpdateLowStockProducts()
	assert.NoError(t, err)
	assert.Len(t, payload.UpdatedProducts, 3)
	assert.ElementsMatch(t, []string{"Headphones", "Webcam", "Monitor"}, payload.UpdatedProducts)
	assert.Equal(t, "Updated 3 products", payload.Message)

	stocks := map[string]int{}
	var products []models.Product
	assert.NoError(t, db.Find(&products).Error)
	for _, p := range products {
		stocks[p.Name] = p.Stock
	}
	assert.Equal(t, map[string]int{
		"Headphones": 13,
		"Mouse":      15,
		"Webcam":     10,
		"Monitor":    19,
	}, stocks)

	// Second run only touches products still below the threshold
	second, err := crm.UpdateLowStockProducts()
	assert.NoError(t, err)
	assert.Empty(t, second.UpdatedProducts)
	assert.Equal(t, "Updated 0 products", second.Message)

	assert.NoError(t, db.Find(&products).Error)
	for _, p := range products {
		assert.GreaterOrEqual(t, p.Stock, stocks[p.Name], "stock must never decrease")
	}
}
