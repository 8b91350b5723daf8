package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avery-lane/storefront-crm-api/models"
	"github.com/avery-lane/storefront-crm-api/utils"
)

// Low-stock replenishment parameters: products with stock below the
// threshold are raised by the increment on each run.
const (
	LowStockThreshold = 10
	RestockIncrement  = 10
)

// CustomerInput is the input for creating a customer
type CustomerInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// ProductInput is the input for creating a product
type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock"`
}

// OrderInput is the input for creating an order
type OrderInput struct {
	CustomerID uint       `json:"customer_id"`
	ProductIDs []uint     `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date"`
}

// CustomerPayload is the result of a successful CreateCustomer
type CustomerPayload struct {
	Customer *models.Customer `json:"customer"`
	Message  string           `json:"message"`
}

// BulkCustomersPayload is the result of BulkCreateCustomers: the rows
// that were created plus one indexed error string per rejected row
type BulkCustomersPayload struct {
	Customers []models.Customer `json:"customers"`
	Errors    []string          `json:"errors"`
}

// ProductPayload is the result of a successful CreateProduct
type ProductPayload struct {
	Product *models.Product `json:"product"`
}

// OrderPayload is the result of a successful CreateOrder
type OrderPayload struct {
	Order *models.Order `json:"order"`
}

// LowStockPayload is the result of UpdateLowStockProducts
type LowStockPayload struct {
	Products        []models.Product `json:"products"`
	UpdatedProducts []string         `json:"updated_products"`
	Message         string           `json:"message"`
}

// CRMService implements the mutation pipeline over the entity store.
// All validation runs before any write; multi-step writes happen inside
// a single transaction.
type CRMService struct {
	db *gorm.DB
}

// NewCRMService creates a new CRM service backed by the given database
func NewCRMService(db *gorm.DB) *CRMService {
	return &CRMService{db: db}
}

// CreateCustomer validates and creates a single customer.
// Fails fast with DUPLICATE_EMAIL or INVALID_PHONE before any write.
func (s *CRMService) CreateCustomer(input CustomerInput) (*CustomerPayload, error) {
	if err := s.validateCustomer(s.db, input); err != nil {
		return nil, err
	}

	customer := models.Customer{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}

	if err := s.db.Create(&customer).Error; err != nil {
		// The unique index can still reject the email if a concurrent
		// request won the race between validation and insert
		if isUniqueViolation(err) {
			return nil, &ValidationError{Code: CodeDuplicateEmail, Message: "Email already exists"}
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return &CustomerPayload{
		Customer: &customer,
		Message:  "Customer created successfully",
	}, nil
}

// BulkCreateCustomers creates multiple customers inside one transaction.
// Each row is validated independently; rows that fail are recorded as
// "Row N: <reason>" and skipped while the rest are created. Partial
// success is the designed outcome - the operation only fails as a whole
// if the store aborts the transaction, in which case nothing persists.
//
// Duplicate detection runs against the transaction handle, so a row
// also sees emails created by earlier rows of the same batch: the first
// occurrence wins, later duplicates are rejected.
func (s *CRMService) BulkCreateCustomers(inputs []CustomerInput) (*BulkCustomersPayload, error) {
	payload := &BulkCustomersPayload{
		Customers: []models.Customer{},
		Errors:    []string{},
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for idx, input := range inputs {
			row := idx + 1

			var count int64
			if err := tx.Model(&models.Customer{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
				payload.Errors = append(payload.Errors, fmt.Sprintf("Row %d: %v", row, err))
				continue
			}
			if count > 0 {
				payload.Errors = append(payload.Errors, fmt.Sprintf("Row %d: Email '%s' already exists", row, input.Email))
				continue
			}

			if input.Phone != nil && !utils.ValidatePhone(*input.Phone) {
				payload.Errors = append(payload.Errors, fmt.Sprintf("Row %d: Invalid phone format for '%s'", row, *input.Phone))
				continue
			}

			customer := models.Customer{
				Name:  input.Name,
				Email: input.Email,
				Phone: input.Phone,
			}
			if err := tx.Create(&customer).Error; err != nil {
				payload.Errors = append(payload.Errors, fmt.Sprintf("Row %d: %v", row, err))
				continue
			}
			payload.Customers = append(payload.Customers, customer)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk customer creation failed: %w", err)
	}

	return payload, nil
}

// CreateProduct validates and creates a single product.
// Stock defaults to 0 when absent.
func (s *CRMService) CreateProduct(input ProductInput) (*ProductPayload, error) {
	if !utils.ValidatePrice(input.Price) {
		return nil, &ValidationError{Code: CodeInvalidPrice, Message: "Price must be positive"}
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	if !utils.ValidateStock(stock) {
		return nil, &ValidationError{Code: CodeInvalidStock, Message: "Stock cannot be negative"}
	}

	product := models.Product{
		Name:  input.Name,
		Price: input.Price,
		Stock: stock,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &ProductPayload{Product: &product}, nil
}

// CreateOrder validates and creates an order with its product set.
// The order row and the product attachments are written inside one
// transaction: a missing product discovered partway leaves no order
// behind. TotalAmount is the sum of the resolved product prices at
// creation time.
func (s *CRMService) CreateOrder(input OrderInput) (*OrderPayload, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "Customer", ID: input.CustomerID}
			}
			return fmt.Errorf("failed to look up customer: %w", err)
		}

		if len(input.ProductIDs) == 0 {
			return &ValidationError{Code: CodeNoProducts, Message: "At least one product must be selected"}
		}

		// Resolve every product, failing on the first missing id
		products := make([]models.Product, 0, len(input.ProductIDs))
		for _, productID := range input.ProductIDs {
			var product models.Product
			if err := tx.First(&product, productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "Product", ID: productID}
				}
				return fmt.Errorf("failed to look up product: %w", err)
			}
			products = append(products, product)
		}

		// Snapshot the total from current prices
		total := decimal.Zero
		for _, product := range products {
			total = total.Add(product.Price)
		}

		orderDate := time.Now()
		if input.OrderDate != nil {
			orderDate = *input.OrderDate
		}

		order = models.Order{
			CustomerID:  customer.ID,
			Customer:    customer,
			Products:    products,
			TotalAmount: total,
			OrderDate:   orderDate,
		}

		// Omit("Products.*") writes the join rows without touching the
		// product rows themselves
		if err := tx.Omit("Products.*").Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &OrderPayload{Order: &order}, nil
}

// UpdateLowStockProducts raises every product with stock below the
// threshold by the restock increment, inside one transaction. It
// returns the affected products, their names and a count-bearing
// summary message. Running it twice is safe: the second run only sees
// products still below the threshold.
func (s *CRMService) UpdateLowStockProducts() (*LowStockPayload, error) {
	payload := &LowStockPayload{
		Products:        []models.Product{},
		UpdatedProducts: []string{},
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lowStock []models.Product
		if err := tx.Where("stock < ?", LowStockThreshold).Find(&lowStock).Error; err != nil {
			return fmt.Errorf("failed to query low stock products: %w", err)
		}

		for i := range lowStock {
			lowStock[i].Stock += RestockIncrement
			if err := tx.Save(&lowStock[i]).Error; err != nil {
				return fmt.Errorf("failed to restock product %q: %w", lowStock[i].Name, err)
			}
			payload.Products = append(payload.Products, lowStock[i])
			payload.UpdatedProducts = append(payload.UpdatedProducts, lowStock[i].Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payload.Message = fmt.Sprintf("Updated %d products", len(payload.UpdatedProducts))
	return payload, nil
}

// validateCustomer runs the single-customer checks against current
// store state without writing anything
func (s *CRMService) validateCustomer(db *gorm.DB, input CustomerInput) error {
	var count int64
	if err := db.Model(&models.Customer{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return &ValidationError{Code: CodeDuplicateEmail, Message: "Email already exists"}
	}

	if input.Phone != nil && !utils.ValidatePhone(*input.Phone) {
		return &ValidationError{
			Code:    CodeInvalidPhone,
			Message: "Invalid phone format. Use +1234567890 or 123-456-7890",
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a uniqueness constraint
// failure (works with both PostgreSQL and SQLite)
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
