package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avery-lane/storefront-crm-api/config"
	"github.com/avery-lane/storefront-crm-api/models"
	"github.com/avery-lane/storefront-crm-api/services"
)

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone"`
}

// BulkCreateCustomersRequest represents the request body for bulk customer creation
type BulkCreateCustomersRequest struct {
	Customers []CreateCustomerRequest `json:"customers" binding:"required,min=1"`
}

// CreateCustomer handles POST /api/v1/customers - creates a new customer
func CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	crm := services.NewCRMService(config.GetDB())
	payload, err := crm.CreateCustomer(services.CustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    payload.Customer,
		"message": payload.Message,
	})
}

// BulkCreateCustomers handles POST /api/v1/customers/bulk - creates
// multiple customers, returning created rows and per-row errors.
// Partial success is the designed outcome, so the response is always
// 200 when the batch itself commits.
func BulkCreateCustomers(c *gin.Context) {
	var req BulkCreateCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	inputs := make([]services.CustomerInput, 0, len(req.Customers))
	for _, r := range req.Customers {
		inputs = append(inputs, services.CustomerInput{
			Name:  r.Name,
			Email: r.Email,
			Phone: r.Phone,
		})
	}

	crm := services.NewCRMService(config.GetDB())
	payload, err := crm.BulkCreateCustomers(inputs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"customers": payload.Customers,
			"errors":    payload.Errors,
		},
	})
}

// ListCustomers handles GET /api/v1/customers - lists customers with
// optional filters: name/email contains, created_at range, phone prefix
func ListCustomers(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Customer{})

	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if email := c.Query("email"); email != "" {
		query = query.Where("email LIKE ?", "%"+email+"%")
	}
	if v, ok := parseTimeParam(c, "created_at_gte"); ok {
		query = query.Where("created_at >= ?", v)
	}
	if v, ok := parseTimeParam(c, "created_at_lte"); ok {
		query = query.Where("created_at <= ?", v)
	}
	if prefix := c.Query("phone_pattern"); prefix != "" {
		query = query.Where("phone LIKE ?", prefix+"%")
	}

	var customers []models.Customer
	if err := query.Order("created_at ASC").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}
