package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avery-lane/storefront-crm-api/config"
	"github.com/avery-lane/storefront-crm-api/models"
	"github.com/avery-lane/storefront-crm-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID uint       `json:"customer_id" binding:"required"`
	ProductIDs []uint     `json:"product_ids" binding:"required"`
	OrderDate  *time.Time `json:"order_date"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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
	payload, err := crm.CreateOrder(services.OrderInput{
		CustomerID: req.CustomerID,
		ProductIDs: req.ProductIDs,
		OrderDate:  req.OrderDate,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    payload.Order,
	})
}

// ListOrders handles GET /api/v1/orders - lists orders with optional
// filters: total_amount range, order_date range, customer_name
// contains, product_name contains, product_id
func ListOrders(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Order{}).
		Preload("Customer").
		Preload("Products")

	if v, ok := parseDecimalParam(c, "total_amount_gte"); ok {
		query = query.Where("orders.total_amount >= ?", v)
	}
	if v, ok := parseDecimalParam(c, "total_amount_lte"); ok {
		query = query.Where("orders.total_amount <= ?", v)
	}
	if v, ok := parseTimeParam(c, "order_date_gte"); ok {
		query = query.Where("orders.order_date >= ?", v)
	}
	if v, ok := parseTimeParam(c, "order_date_lte"); ok {
		query = query.Where("orders.order_date <= ?", v)
	}
	if name := c.Query("customer_name"); name != "" {
		query = query.
			Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("customers.name LIKE ?", "%"+name+"%")
	}
	productName := c.Query("product_name")
	productID, hasProductID := parseUintParam(c, "product_id")
	if productName != "" || hasProductID {
		// Join through the order_products table once for either filter
		query = query.
			Joins("JOIN order_products ON order_products.order_id = orders.id").
			Joins("JOIN products ON products.id = order_products.product_id").
			Distinct("orders.*")
		if productName != "" {
			query = query.Where("products.name LIKE ?", "%"+productName+"%")
		}
		if hasProductID {
			query = query.Where("products.id = ?", productID)
		}
	}

	var orders []models.Order
	if err := query.Order("orders.order_date ASC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}
