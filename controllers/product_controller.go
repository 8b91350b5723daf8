package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/avery-lane/storefront-crm-api/config"
	"github.com/avery-lane/storefront-crm-api/models"
	"github.com/avery-lane/storefront-crm-api/services"
)

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Stock *int            `json:"stock"`
}

// CreateProduct handles POST /api/v1/products - creates a new product
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
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
	payload, err := crm.CreateProduct(services.ProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    payload.Product,
	})
}

// RestockProducts handles POST /api/v1/products/restock - raises every
// product below the low-stock threshold by the restock increment. This
// is the same operation the scheduled low-stock job runs in-process.
func RestockProducts(c *gin.Context) {
	crm := services.NewCRMService(config.GetDB())
	payload, err := crm.UpdateLowStockProducts()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"updated_products": payload.UpdatedProducts,
			"message":          payload.Message,
		},
	})
}

// ListProducts handles GET /api/v1/products - lists products with
// optional filters: name contains, price range, stock range/exact,
// low_stock threshold, created_at range
func ListProducts(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Product{})

	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if v, ok := parseDecimalParam(c, "price_gte"); ok {
		query = query.Where("price >= ?", v)
	}
	if v, ok := parseDecimalParam(c, "price_lte"); ok {
		query = query.Where("price <= ?", v)
	}
	if v, ok := parseIntParam(c, "stock"); ok {
		query = query.Where("stock = ?", v)
	}
	if v, ok := parseIntParam(c, "stock_gte"); ok {
		query = query.Where("stock >= ?", v)
	}
	if v, ok := parseIntParam(c, "stock_lte"); ok {
		query = query.Where("stock <= ?", v)
	}
	if v, ok := parseIntParam(c, "low_stock"); ok {
		query = query.Where("stock < ?", v)
	}
	if v, ok := parseTimeParam(c, "created_at_gte"); ok {
		query = query.Where("created_at >= ?", v)
	}
	if v, ok := parseTimeParam(c, "created_at_lte"); ok {
		query = query.Where("created_at <= ?", v)
	}

	var products []models.Product
	if err := query.Order("created_at ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}
