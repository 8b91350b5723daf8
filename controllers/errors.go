package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avery-lane/storefront-crm-api/services"
)

// handleServiceError maps the service error taxonomy onto the HTTP
// envelope: validation errors become 400 (409 for duplicate email),
// missing references become 404, anything else is a store failure.
func handleServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		status := http.StatusBadRequest
		if vErr.Code == services.CodeDuplicateEmail {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    vErr.Code,
				"message": vErr.Message,
			},
		})
		return
	}

	var nfErr *services.NotFoundError
	if errors.As(err, &nfErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    strings.ToUpper(nfErr.Entity) + "_NOT_FOUND",
				"message": nfErr.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Operation failed",
		},
	})
}
