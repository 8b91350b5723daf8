package services

import "fmt"

// ValidationError indicates that a mutation input failed a business
// rule before any write happened. Code is a stable machine-readable
// identifier for the HTTP boundary.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError indicates that a referenced entity does not exist
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%d' does not exist", e.Entity, e.ID)
}

// Validation error codes used across the mutation pipeline
const (
	CodeDuplicateEmail = "DUPLICATE_EMAIL"
	CodeInvalidPhone   = "INVALID_PHONE"
	CodeInvalidPrice   = "INVALID_PRICE"
	CodeInvalidStock   = "INVALID_STOCK"
	CodeNoProducts     = "NO_PRODUCTS"
)
