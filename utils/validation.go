package utils

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// phonePattern matches formats like +1234567890 or 123-456-7890
var phonePattern = regexp.MustCompile(`^(\+\d{10,15}|\d{3}-\d{3}-\d{4})$`)

// ValidatePhone checks a phone number against the two accepted shapes:
// an international form (+ followed by 10-15 digits) or a local
// 3-3-4 hyphenated form. Empty phone numbers are valid (phone is
// optional).
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// ValidatePrice checks that a product price is strictly positive
func ValidatePrice(price decimal.Decimal) bool {
	return price.IsPositive()
}

// ValidateStock checks that a stock level is non-negative
func ValidateStock(stock int) bool {
	return stock >= 0
}
