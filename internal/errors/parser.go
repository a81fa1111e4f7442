package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a classified storage error
type ErrorInfo struct {
	Code    string
	Message string
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// gorm translates driver errors into ErrDuplicatedKey when TranslateError is
// on; the string checks cover drivers or paths where translation misses
// (postgres 23505, sqlite "UNIQUE constraint failed").
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique constraint failed")
}

// ParseError classifies a storage error into a code and a user-safe message.
// Sensitive driver detail stays out of the response.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsUniqueViolation(err) {
		return parseUniqueViolation(err.Error())
	}

	errLower := strings.ToLower(err.Error())

	// Foreign key violation (postgres 23503)
	if strings.Contains(errLower, "foreign key constraint") {
		if strings.Contains(errLower, "still referenced") {
			return ErrorInfo{Code: ResourceConflict, Message: "Linked records exist, cannot delete"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record does not exist"}
	}

	// Not-null violation (postgres 23502)
	if strings.Contains(errLower, "null value") && strings.Contains(errLower, "not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// Connectivity problems surface as a generic internal error
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: InternalDatabaseError, Message: "Storage is temporarily unavailable, please retry"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred, please try again later"}
}

func parseUniqueViolation(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: AuthEmailExists, Message: "Email is already in use"}
	}
	if strings.Contains(errLower, "username") {
		return ErrorInfo{Code: AuthUsernameExists, Message: "Username is already in use"}
	}
	if strings.Contains(errLower, "wishlist_items") {
		return ErrorInfo{Code: WishlistItemDuplicate, Message: "Product is already in the wishlist"}
	}

	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
}

func notFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "product"):
		return "Product not found"
	case strings.Contains(context, "category"):
		return "Category not found"
	case strings.Contains(context, "address"):
		return "Address not found"
	case strings.Contains(context, "cart"):
		return "Cart item not found"
	case strings.Contains(context, "wishlist"):
		return "Wishlist not found"
	case strings.Contains(context, "user"):
		return "User not found"
	default:
		return "Requested record not found"
	}
}
