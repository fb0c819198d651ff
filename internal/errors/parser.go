package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an API error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts database and infrastructure errors into user-facing
// codes. Sensitive detail stays out of the response; the raw error is for
// the logs.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Unique constraint violation (postgres 23505, sqlite "UNIQUE constraint failed")
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced record does not exist",
		}
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStr, "null value") && strings.Contains(errStr, "not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// Check constraint violation (23514)
	if strings.Contains(errStr, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "A value is out of its allowed range",
		}
	}

	// Network / connection errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "A backing service is unreachable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	if strings.Contains(errStr, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already registered",
		}
	}

	if strings.Contains(errStr, "library_entries") {
		return ErrorInfo{
			Code:    CommerceAlreadyOwned,
			Message: "This game is already in the library",
		}
	}

	if strings.Contains(errStr, "cart_items") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This item is already in the cart",
		}
	}

	if strings.Contains(errStr, "ratings") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This game has already been rated by this user",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The record already exists",
	}
}

// ParseAndRespond parses an error and writes the standard error payload.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "game"):
		return "Game not found"
	case strings.Contains(contextLower, "bundle"):
		return "Bundle not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "The requested record was not found"
}
