package utils

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorResponse is a struct for error response
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// IsUniqueViolation reports whether err comes from a unique index, so a
// double booking surfaces as a conflict instead of a server error. The
// string checks cover drivers that don't translate to
// gorm.ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
