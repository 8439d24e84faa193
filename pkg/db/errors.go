package db

import (
	"errors"
	"strings"
)

// IsUniqueViolation reports whether the error chain contains a unique
// constraint violation. When constraintName is provided, the violation must
// reference that constraint or column.
func IsUniqueViolation(err error, constraintName string) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		msg := err.Error()
		if !strings.Contains(msg, "duplicate key value") &&
			!strings.Contains(msg, "UNIQUE constraint failed") {
			continue
		}
		if constraintName == "" || strings.Contains(msg, constraintName) {
			return true
		}
	}
	return false
}
