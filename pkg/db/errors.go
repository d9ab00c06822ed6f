package db

import "strings"

// IsUniqueViolation reports whether err looks like a unique constraint
// violation. With a constraintName it matches on the constraint (or table)
// text in the message, which covers both postgres constraint names and the
// sqlite "UNIQUE constraint failed: table.column" form the tests run against.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
