package sqlite

import "strings"

func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
