package repository

import (
	"errors"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// isConstraintViolation reports whether err is a uniqueness or foreign-key
// violation from either supported driver. These signal a data-quality
// problem in the source (for example one email attached to two names) and
// must surface as such rather than as a generic store failure.
func isConstraintViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		// Class 23 covers integrity constraint violations.
		return pe.Code.Class() == "23"
	}
	return false
}
