package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// SearchScope returns a GORM scope matching term against any of columns, case-insensitively.
// LOWER + LIKE keeps the query portable between postgres and sqlite.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// ActiveScope restricts a query to rows flagged active
func ActiveScope(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

// DateRangeScope filters column to [start, end]; nil bounds are open
func DateRangeScope(column string, start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where(column+" >= ?", *start)
		}
		if end != nil {
			db = db.Where(column+" <= ?", *end)
		}
		return db
	}
}
