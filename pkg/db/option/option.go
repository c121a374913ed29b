package option

import (
	"time"

	"github.com/smallbiznis/quotient/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption customizes a gorm query built by the generic store.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type queryOptionFunc func(db *gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithPreload eagerly loads the named association.
func WithPreload(association string, args ...interface{}) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Preload(association, args...)
	})
}

// WithOrderBy applies an ORDER BY clause.
func WithOrderBy(expr string) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(expr)
	})
}

// WithLimit caps the result set size.
func WithLimit(limit int) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit)
	})
}

// ApplyPagination decodes the cursor token and applies keyset filtering for
// result sets ordered by created_at desc, id desc. One extra row is fetched
// so callers can detect whether a next page exists.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if page.PageSize > 0 {
			db = db.Limit(page.PageSize + 1)
		}
		if page.PageToken == "" {
			return db
		}
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil || cursor.CreatedAt == "" || cursor.ID == "" {
			return db
		}
		// Bind a time.Time so every dialect compares timestamps, not strings.
		ts, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return db
		}
		return db.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			ts, ts, cursor.ID,
		)
	})
}
