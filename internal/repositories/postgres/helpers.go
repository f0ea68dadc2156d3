package postgres

import (
	"strings"

	"gorm.io/gorm"
)

// SharedHelpers holds query building used by every repository.
type SharedHelpers struct{}

func NewSharedHelpers() *SharedHelpers {
	return &SharedHelpers{}
}

// ApplyPaginationAndSort orders by a whitelisted column and applies
// limit/offset. A zero limit leaves the query unpaginated.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int, allowed map[string]string, fallback string) *gorm.DB {
	column, ok := allowed[sortBy]
	if !ok {
		column = fallback
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	query = query.Order(column + " " + direction)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
