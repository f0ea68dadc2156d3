package repositories

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is a normalized page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination normalizes raw page/limit values: page below 1 becomes 1,
// limit below 1 becomes the default and limit above MaxLimit is clamped.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages is ceil(total/limit).
func (p Pagination) Pages(total int64) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
