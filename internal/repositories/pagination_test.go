package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		want     Pagination
		wantSkip int
	}{
		{name: "defaults", page: 0, limit: 0, want: Pagination{Page: 1, Limit: 10}, wantSkip: 0},
		{name: "negative values", page: -3, limit: -1, want: Pagination{Page: 1, Limit: 10}, wantSkip: 0},
		{name: "third page", page: 3, limit: 20, want: Pagination{Page: 3, Limit: 20}, wantSkip: 40},
		{name: "limit clamped", page: 1, limit: 1000, want: Pagination{Page: 1, Limit: 100}, wantSkip: 0},
		{name: "limit at cap", page: 2, limit: 100, want: Pagination{Page: 2, Limit: 100}, wantSkip: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.wantSkip, p.Offset())
		})
	}
}

func TestPagination_Pages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{total: 0, limit: 10, want: 0},
		{total: 1, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 95, limit: 20, want: 5},
	}

	for _, tt := range tests {
		p := NewPagination(1, tt.limit)
		assert.Equal(t, tt.want, p.Pages(tt.total), "total=%d limit=%d", tt.total, tt.limit)
	}
}
