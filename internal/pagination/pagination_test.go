package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{"zero values", PageRequest{}, 1, DefaultPageSize},
		{"kept", PageRequest{Page: 3, PageSize: 10}, 3, 10},
		{"clamped", PageRequest{Page: -2, PageSize: 1000}, 1, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Normalize()
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantSize, req.PageSize)
		})
	}
}

func TestNewPage(t *testing.T) {
	req := PageRequest{Page: 2, PageSize: 2}

	p := NewPage([]int{3, 4}, req, 5)
	assert.True(t, p.HasMore)
	assert.Equal(t, int64(5), p.Total)

	last := NewPage([]int{5}, PageRequest{Page: 3, PageSize: 2}, 5)
	assert.False(t, last.HasMore)

	empty := NewPage[int](nil, req, 0)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasMore)
}
