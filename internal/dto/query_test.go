package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQueryNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageQuery
		page int
		lim  int
	}{
		{"defaults", PageQuery{}, 1, 10},
		{"negative", PageQuery{Page: -3, Limit: -1}, 1, 10},
		{"capped", PageQuery{Page: 4, Limit: 1000}, 4, 100},
		{"kept", PageQuery{Page: 2, Limit: 25}, 2, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Normalize()
			assert.Equal(t, tt.page, q.Page)
			assert.Equal(t, tt.lim, q.Limit)
		})
	}
}

func TestPageQueryDescending(t *testing.T) {
	assert.True(t, PageQuery{SortType: "desc"}.Descending())
	assert.False(t, PageQuery{SortType: "asc"}.Descending())
	assert.False(t, PageQuery{}.Descending())
}
