package helpers

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateSliceIndices(t *testing.T) {
	tests := []struct {
		name               string
		page, size, total  int
		wantStart, wantEnd int
	}{
		{name: "first page", page: 1, size: 10, total: 25, wantStart: 0, wantEnd: 10},
		{name: "last partial page", page: 3, size: 10, total: 25, wantStart: 20, wantEnd: 25},
		{name: "past the end", page: 5, size: 10, total: 25, wantStart: 25, wantEnd: 25},
		{name: "paging disabled", page: 2, size: 0, total: 25, wantStart: 0, wantEnd: 25},
		{name: "page below one", page: 0, size: 10, total: 5, wantStart: 0, wantEnd: 5},
		{name: "huge page", page: math.MaxInt/2 + 1, size: 4, total: 3, wantStart: 3, wantEnd: 3},
		{name: "exact last page", page: 3, size: 10, total: 30, wantStart: 20, wantEnd: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateSliceIndices(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 9, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 3, info.CurrentPage)
	assert.Equal(t, 25, info.TotalItems)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query              string
		wantPage, wantSize int
	}{
		{query: "", wantPage: 1, wantSize: DefaultPageSize},
		{query: "?page=3&size=25", wantPage: 3, wantSize: 25},
		{query: "?page=-1&size=1000", wantPage: 1, wantSize: DefaultPageSize},
		{query: "?size=all", wantPage: 1, wantSize: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/courses"+tt.query, nil)

			page, size := ParsePaginationParams(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}
