package views

import (
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
)

// Paginate returns one page of items. size <= 0 returns everything as a single page.
func Paginate[T any](items []T, page, size int) ([]T, dto.PaginationInfo) {
	total := len(items)
	if size <= 0 {
		out := make([]T, total)
		copy(out, items)
		return out, dto.PaginationInfo{CurrentPage: 1, TotalPages: 1, PageSize: total, TotalItems: total}
	}

	start, end := helpers.CalculateSliceIndices(page, size, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, helpers.NewPaginationInfo(total, page, size)
}

// Query is a full list request: filter, then sort, then paginate
type Query struct {
	Criteria
	SortKey string
	Dir     Direction
	Locale  string
	Page    int
	Size    int
}

// List applies q to items
func List[T any](items []T, schema Schema[T], q Query) ([]T, dto.PaginationInfo) {
	filtered := Filter(items, schema, q.Criteria)
	key := q.SortKey
	if key == "" {
		key = schema.DefaultSort
	}
	sorted := Sort(filtered, schema, key, q.Dir, q.Locale)
	return Paginate(sorted, q.Page, q.Size)
}
