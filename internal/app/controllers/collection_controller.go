package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/store"
	"github.com/yigit/campusdesk/internal/app/views"
	"github.com/yigit/campusdesk/internal/middleware"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
)

// reserved query parameters that are never field filters
var reservedParams = map[string]struct{}{
	"search": {}, "sort": {}, "order": {}, "page": {}, "size": {}, "token": {},
}

// CollectionController serves list/get/create/update/delete for one cached
// collection of the calling session
type CollectionController[T models.Entity] struct {
	sessions Sessions
	pick     func(*store.Stores) *store.Collection[T]
	schema   views.Schema[T]
	locale   string

	create func(s *store.Stores, ctx context.Context, payload T) store.Result[T]
	update func(s *store.Stores, ctx context.Context, id string, payload T) store.Result[T]
	remove func(s *store.Stores, ctx context.Context, id string) store.Result[T]
}

// CollectionOption overrides a store action with a domain wrapper
type CollectionOption[T models.Entity] func(*CollectionController[T])

// WithCreate routes creation through fn
func WithCreate[T models.Entity](fn func(s *store.Stores, ctx context.Context, payload T) store.Result[T]) CollectionOption[T] {
	return func(cc *CollectionController[T]) { cc.create = fn }
}

// WithUpdate routes updates through fn
func WithUpdate[T models.Entity](fn func(s *store.Stores, ctx context.Context, id string, payload T) store.Result[T]) CollectionOption[T] {
	return func(cc *CollectionController[T]) { cc.update = fn }
}

// WithDelete routes deletion through fn
func WithDelete[T models.Entity](fn func(s *store.Stores, ctx context.Context, id string) store.Result[T]) CollectionOption[T] {
	return func(cc *CollectionController[T]) { cc.remove = fn }
}

// NewCollectionController creates a controller over the collection pick
// selects from each session's stores
func NewCollectionController[T models.Entity](sessions Sessions, pick func(*store.Stores) *store.Collection[T], schema views.Schema[T], locale string, opts ...CollectionOption[T]) *CollectionController[T] {
	cc := &CollectionController[T]{
		sessions: sessions,
		pick:     pick,
		schema:   schema,
		locale:   locale,
		create: func(s *store.Stores, ctx context.Context, payload T) store.Result[T] {
			return pick(s).Create(ctx, payload)
		},
		update: func(s *store.Stores, ctx context.Context, id string, payload T) store.Result[T] {
			return pick(s).Update(ctx, id, payload)
		},
		remove: func(s *store.Stores, ctx context.Context, id string) store.Result[T] {
			return pick(s).Delete(ctx, id)
		},
	}
	for _, opt := range opts {
		opt(cc)
	}
	return cc
}

// List returns a filtered, sorted and paginated view of the collection
// @Summary List records
// @Description Derived list over the cached collection. Any schema field can be used as an equality filter (?status=active, ?courseId=<id>).
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive text search"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number (1-based)"
// @Param size query string false "Page size, 0 or all disables paging"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Backend unavailable"
// @Router /{collection} [get]
func (cc *CollectionController[T]) List(ctx *gin.Context) {
	coll := cc.pick(sessionStores(ctx, cc.sessions))
	if err := hydrate(ctx.Request.Context(), coll); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	q := views.Query{
		Criteria: views.Criteria{
			Search: ctx.Query("search"),
			Equals: fieldFilters(ctx, cc.schema),
		},
		SortKey: ctx.Query("sort"),
		Dir:     views.ParseDirection(ctx.Query("order")),
		Locale:  cc.locale,
		Page:    page,
		Size:    size,
	}

	items, info := views.List(coll.Items(), cc.schema, q)
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: info,
	}, ""))
}

// Get returns one record, from the cache when present
// @Summary Get a record
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} dto.StructuredResponse
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /{collection}/{id} [get]
func (cc *CollectionController[T]) Get(ctx *gin.Context) {
	coll := cc.pick(sessionStores(ctx, cc.sessions))
	id := ctx.Param("id")
	if record, ok := coll.Find(id); ok {
		ctx.JSON(http.StatusOK, dto.NewStructuredResponse(record, ""))
		return
	}
	respond(ctx, http.StatusOK, coll.FetchOne(ctx.Request.Context(), id))
}

// Create posts a new record to the backend and caches it
// @Summary Create a record
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.StructuredResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Conflict"
// @Router /{collection} [post]
func (cc *CollectionController[T]) Create(ctx *gin.Context) {
	var payload T
	if !middleware.BindJSON(ctx, &payload, nil) {
		return
	}
	respond(ctx, http.StatusCreated, cc.create(sessionStores(ctx, cc.sessions), ctx.Request.Context(), payload))
}

// Update replaces a record
// @Summary Update a record
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} dto.StructuredResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /{collection}/{id} [put]
func (cc *CollectionController[T]) Update(ctx *gin.Context) {
	var payload T
	if !middleware.BindJSON(ctx, &payload, nil) {
		return
	}
	respond(ctx, http.StatusOK, cc.update(sessionStores(ctx, cc.sessions), ctx.Request.Context(), ctx.Param("id"), payload))
}

// Delete removes a record
// @Summary Delete a record
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} dto.StructuredResponse
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /{collection}/{id} [delete]
func (cc *CollectionController[T]) Delete(ctx *gin.Context) {
	respond(ctx, http.StatusOK, cc.remove(sessionStores(ctx, cc.sessions), ctx.Request.Context(), ctx.Param("id")))
}

// fieldFilters collects ?field=value pairs naming schema fields
func fieldFilters[T any](ctx *gin.Context, schema views.Schema[T]) map[string]string {
	filters := make(map[string]string)
	for key, values := range ctx.Request.URL.Query() {
		if _, reserved := reservedParams[key]; reserved || len(values) == 0 {
			continue
		}
		if schema.Has(key) && strings.TrimSpace(values[0]) != "" {
			filters[key] = values[0]
		}
	}
	return filters
}

// hydrate fetches a collection that has never been loaded
func hydrate[T models.Entity](ctx context.Context, coll *store.Collection[T]) error {
	if !coll.State().FetchedAt.IsZero() {
		return nil
	}
	return coll.Refresh(ctx)
}

// respond writes a store result as an envelope
func respond[T any](ctx *gin.Context, status int, res store.Result[T]) {
	if !res.Success {
		middleware.HandleAPIError(ctx, res.Err)
		return
	}
	var data interface{}
	if res.Data != nil {
		data = res.Data
	}
	ctx.JSON(status, dto.NewStructuredResponse(data, res.Message))
}
