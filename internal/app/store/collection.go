package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/client"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

// Messages returned in Result when no backend message applies
const (
	MsgCancelled  = "request cancelled"
	MsgSuperseded = "superseded by a newer request"
)

// Backend is the subset of the remote client a collection needs
type Backend interface {
	List(ctx context.Context, resource string, out any) (client.Meta, error)
	Get(ctx context.Context, resource, id string, out any) (client.Meta, error)
	Create(ctx context.Context, resource string, body, out any) (client.Meta, error)
	Update(ctx context.Context, resource, id string, body, out any) (client.Meta, error)
	Patch(ctx context.Context, resource, id string, body, out any) (client.Meta, error)
	Delete(ctx context.Context, resource, id string, out any) (client.Meta, error)
}

// Result is what every store action returns. Failures are folded in here;
// actions never return Go errors.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
	// Err is the underlying failure, kept for status mapping. Not serialized.
	Err error `json:"-"`
}

func failure[T any](err error) Result[T] {
	return Result[T]{Success: false, Message: apperrors.Message(err), Err: err}
}

// State is a read snapshot of a collection. Items is shared and must not be modified.
type State[T any] struct {
	Items     []T
	Loading   bool
	Error     string
	Version   uint64
	FetchedAt time.Time
}

type changeKind int

const (
	changeUpsert changeKind = iota
	changeReplace
	changeRemove
)

// change is one applied mutation. seq orders initiation, mark is the last
// issued sequence number at the moment the change was applied.
type change[T any] struct {
	kind   changeKind
	id     string
	record T
	seq    uint64
	mark   uint64
}

// Option configures a Collection
type Option[T models.Entity] func(*Collection[T])

// WithSanitizer rewrites every record before it enters the cache.
func WithSanitizer[T models.Entity](fn func(T) T) Option[T] {
	return func(c *Collection[T]) { c.sanitize = fn }
}

// WithClock overrides time.Now for FetchedAt.
func WithClock[T models.Entity](now func() time.Time) Option[T] {
	return func(c *Collection[T]) { c.now = now }
}

// Collection caches one REST resource. The cache slice is copy-on-write:
// published slices are never modified, so readers can hold them without locks.
type Collection[T models.Entity] struct {
	resource string
	backend  Backend
	validate *validator.Validate
	sanitize func(T) T
	now      func() time.Time
	logger   zerolog.Logger

	mu        sync.RWMutex
	items     []T
	inflight  int
	errMsg    string
	version   uint64
	fetchedAt time.Time

	seq         uint64
	latestFetch uint64
	fetching    int
	journal     []change[T]
	recordSeq   map[string]uint64

	observers []func(dto.CollectionState)
}

// NewCollection creates an empty collection for resource
func NewCollection[T models.Entity](resource string, backend Backend, validate *validator.Validate, lgr zerolog.Logger, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		resource:  resource,
		backend:   backend,
		validate:  validate,
		now:       time.Now,
		logger:    lgr.With().Str("collection", resource).Logger(),
		recordSeq: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resource returns the REST resource name
func (c *Collection[T]) Resource() string { return c.resource }

// Items returns the current cache slice
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// State returns a consistent snapshot
func (c *Collection[T]) State() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State[T]{
		Items:     c.items,
		Loading:   c.inflight > 0,
		Error:     c.errMsg,
		Version:   c.version,
		FetchedAt: c.fetchedAt,
	}
}

// Describe summarises the state for status endpoints
func (c *Collection[T]) Describe() dto.CollectionState {
	st := c.State()
	out := dto.CollectionState{
		Name:    c.resource,
		Count:   len(st.Items),
		Loading: st.Loading,
		Error:   st.Error,
		Version: st.Version,
	}
	if !st.FetchedAt.IsZero() {
		at := st.FetchedAt
		out.FetchedAt = &at
	}
	return out
}

// Find returns the cached record with id
func (c *Collection[T]) Find(id string) (T, bool) {
	for _, item := range c.Items() {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// begin issues a sequence number and marks the collection loading
func (c *Collection[T]) begin(fetch bool) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.inflight++
	c.errMsg = ""
	if fetch {
		c.latestFetch = c.seq
		c.fetching++
	}
	return c.seq
}

// fail ends a request without touching the cache
func (c *Collection[T]) fail(seq uint64, fetch bool, err error) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if fetch {
		c.fetching--
		if c.fetching == 0 {
			c.journal = nil
		}
	}
	switch {
	case errors.Is(err, apperrors.ErrRequestCancelled):
		c.logger.Debug().Uint64("seq", seq).Msg("Request cancelled, response discarded")
		return Result[T]{Success: false, Message: MsgCancelled, Err: err}
	case fetch && seq != c.latestFetch:
		c.logger.Debug().Uint64("seq", seq).Err(err).Msg("Superseded fetch failed, error not recorded")
	default:
		c.errMsg = apperrors.Message(err)
		c.logger.Warn().Uint64("seq", seq).Err(err).Msg("Backend request failed")
	}
	return failure[T](err)
}

// guard maps a context that ended during the call onto a cancellation
func guard(ctx context.Context, err error) error {
	if err == nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRequestCancelled, ctx.Err())
	}
	return err
}

// Fetch replaces the cache with the server list. A fetch that is not the
// most recently initiated one is discarded.
func (c *Collection[T]) Fetch(ctx context.Context) Result[[]T] {
	seq := c.begin(true)

	var records []T
	meta, err := c.backend.List(ctx, c.resource, &records)
	if err = guard(ctx, err); err != nil {
		res := c.fail(seq, true, err)
		return Result[[]T]{Success: false, Message: res.Message, Err: err}
	}

	fresh := make([]T, 0, len(records))
	for _, r := range records {
		fresh = append(fresh, c.clean(r))
	}

	c.mu.Lock()
	c.inflight--
	c.fetching--

	if seq != c.latestFetch {
		if c.fetching == 0 {
			c.journal = nil
		}
		latest := c.latestFetch
		c.mu.Unlock()
		c.logger.Debug().Uint64("seq", seq).Uint64("latest", latest).Msg("Stale fetch discarded")
		return Result[[]T]{Success: true, Message: MsgSuperseded, Data: &fresh}
	}

	items := fresh
	for _, ch := range c.journal {
		if ch.mark >= seq {
			items = apply(items, ch)
		}
	}
	c.journal = nil
	c.items = items
	c.version++
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.publish()
	return Result[[]T]{Success: true, Message: meta.Message, Data: &items}
}

// FetchOne loads a single record and upserts it
func (c *Collection[T]) FetchOne(ctx context.Context, id string) Result[T] {
	if id == "" {
		return failure[T](apperrors.NewBadRequestError("id is required"))
	}
	seq := c.begin(false)

	var record T
	meta, err := c.backend.Get(ctx, c.resource, id, &record)
	if err = guard(ctx, err); err != nil {
		return c.fail(seq, false, err)
	}
	if !meta.HasData {
		return c.fail(seq, false, apperrors.NewResourceNotFoundError(fmt.Sprintf("%s %s not found", c.resource, id)))
	}

	record = c.clean(record)
	c.commit(change[T]{kind: changeUpsert, id: record.GetID(), record: record, seq: seq})
	return Result[T]{Success: true, Message: meta.Message, Data: &record}
}

// Create posts payload and appends the returned record. When the server
// confirms without returning the record the collection is re-fetched.
func (c *Collection[T]) Create(ctx context.Context, payload T) Result[T] {
	if err := c.check(payload); err != nil {
		return failure[T](err)
	}
	seq := c.begin(false)

	var record T
	meta, err := c.backend.Create(ctx, c.resource, payload, &record)
	if err = guard(ctx, err); err != nil {
		return c.fail(seq, false, err)
	}
	if !meta.HasData || record.GetID() == "" {
		c.settle()
		c.refetch(ctx)
		return Result[T]{Success: true, Message: meta.Message}
	}

	record = c.clean(record)
	c.commit(change[T]{kind: changeUpsert, id: record.GetID(), record: record, seq: seq})
	return Result[T]{Success: true, Message: meta.Message, Data: &record}
}

// Update sends a full replacement and swaps the cached entry by id
func (c *Collection[T]) Update(ctx context.Context, id string, payload T) Result[T] {
	if id == "" {
		return failure[T](apperrors.NewBadRequestError("id is required"))
	}
	if err := c.check(payload); err != nil {
		return failure[T](err)
	}
	return c.write(ctx, id, func(out *T) (client.Meta, error) {
		return c.backend.Update(ctx, c.resource, id, payload, out)
	})
}

// Patch sends a partial update
func (c *Collection[T]) Patch(ctx context.Context, id string, fields map[string]any) Result[T] {
	if id == "" {
		return failure[T](apperrors.NewBadRequestError("id is required"))
	}
	if len(fields) == 0 {
		return failure[T](apperrors.NewBadRequestError("nothing to update"))
	}
	return c.write(ctx, id, func(out *T) (client.Meta, error) {
		return c.backend.Patch(ctx, c.resource, id, fields, out)
	})
}

func (c *Collection[T]) write(ctx context.Context, id string, send func(out *T) (client.Meta, error)) Result[T] {
	seq := c.begin(false)

	var record T
	meta, err := send(&record)
	if err = guard(ctx, err); err != nil {
		return c.fail(seq, false, err)
	}
	if !meta.HasData || record.GetID() == "" {
		c.settle()
		c.refetch(ctx)
		return Result[T]{Success: true, Message: meta.Message}
	}

	record = c.clean(record)
	c.commit(change[T]{kind: changeReplace, id: id, record: record, seq: seq})
	return Result[T]{Success: true, Message: meta.Message, Data: &record}
}

// Delete removes the record on the server, then from the cache
func (c *Collection[T]) Delete(ctx context.Context, id string) Result[T] {
	if id == "" {
		return failure[T](apperrors.NewBadRequestError("id is required"))
	}
	seq := c.begin(false)

	meta, err := c.backend.Delete(ctx, c.resource, id, nil)
	if err = guard(ctx, err); err != nil {
		return c.fail(seq, false, err)
	}

	c.commit(change[T]{kind: changeRemove, id: id, seq: seq})
	return Result[T]{Success: true, Message: meta.Message}
}

func (c *Collection[T]) refetch(ctx context.Context) {
	if res := c.Fetch(ctx); !res.Success {
		c.logger.Warn().Str("message", res.Message).Msg("Re-fetch after mutation failed")
	}
}

// settle ends a request that changed nothing locally
func (c *Collection[T]) settle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
}

// commit applies a successful mutation unless a newer write to the same
// record already landed. While a fetch is in flight the change is journaled
// so it survives the snapshot replacing the cache.
func (c *Collection[T]) commit(ch change[T]) {
	c.mu.Lock()
	c.inflight--

	if last, ok := c.recordSeq[ch.id]; ok && last > ch.seq {
		c.mu.Unlock()
		c.logger.Debug().Str("id", ch.id).Uint64("seq", ch.seq).Uint64("newer", last).Msg("Stale write discarded")
		return
	}
	c.recordSeq[ch.id] = ch.seq

	ch.mark = c.seq
	c.items = apply(c.items, ch)
	c.version++
	if c.fetching > 0 {
		c.journal = append(c.journal, ch)
	}
	c.mu.Unlock()

	c.publish()
}

// Watch registers fn to run after every change to the cached items. fn is
// called without the collection lock held.
func (c *Collection[T]) Watch(fn func(dto.CollectionState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Collection[T]) publish() {
	c.mu.RLock()
	observers := c.observers
	c.mu.RUnlock()
	if len(observers) == 0 {
		return
	}

	state := c.Describe()
	for _, fn := range observers {
		fn(state)
	}
}

func (c *Collection[T]) clean(record T) T {
	if c.sanitize != nil {
		return c.sanitize(record)
	}
	return record
}

// check runs the struct validation tags before any network I/O
func (c *Collection[T]) check(payload T) error {
	if c.validate == nil {
		return nil
	}
	if err := c.validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, dto.FormatFieldError(fieldErrs[0])).
				WithDetails(map[string]interface{}{"field": fieldErrs[0].Field()})
		}
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

// apply returns a new slice with ch applied; items itself is never modified.
func apply[T models.Entity](items []T, ch change[T]) []T {
	switch ch.kind {
	case changeUpsert:
		out := make([]T, 0, len(items)+1)
		found := false
		for _, item := range items {
			if item.GetID() == ch.id {
				out = append(out, ch.record)
				found = true
				continue
			}
			out = append(out, item)
		}
		if !found {
			out = append(out, ch.record)
		}
		return out
	case changeReplace:
		out := make([]T, len(items))
		for i, item := range items {
			if item.GetID() == ch.id {
				out[i] = ch.record
				continue
			}
			out[i] = item
		}
		return out
	case changeRemove:
		out := make([]T, 0, len(items))
		for _, item := range items {
			if item.GetID() != ch.id {
				out = append(out, item)
			}
		}
		return out
	}
	return items
}

// Refresh re-fetches the collection and reports a failure as an error
func (c *Collection[T]) Refresh(ctx context.Context) error {
	res := c.Fetch(ctx)
	if !res.Success {
		if res.Err != nil {
			return fmt.Errorf("%s: %w", c.resource, res.Err)
		}
		return fmt.Errorf("%s: %s", c.resource, res.Message)
	}
	return nil
}
