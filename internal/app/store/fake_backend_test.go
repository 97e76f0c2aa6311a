package store

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/client"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/validation"
)

type reply struct {
	data any
	meta client.Meta
	err  error
}

func ok(data any) reply {
	return reply{data: data, meta: client.Meta{Status: http.StatusOK, Success: true, HasData: data != nil}}
}

func okMessage(message string) reply {
	return reply{meta: client.Meta{Status: http.StatusOK, Success: true, Message: message}}
}

func remoteFailure(status int, message string) reply {
	return reply{
		meta: client.Meta{Status: status, Message: message},
		err:  apperrors.NewRemoteError(status, message),
	}
}

// fakeBackend answers with per-operation hooks and counts calls
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	list   func(ctx context.Context, resource string) reply
	get    func(ctx context.Context, resource, id string) reply
	create func(ctx context.Context, resource string, body any) reply
	update func(ctx context.Context, resource, id string, body any) reply
	patch  func(ctx context.Context, resource, id string, body any) reply
	del    func(ctx context.Context, resource, id string) reply
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) finish(r reply, out any) (client.Meta, error) {
	if r.err != nil {
		return r.meta, r.err
	}
	if r.data != nil && out != nil {
		raw, err := json.Marshal(r.data)
		if err != nil {
			return client.Meta{}, err
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return client.Meta{}, err
		}
	}
	return r.meta, nil
}

func (f *fakeBackend) List(ctx context.Context, resource string, out any) (client.Meta, error) {
	f.record("list")
	if f.list == nil {
		return f.finish(ok([]any{}), out)
	}
	return f.finish(f.list(ctx, resource), out)
}

func (f *fakeBackend) Get(ctx context.Context, resource, id string, out any) (client.Meta, error) {
	f.record("get")
	return f.finish(f.get(ctx, resource, id), out)
}

func (f *fakeBackend) Create(ctx context.Context, resource string, body, out any) (client.Meta, error) {
	f.record("create")
	return f.finish(f.create(ctx, resource, body), out)
}

func (f *fakeBackend) Update(ctx context.Context, resource, id string, body, out any) (client.Meta, error) {
	f.record("update")
	return f.finish(f.update(ctx, resource, id, body), out)
}

func (f *fakeBackend) Patch(ctx context.Context, resource, id string, body, out any) (client.Meta, error) {
	f.record("patch")
	return f.finish(f.patch(ctx, resource, id, body), out)
}

func (f *fakeBackend) Delete(ctx context.Context, resource, id string, out any) (client.Meta, error) {
	f.record("delete")
	return f.finish(f.del(ctx, resource, id), out)
}

func testValidator() *validator.Validate {
	return validation.New(models.RefTypes...)
}

func newCourses(b Backend) *Collection[models.Course] {
	return NewCollection[models.Course](ResourceCourses, b, testValidator(), zerolog.Nop())
}

func course(id, name string) models.Course {
	return models.Course{ID: id, CourseCode: "C-" + id, CourseName: name}
}
