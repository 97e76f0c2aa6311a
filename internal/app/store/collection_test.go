package store

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

func ids[T models.Entity](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.GetID())
	}
	return out
}

func TestFetch_ReplacesCache(t *testing.T) {
	b := newFakeBackend()
	b.list = func(context.Context, string) reply {
		return ok([]models.Course{course("c1", "Computer Science"), course("c2", "Business")})
	}
	courses := newCourses(b)

	res := courses.Fetch(context.Background())
	require.True(t, res.Success)
	require.NotNil(t, res.Data)
	assert.Len(t, *res.Data, 2)

	st := courses.State()
	assert.Equal(t, []string{"c1", "c2"}, ids(st.Items))
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, uint64(1), st.Version)
	assert.False(t, st.FetchedAt.IsZero())
}

func TestFetch_FailureKeepsCacheAndRecordsError(t *testing.T) {
	b := newFakeBackend()
	b.list = func(context.Context, string) reply { return ok([]models.Course{course("c1", "Computer Science")}) }
	courses := newCourses(b)
	require.True(t, courses.Fetch(context.Background()).Success)
	before := courses.Items()

	b.list = func(context.Context, string) reply { return reply{err: apperrors.ErrNetwork} }
	res := courses.Fetch(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "Unable to reach the server. Please try again.", res.Message)
	assert.Same(t, &before[0], &courses.Items()[0])
	assert.Equal(t, res.Message, courses.State().Error)
	assert.False(t, courses.State().Loading)
}

func TestCreate_ServerFailureLeavesCacheIdentical(t *testing.T) {
	b := newFakeBackend()
	b.list = func(context.Context, string) reply { return ok([]models.Course{course("c1", "Computer Science")}) }
	b.create = func(context.Context, string, any) reply { return remoteFailure(http.StatusConflict, "dup") }
	courses := newCourses(b)
	require.True(t, courses.Fetch(context.Background()).Success)

	before := courses.State()
	res := courses.Create(context.Background(), course("", "Computer Science"))

	assert.False(t, res.Success)
	assert.Equal(t, "dup", res.Message)
	assert.Nil(t, res.Data)

	after := courses.State()
	require.Len(t, after.Items, len(before.Items))
	assert.Same(t, &before.Items[0], &after.Items[0])
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, "dup", after.Error)
}

func TestCreate_AppendsServerRecord(t *testing.T) {
	b := newFakeBackend()
	b.list = func(context.Context, string) reply { return ok([]models.Course{course("c1", "Computer Science")}) }
	b.create = func(_ context.Context, _ string, body any) reply {
		c := body.(models.Course)
		c.ID = "c9"
		return ok(c)
	}
	courses := newCourses(b)
	require.True(t, courses.Fetch(context.Background()).Success)
	before := courses.Items()

	res := courses.Create(context.Background(), course("", "Mathematics"))
	require.True(t, res.Success)
	assert.Equal(t, "c9", res.Data.ID)
	assert.Equal(t, []string{"c1", "c9"}, ids(courses.Items()))
	assert.Equal(t, []string{"c1"}, ids(before), "published slice must not change")
}

func TestCreate_WithoutRecordRefetches(t *testing.T) {
	b := newFakeBackend()
	listed := []models.Course{course("c1", "Computer Science")}
	b.list = func(context.Context, string) reply { return ok(listed) }
	b.create = func(context.Context, string, any) reply {
		listed = append(listed, course("c2", "Mathematics"))
		return okMessage("Course created")
	}
	courses := newCourses(b)

	res := courses.Create(context.Background(), course("", "Mathematics"))
	require.True(t, res.Success)
	assert.Equal(t, "Course created", res.Message)
	assert.Equal(t, 1, b.count("list"))
	assert.Equal(t, []string{"c1", "c2"}, ids(courses.Items()))
	assert.False(t, courses.State().Loading)
}

func TestCreate_ValidationRunsBeforeRequest(t *testing.T) {
	b := newFakeBackend()
	courses := newCourses(b)

	res := courses.Create(context.Background(), models.Course{CourseCode: "CS"})
	assert.False(t, res.Success)
	assert.Equal(t, "courseName is required", res.Message)
	assert.ErrorIs(t, res.Err, apperrors.ErrValidationFailed)
	assert.Equal(t, 0, b.count("create"))
	assert.Equal(t, uint64(0), courses.State().Version)
}

func TestUpdate_ReplacesByID(t *testing.T) {
	b := newFakeBackend()
	b.list = func(context.Context, string) reply {
		return ok([]models.Course{course("c1", "Computer Science"), course("c2", "Business")})
	}
	b.update = func(_ context.Context, _ string, id string, body any) reply {
		c := body.(models.Course)
		c.ID = id
		return ok(c)
	}
	courses := newCourses(b)
	require.True(t, courses.Fetch(context.Background()).Success)

	res := courses.Update(context.Background(), "c2", course("", "Business Administration"))
	require.True(t, res.Success)

	items := courses.Items()
	assert.Equal(t, []string{"c1", "c2"}, ids(items))
	assert.Equal(t, "Business Administration", items[1].CourseName)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		reply     reply
		success   bool
		remaining []string
	}{
		{name: "server confirms", reply: okMessage("Course deleted"), success: true, remaining: []string{"c2"}},
		{name: "server refuses", reply: remoteFailure(http.StatusBadRequest, "Course has modules"), success: false, remaining: []string{"c1", "c2"}},
		{name: "network down", reply: reply{err: apperrors.ErrNetwork}, success: false, remaining: []string{"c1", "c2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend()
			b.list = func(context.Context, string) reply {
				return ok([]models.Course{course("c1", "Computer Science"), course("c2", "Business")})
			}
			b.del = func(context.Context, string, string) reply { return tt.reply }
			courses := newCourses(b)
			require.True(t, courses.Fetch(context.Background()).Success)

			res := courses.Delete(context.Background(), "c1")
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.remaining, ids(courses.Items()))
		})
	}
}

func TestFetchOne_Upserts(t *testing.T) {
	b := newFakeBackend()
	b.get = func(_ context.Context, _ string, id string) reply { return ok(course(id, "Physics")) }
	courses := newCourses(b)

	res := courses.FetchOne(context.Background(), "c5")
	require.True(t, res.Success)
	res = courses.FetchOne(context.Background(), "c5")
	require.True(t, res.Success)
	assert.Equal(t, []string{"c5"}, ids(courses.Items()))
}

func TestFetch_StaleResponseDiscarded(t *testing.T) {
	b := newFakeBackend()
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	b.list = func(context.Context, string) reply {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return ok([]models.Course{course("old", "Outdated")})
		}
		return ok([]models.Course{course("new", "Current")})
	}
	courses := newCourses(b)

	done := make(chan Result[[]models.Course])
	go func() { done <- courses.Fetch(context.Background()) }()
	<-entered

	require.True(t, courses.Fetch(context.Background()).Success)
	assert.True(t, courses.State().Loading, "first fetch still in flight")

	close(release)
	stale := <-done
	assert.True(t, stale.Success)
	assert.Equal(t, MsgSuperseded, stale.Message)

	assert.Equal(t, []string{"new"}, ids(courses.Items()))
	assert.False(t, courses.State().Loading)
}

func TestFetch_ReplaysMutationsAppliedDuringFetch(t *testing.T) {
	b := newFakeBackend()
	entered := make(chan struct{})
	release := make(chan struct{})
	b.list = func(context.Context, string) reply {
		close(entered)
		<-release
		return ok([]models.Course{course("c1", "Computer Science"), course("c2", "Business")})
	}
	b.create = func(_ context.Context, _ string, body any) reply {
		c := body.(models.Course)
		c.ID = "c3"
		return ok(c)
	}
	b.del = func(context.Context, string, string) reply { return okMessage("deleted") }
	courses := newCourses(b)

	done := make(chan struct{})
	go func() {
		courses.Fetch(context.Background())
		close(done)
	}()
	<-entered

	require.True(t, courses.Create(context.Background(), course("", "Mathematics")).Success)
	require.True(t, courses.Delete(context.Background(), "c2").Success)

	close(release)
	<-done
	assert.Equal(t, []string{"c1", "c3"}, ids(courses.Items()))
}

func TestUpdate_OlderWriteDoesNotOverwriteNewer(t *testing.T) {
	b := newFakeBackend()
	b.list = func(context.Context, string) reply { return ok([]models.Course{course("c1", "Computer Science")}) }
	entered := make(chan struct{})
	release := make(chan struct{})
	b.update = func(_ context.Context, _ string, id string, body any) reply {
		c := body.(models.Course)
		c.ID = id
		if c.CourseName == "First edit" {
			close(entered)
			<-release
		}
		return ok(c)
	}
	courses := newCourses(b)
	require.True(t, courses.Fetch(context.Background()).Success)

	done := make(chan Result[models.Course])
	go func() { done <- courses.Update(context.Background(), "c1", course("", "First edit")) }()
	<-entered

	require.True(t, courses.Update(context.Background(), "c1", course("", "Second edit")).Success)
	close(release)
	<-done

	assert.Equal(t, "Second edit", courses.Items()[0].CourseName)
}

func TestCancelledRequest_DiscardsResponse(t *testing.T) {
	b := newFakeBackend()
	b.list = func(context.Context, string) reply { return ok([]models.Course{course("c1", "Computer Science")}) }
	courses := newCourses(b)
	require.True(t, courses.Fetch(context.Background()).Success)
	before := courses.State()

	ctx, cancel := context.WithCancel(context.Background())
	b.create = func(_ context.Context, _ string, body any) reply {
		cancel()
		c := body.(models.Course)
		c.ID = "c2"
		return ok(c)
	}

	res := courses.Create(ctx, course("", "Mathematics"))
	assert.False(t, res.Success)
	assert.Equal(t, MsgCancelled, res.Message)

	after := courses.State()
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, []string{"c1"}, ids(after.Items))
	assert.Empty(t, after.Error)
	assert.False(t, after.Loading)
}

func TestLoading_CountsOverlappingRequests(t *testing.T) {
	b := newFakeBackend()
	entered := make(chan struct{})
	release := make(chan struct{})
	b.list = func(context.Context, string) reply {
		close(entered)
		<-release
		return ok([]models.Course{})
	}
	b.del = func(context.Context, string, string) reply { return okMessage("deleted") }
	courses := newCourses(b)

	done := make(chan struct{})
	go func() {
		courses.Fetch(context.Background())
		close(done)
	}()
	<-entered

	courses.Delete(context.Background(), "c1")
	assert.True(t, courses.State().Loading)

	close(release)
	<-done
	assert.False(t, courses.State().Loading)
}

func TestDescribe(t *testing.T) {
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	b := newFakeBackend()
	b.list = func(context.Context, string) reply { return ok([]models.Course{course("c1", "Computer Science")}) }
	courses := NewCollection[models.Course](ResourceCourses, b, nil, zerolog.Nop(), WithClock[models.Course](func() time.Time { return now }))

	courses.Fetch(context.Background())
	st := courses.Describe()
	assert.Equal(t, "courses", st.Name)
	assert.Equal(t, 1, st.Count)
	require.NotNil(t, st.FetchedAt)
	assert.Equal(t, now, *st.FetchedAt)
}

func TestWatch_NotifiedOnChange(t *testing.T) {
	b := newFakeBackend()
	b.list = func(context.Context, string) reply { return ok([]models.Course{course("c1", "Computer Science")}) }
	b.create = func(context.Context, string, any) reply { return ok(course("c2", "Business")) }
	b.del = func(context.Context, string, string) reply {
		return remoteFailure(http.StatusNotFound, "Course not found")
	}
	courses := newCourses(b)

	var seen []dto.CollectionState
	courses.Watch(func(st dto.CollectionState) { seen = append(seen, st) })

	require.True(t, courses.Fetch(context.Background()).Success)
	require.True(t, courses.Create(context.Background(), course("", "Business")).Success)
	require.False(t, courses.Delete(context.Background(), "c9").Success)

	require.Len(t, seen, 2, "failed requests change nothing")
	assert.Equal(t, "courses", seen[0].Name)
	assert.Equal(t, 1, seen[0].Count)
	assert.Equal(t, 2, seen[1].Count)
	assert.Equal(t, uint64(2), seen[1].Version)
}
