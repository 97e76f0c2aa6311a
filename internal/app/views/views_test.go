package views

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusdesk/internal/app/models"
)

func courseIDs(items []models.Course) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

func TestFilter_CaseInsensitiveSearch(t *testing.T) {
	courses := []models.Course{{ID: "c1", CourseName: "CS101", IsActive: true}}

	got := Filter(courses, CourseSchema, Criteria{Search: "cs1"})
	assert.Equal(t, []string{"c1"}, courseIDs(got))
}

func TestFilter_PreservesOrder(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", CourseName: "Data Science", IsActive: true},
		{ID: "c2", CourseName: "Business", IsActive: false},
		{ID: "c3", CourseName: "Computer Science", IsActive: true},
		{ID: "c4", CourseName: "Science Education", IsActive: true},
	}

	got := Filter(courses, CourseSchema, Criteria{Search: "science", Equals: map[string]string{"isActive": "true"}})
	assert.Equal(t, []string{"c1", "c3", "c4"}, courseIDs(got))

	got = Filter(courses, CourseSchema, Criteria{})
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, courseIDs(got))
	got[0].CourseName = "changed"
	assert.Equal(t, "Data Science", courses[0].CourseName, "input must not be modified")
}

func TestFilter_ForeignKeys(t *testing.T) {
	var modules []models.Module
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id":"m1","moduleName":"Algorithms","courseId":"c1"},
		{"_id":"m2","moduleName":"Marketing","courseId":["c2"]},
		{"_id":"m3","moduleName":"Databases","courseId":[{"_id":"c1","courseName":"CS"},"c2"]},
		{"_id":"m4","moduleName":"Orphan","courseId":null}
	]`), &modules))

	got := Filter(modules, ModuleSchema, Criteria{Equals: map[string]string{"courseId": "c1"}})
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m3", got[1].ID)

	got = Filter(modules, ModuleSchema, Criteria{Equals: map[string]string{"unknownField": "x"}})
	assert.Len(t, got, 4)
}

func TestFilter_MissingFieldsNeverMatch(t *testing.T) {
	students := []models.Student{
		{ID: "s1"},
		{ID: "s2", User: models.Populated("u2", models.User{Name: "Ada Lovelace"})},
		{ID: "s3", User: models.RefTo[models.User]("u3"), Status: models.StudentActive},
	}

	got := Filter(students, StudentSchema, Criteria{Search: "ada"})
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)

	got = Filter(students, StudentSchema, Criteria{Equals: map[string]string{"status": "ACTIVE"}})
	require.Len(t, got, 1)
	assert.Equal(t, "s3", got[0].ID)
}

func TestSort(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", CourseName: "zoology", CreditHours: 3},
		{ID: "c2", CourseName: "Ébénisterie", CreditHours: 1},
		{ID: "c3", CourseName: "art", CreditHours: 3},
		{ID: "c4", CourseName: "", CreditHours: 2},
	}

	byName := Sort(courses, CourseSchema, "courseName", Asc, "en")
	assert.Equal(t, []string{"c4", "c3", "c2", "c1"}, courseIDs(byName))
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, courseIDs(courses), "input must not be modified")

	byCredits := Sort(courses, CourseSchema, "creditHours", Desc, "en")
	assert.Equal(t, []string{"c1", "c3", "c4", "c2"}, courseIDs(byCredits), "ties keep input order")

	unknown := Sort(courses, CourseSchema, "nope", Asc, "en")
	assert.Equal(t, courseIDs(courses), courseIDs(unknown))
}

func TestSort_Idempotent(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", CourseName: "b", Duration: 12},
		{ID: "c2", CourseName: "a", Duration: 12},
		{ID: "c3", CourseName: "B", Duration: 6},
	}
	for _, key := range []string{"courseName", "duration", "createdAt"} {
		for _, dir := range []Direction{Asc, Desc} {
			once := Sort(courses, CourseSchema, key, dir, "en")
			twice := Sort(once, CourseSchema, key, dir, "en")
			assert.Equal(t, courseIDs(once), courseIDs(twice), "%s %s", key, dir)
		}
	}
}

func TestResolve_NeverPanics(t *testing.T) {
	idx := NewIndex([]models.Department{{ID: "d1", Name: "Computing"}})

	var shapes []models.Course
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id":"c1","department":null},
		{"_id":"c2"},
		{"_id":"c3","department":"d1"},
		{"_id":"c4","department":{"_id":"d9","name":"Arts"}},
		{"_id":"c5","department":"missing"},
		{"_id":"c6","department":42}
	]`), &shapes))

	want := []string{Placeholder, Placeholder, "Computing", "Arts", Placeholder, Placeholder}
	for i, c := range shapes {
		assert.NotPanics(t, func() {
			assert.Equal(t, want[i], DisplayName(c.Department, idx, DepartmentName), c.ID)
		})
	}

	assert.Equal(t, Placeholder, DisplayName(models.Ref[models.Department]{}, nil, DepartmentName))
}

func TestCounts(t *testing.T) {
	var modules []models.Module
	require.NoError(t, json.Unmarshal([]byte(`[{"_id":"m1","courseId":"c1"},{"_id":"m2","courseId":"c2"}]`), &modules))

	assert.Equal(t, 1, ModuleCountForCourse(modules, "c1"))
	assert.Equal(t, 0, ModuleCountForCourse(modules, "c3"))
	assert.Equal(t, 0, ModuleCountForCourse(modules, ""))
	assert.Equal(t, map[string]int{"c1": 1, "c2": 1}, ModuleCounts(modules))

	students := []models.Student{
		{ID: "s1", IntakeCourse: models.RefTo[models.IntakeCourse]("ic1")},
		{ID: "s2", IntakeCourse: models.RefTo[models.IntakeCourse]("ic1")},
		{ID: "s3"},
	}
	assert.Equal(t, 2, StudentCountForIntakeCourse(students, "ic1"))
	assert.Len(t, StudentsByIntakeCourse(students, "ic1"), 2)
	assert.Empty(t, StudentsByIntakeCourse(students, ""))

	lecturers := []models.Lecturer{
		{ID: "l1", Modules: models.RefsTo[models.Module]("m1", "m2"), Department: models.RefTo[models.Department]("d1")},
		{ID: "l2", Modules: models.RefsTo[models.Module]("m2")},
	}
	assert.Equal(t, 2, LecturerCountForModule(lecturers, "m2"))
	assert.Len(t, LecturersByDepartment(lecturers, "d1"), 1)
}

func TestPrerequisiteOptions_ExcludesSelf(t *testing.T) {
	modules := []models.Module{{ID: "m1"}, {ID: "m2"}, {ID: "m3"}}

	opts := PrerequisiteOptions(modules, "m2")
	require.Len(t, opts, 2)
	assert.Equal(t, "m1", opts[0].ID)
	assert.Equal(t, "m3", opts[1].ID)

	assert.Len(t, PrerequisiteOptions(modules, ""), 3)
}

func TestCourseNamesForModule(t *testing.T) {
	idx := NewIndex([]models.Course{{ID: "c1", CourseName: "Computer Science"}})
	m := models.Module{ID: "m1", Courses: models.RefsTo[models.Course]("c1", "gone")}

	assert.Equal(t, []string{"Computer Science", Placeholder}, CourseNamesForModule(m, idx))
}

func TestOutstandingBalance(t *testing.T) {
	billing := []models.Billing{
		{ID: "b1", Student: models.RefTo[models.Student]("s1"), Amount: decimal.RequireFromString("100.25"), Status: models.BillingPending},
		{ID: "b2", Student: models.RefTo[models.Student]("s1"), Amount: decimal.RequireFromString("20.25"), Status: models.BillingOverdue},
		{ID: "b3", Student: models.RefTo[models.Student]("s1"), Amount: decimal.RequireFromString("999"), Status: models.BillingPaid},
		{ID: "b4", Student: models.RefTo[models.Student]("s2"), Amount: decimal.RequireFromString("5"), Status: models.BillingPending},
	}

	total, n := OutstandingBalance(billing, "s1")
	assert.Equal(t, "120.5", total.String())
	assert.Equal(t, 2, n)
}

func TestBookingCost(t *testing.T) {
	resources := NewIndex([]models.Resource{{ID: "r1", HourlyRate: decimal.NewFromInt(30)}})
	booking := models.Booking{Resource: models.RefTo[models.Resource]("r1"), StartTime: "10:00", EndTime: "12:30"}

	assert.Equal(t, "75", BookingCost(booking, resources).String())

	booking.Cost = decimal.NewFromInt(10)
	assert.Equal(t, "10", BookingCost(booking, resources).String())

	assert.True(t, BookingCost(models.Booking{Resource: models.RefTo[models.Resource]("zz")}, resources).IsZero())
	assert.Len(t, BookingsForResource([]models.Booking{booking}, "r1"), 1)
}

func TestList_FilterSortPaginate(t *testing.T) {
	var courses []models.Course
	for _, name := range []string{"e", "d", "c", "b", "a"} {
		courses = append(courses, models.Course{ID: "c-" + name, CourseName: name})
	}

	page, info := List(courses, CourseSchema, Query{Page: 2, Size: 2, Dir: Asc, Locale: "en"})
	assert.Equal(t, []string{"c-c", "c-d"}, courseIDs(page))
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 5, info.TotalItems)
	assert.Equal(t, 2, info.CurrentPage)

	all, info := Paginate(courses, 1, 0)
	assert.Len(t, all, 5)
	assert.Equal(t, 1, info.TotalPages)

	beyond, _ := Paginate(courses, 9, 2)
	assert.Empty(t, beyond)
}
