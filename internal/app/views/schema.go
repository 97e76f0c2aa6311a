// Package views derives read-only projections from cached collections:
// filtering, sorting, foreign-key resolution, counts and pagination.
// Every function is pure and never modifies its inputs.
package views

import (
	"github.com/shopspring/decimal"

	"github.com/yigit/campusdesk/internal/app/models"
)

// Kind tells how a field compares
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
	KindBool
	KindEnum
	KindRef
)

// Field extracts one named value from a record. Value returns nil when the
// field is missing; otherwise a string, float64, time.Time, bool or []string
// (foreign-key ids) depending on Kind.
type Field[T any] struct {
	Name  string
	Kind  Kind
	Value func(T) any
}

// Schema names the filterable and sortable fields of an entity
type Schema[T any] struct {
	Entity      string
	Fields      []Field[T]
	Search      []string
	DefaultSort string
}

// Field looks a field up by name
func (s Schema[T]) Field(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Has reports whether name is a known field
func (s Schema[T]) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

func text[T any](name string, fn func(T) string) Field[T] {
	return Field[T]{Name: name, Kind: KindText, Value: func(v T) any {
		if s := fn(v); s != "" {
			return s
		}
		return nil
	}}
}

func enum[T any](name string, fn func(T) string) Field[T] {
	f := text(name, fn)
	f.Kind = KindEnum
	return f
}

func number[T any](name string, fn func(T) float64) Field[T] {
	return Field[T]{Name: name, Kind: KindNumber, Value: func(v T) any { return fn(v) }}
}

func money[T any](name string, fn func(T) decimal.Decimal) Field[T] {
	return Field[T]{Name: name, Kind: KindNumber, Value: func(v T) any { return fn(v).InexactFloat64() }}
}

func date[T any](name string, fn func(T) models.Date) Field[T] {
	return Field[T]{Name: name, Kind: KindDate, Value: func(v T) any {
		if d := fn(v); !d.IsZero() {
			return d.Time
		}
		return nil
	}}
}

func boolean[T any](name string, fn func(T) bool) Field[T] {
	return Field[T]{Name: name, Kind: KindBool, Value: func(v T) any { return fn(v) }}
}

func ref[T any](name string, fn func(T) []string) Field[T] {
	return Field[T]{Name: name, Kind: KindRef, Value: func(v T) any {
		if ids := fn(v); len(ids) > 0 {
			return ids
		}
		return nil
	}}
}

func single[R any](r models.Ref[R]) []string {
	if r.ID == "" {
		return nil
	}
	return []string{r.ID}
}

func userName(r models.Ref[models.User]) string {
	if r.Obj == nil {
		return ""
	}
	return r.Obj.Name
}

func userEmail(r models.Ref[models.User]) string {
	if r.Obj == nil {
		return ""
	}
	return r.Obj.Email
}

// CourseSchema describes courses
var CourseSchema = Schema[models.Course]{
	Entity: "course",
	Fields: []Field[models.Course]{
		text("courseCode", func(c models.Course) string { return c.CourseCode }),
		text("courseName", func(c models.Course) string { return c.CourseName }),
		text("description", func(c models.Course) string { return c.Description }),
		number("creditHours", func(c models.Course) float64 { return float64(c.CreditHours) }),
		number("duration", func(c models.Course) float64 { return float64(c.Duration) }),
		ref("department", func(c models.Course) []string { return single(c.Department) }),
		boolean("isActive", func(c models.Course) bool { return c.IsActive }),
		date("createdAt", func(c models.Course) models.Date { return c.CreatedAt }),
	},
	Search:      []string{"courseCode", "courseName", "description"},
	DefaultSort: "courseName",
}

// ModuleSchema describes modules
var ModuleSchema = Schema[models.Module]{
	Entity: "module",
	Fields: []Field[models.Module]{
		text("moduleCode", func(m models.Module) string { return m.ModuleCode }),
		text("moduleName", func(m models.Module) string { return m.ModuleName }),
		text("description", func(m models.Module) string { return m.Description }),
		number("creditHours", func(m models.Module) float64 { return float64(m.CreditHours) }),
		ref("courseId", func(m models.Module) []string { return m.Courses.IDs() }),
		ref("prerequisites", func(m models.Module) []string { return m.Prerequisites.IDs() }),
		boolean("isActive", func(m models.Module) bool { return m.IsActive }),
		date("createdAt", func(m models.Module) models.Date { return m.CreatedAt }),
	},
	Search:      []string{"moduleCode", "moduleName", "description"},
	DefaultSort: "moduleName",
}

// LecturerSchema describes lecturers; name and email come from the populated user
var LecturerSchema = Schema[models.Lecturer]{
	Entity: "lecturer",
	Fields: []Field[models.Lecturer]{
		text("name", func(l models.Lecturer) string { return userName(l.User) }),
		text("email", func(l models.Lecturer) string { return userEmail(l.User) }),
		text("qualification", func(l models.Lecturer) string { return l.Qualification }),
		number("experience", func(l models.Lecturer) float64 { return float64(l.Experience) }),
		ref("userId", func(l models.Lecturer) []string { return single(l.User) }),
		ref("department", func(l models.Lecturer) []string { return single(l.Department) }),
		ref("modules", func(l models.Lecturer) []string { return l.Modules.IDs() }),
		date("createdAt", func(l models.Lecturer) models.Date { return l.CreatedAt }),
	},
	Search:      []string{"name", "email", "qualification"},
	DefaultSort: "name",
}

// StudentSchema describes students; name and email come from the populated user
var StudentSchema = Schema[models.Student]{
	Entity: "student",
	Fields: []Field[models.Student]{
		text("name", func(s models.Student) string { return userName(s.User) }),
		text("email", func(s models.Student) string { return userEmail(s.User) }),
		ref("userId", func(s models.Student) []string { return single(s.User) }),
		ref("intakeCourseId", func(s models.Student) []string { return single(s.IntakeCourse) }),
		number("currentYear", func(s models.Student) float64 { return float64(s.CurrentYear) }),
		number("currentSemester", func(s models.Student) float64 { return float64(s.CurrentSemester) }),
		enum("status", func(s models.Student) string { return string(s.Status) }),
		enum("academicStanding", func(s models.Student) string { return string(s.AcademicStanding) }),
		date("createdAt", func(s models.Student) models.Date { return s.CreatedAt }),
	},
	Search:      []string{"name", "email"},
	DefaultSort: "name",
}

// UserSchema describes user accounts
var UserSchema = Schema[models.User]{
	Entity: "user",
	Fields: []Field[models.User]{
		text("name", func(u models.User) string { return u.Name }),
		text("email", func(u models.User) string { return u.Email }),
		text("phone", func(u models.User) string { return u.Phone }),
		enum("role", func(u models.User) string { return string(u.Role) }),
		enum("authProvider", func(u models.User) string { return string(u.AuthProvider) }),
		boolean("isActive", func(u models.User) bool { return u.IsActive }),
		date("createdAt", func(u models.User) models.Date { return u.CreatedAt }),
	},
	Search:      []string{"name", "email", "phone"},
	DefaultSort: "name",
}

// IntakeCourseSchema describes intake courses
var IntakeCourseSchema = Schema[models.IntakeCourse]{
	Entity: "intakeCourse",
	Fields: []Field[models.IntakeCourse]{
		ref("intakeId", func(ic models.IntakeCourse) []string { return single(ic.Intake) }),
		ref("courseId", func(ic models.IntakeCourse) []string { return single(ic.Course) }),
		text("courseName", func(ic models.IntakeCourse) string {
			if ic.Course.Obj == nil {
				return ""
			}
			return ic.Course.Obj.CourseName
		}),
		number("maxStudents", func(ic models.IntakeCourse) float64 { return float64(ic.MaxStudents) }),
		number("currentEnrollment", func(ic models.IntakeCourse) float64 { return float64(ic.CurrentEnrollment) }),
		enum("status", func(ic models.IntakeCourse) string { return string(ic.Status) }),
	},
	Search:      []string{"courseName"},
	DefaultSort: "courseName",
}

// IntakeSchema describes intakes
var IntakeSchema = Schema[models.Intake]{
	Entity: "intake",
	Fields: []Field[models.Intake]{
		text("intakeName", func(i models.Intake) string { return i.IntakeName }),
		text("intakeMonth", func(i models.Intake) string { return i.IntakeMonth }),
		number("intakeYear", func(i models.Intake) float64 { return float64(i.IntakeYear) }),
		date("academicStartDate", func(i models.Intake) models.Date { return i.AcademicStartDate }),
		enum("status", func(i models.Intake) string { return string(i.Status) }),
	},
	Search:      []string{"intakeName", "intakeMonth"},
	DefaultSort: "academicStartDate",
}

// DepartmentSchema describes departments
var DepartmentSchema = Schema[models.Department]{
	Entity: "department",
	Fields: []Field[models.Department]{
		text("name", func(d models.Department) string { return d.Name }),
		text("code", func(d models.Department) string { return d.Code }),
		boolean("isActive", func(d models.Department) bool { return d.IsActive }),
	},
	Search:      []string{"name", "code"},
	DefaultSort: "name",
}

// ResourceSchema describes bookable resources
var ResourceSchema = Schema[models.Resource]{
	Entity: "resource",
	Fields: []Field[models.Resource]{
		text("name", func(r models.Resource) string { return r.Name }),
		enum("type", func(r models.Resource) string { return string(r.Type) }),
		text("location", func(r models.Resource) string { return r.Location }),
		number("capacity", func(r models.Resource) float64 { return float64(r.Capacity) }),
		money("hourlyRate", func(r models.Resource) decimal.Decimal { return r.HourlyRate }),
		boolean("isActive", func(r models.Resource) bool { return r.IsActive }),
	},
	Search:      []string{"name", "location"},
	DefaultSort: "name",
}

// BookingSchema describes bookings
var BookingSchema = Schema[models.Booking]{
	Entity: "booking",
	Fields: []Field[models.Booking]{
		ref("resourceId", func(b models.Booking) []string { return single(b.Resource) }),
		ref("studentId", func(b models.Booking) []string { return single(b.Student) }),
		date("date", func(b models.Booking) models.Date { return b.Date }),
		text("startTime", func(b models.Booking) string { return b.StartTime }),
		number("groupSize", func(b models.Booking) float64 { return float64(b.GroupSize) }),
		money("cost", func(b models.Booking) decimal.Decimal { return b.Cost }),
		enum("status", func(b models.Booking) string { return string(b.Status) }),
		text("purpose", func(b models.Booking) string { return b.Purpose }),
	},
	Search:      []string{"purpose"},
	DefaultSort: "date",
}

// BillingSchema describes student charges
var BillingSchema = Schema[models.Billing]{
	Entity: "billing",
	Fields: []Field[models.Billing]{
		ref("studentId", func(b models.Billing) []string { return single(b.Student) }),
		ref("bookingId", func(b models.Billing) []string { return single(b.Booking) }),
		text("description", func(b models.Billing) string { return b.Description }),
		money("amount", func(b models.Billing) decimal.Decimal { return b.Amount }),
		date("dueDate", func(b models.Billing) models.Date { return b.DueDate }),
		enum("status", func(b models.Billing) string { return string(b.Status) }),
	},
	Search:      []string{"description"},
	DefaultSort: "dueDate",
}
