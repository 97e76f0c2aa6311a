package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

// REST resource names of the academic domain
const (
	ResourceCourses       = "courses"
	ResourceModules       = "modules"
	ResourceLecturers     = "lecturers"
	ResourceStudents      = "students"
	ResourceIntakeCourses = "intake-courses"
	ResourceIntakes       = "intakes"
	ResourceDepartments   = "departments"
)

// AcademicStore holds courses, modules, lecturers, students and intakes
type AcademicStore struct {
	Courses       *Collection[models.Course]
	Modules       *Collection[models.Module]
	Lecturers     *Collection[models.Lecturer]
	Students      *Collection[models.Student]
	IntakeCourses *Collection[models.IntakeCourse]
	Intakes       *Collection[models.Intake]
	Departments   *Collection[models.Department]
}

// NewAcademicStore creates an empty academic store
func NewAcademicStore(backend Backend, validate *validator.Validate, lgr zerolog.Logger) *AcademicStore {
	return &AcademicStore{
		Courses:       NewCollection[models.Course](ResourceCourses, backend, validate, lgr),
		Modules:       NewCollection[models.Module](ResourceModules, backend, validate, lgr),
		Lecturers:     NewCollection[models.Lecturer](ResourceLecturers, backend, validate, lgr),
		Students:      NewCollection[models.Student](ResourceStudents, backend, validate, lgr),
		IntakeCourses: NewCollection[models.IntakeCourse](ResourceIntakeCourses, backend, validate, lgr),
		Intakes:       NewCollection[models.Intake](ResourceIntakes, backend, validate, lgr),
		Departments:   NewCollection[models.Department](ResourceDepartments, backend, validate, lgr),
	}
}

// Sources lists the collections for refresh and status reporting
func (s *AcademicStore) Sources() []Source {
	return []Source{s.Courses, s.Modules, s.Lecturers, s.Students, s.IntakeCourses, s.Intakes, s.Departments}
}

// FetchCourses loads all courses
func (s *AcademicStore) FetchCourses(ctx context.Context) Result[[]models.Course] {
	return s.Courses.Fetch(ctx)
}

// CreateCourse creates a course
func (s *AcademicStore) CreateCourse(ctx context.Context, course models.Course) Result[models.Course] {
	return s.Courses.Create(ctx, course)
}

// UpdateCourse replaces a course
func (s *AcademicStore) UpdateCourse(ctx context.Context, id string, course models.Course) Result[models.Course] {
	return s.Courses.Update(ctx, id, course)
}

// DeleteCourse deletes a course
func (s *AcademicStore) DeleteCourse(ctx context.Context, id string) Result[models.Course] {
	return s.Courses.Delete(ctx, id)
}

// FetchModules loads all modules
func (s *AcademicStore) FetchModules(ctx context.Context) Result[[]models.Module] {
	return s.Modules.Fetch(ctx)
}

// CreateModule creates a module
func (s *AcademicStore) CreateModule(ctx context.Context, module models.Module) Result[models.Module] {
	return s.Modules.Create(ctx, module)
}

// UpdateModule replaces a module. A module listing itself as a prerequisite
// is rejected before any request is made.
func (s *AcademicStore) UpdateModule(ctx context.Context, id string, module models.Module) Result[models.Module] {
	if module.Prerequisites.Contains(id) {
		return failure[models.Module](apperrors.NewCustomError(apperrors.ErrSelfPrerequisite, apperrors.ErrSelfPrerequisite.Error()))
	}
	module.ID = id
	return s.Modules.Update(ctx, id, module)
}

// DeleteModule deletes a module
func (s *AcademicStore) DeleteModule(ctx context.Context, id string) Result[models.Module] {
	return s.Modules.Delete(ctx, id)
}

// FetchLecturers loads all lecturers
func (s *AcademicStore) FetchLecturers(ctx context.Context) Result[[]models.Lecturer] {
	return s.Lecturers.Fetch(ctx)
}

// CreateLecturer creates a lecturer profile
func (s *AcademicStore) CreateLecturer(ctx context.Context, lecturer models.Lecturer) Result[models.Lecturer] {
	if err := lecturer.ValidateOfficeHours(); err != nil {
		return failure[models.Lecturer](apperrors.NewCustomError(apperrors.ErrDuplicateOfficeHourDay, err.Error()))
	}
	return s.Lecturers.Create(ctx, lecturer)
}

// UpdateLecturer replaces a lecturer profile
func (s *AcademicStore) UpdateLecturer(ctx context.Context, id string, lecturer models.Lecturer) Result[models.Lecturer] {
	if err := lecturer.ValidateOfficeHours(); err != nil {
		return failure[models.Lecturer](apperrors.NewCustomError(apperrors.ErrDuplicateOfficeHourDay, err.Error()))
	}
	return s.Lecturers.Update(ctx, id, lecturer)
}

// DeleteLecturer deletes a lecturer profile
func (s *AcademicStore) DeleteLecturer(ctx context.Context, id string) Result[models.Lecturer] {
	return s.Lecturers.Delete(ctx, id)
}

// AddOfficeHour appends an office-hour slot to a lecturer. The lecturer is
// re-read first so the patched list keeps slots added elsewhere. A second
// slot on the same weekday is rejected without a write.
func (s *AcademicStore) AddOfficeHour(ctx context.Context, lecturerID string, slot models.OfficeHour) Result[models.Lecturer] {
	res := s.Lecturers.FetchOne(ctx, lecturerID)
	if !res.Success {
		return res
	}
	lecturer := *res.Data

	if err := lecturer.AddOfficeHour(slot); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateOfficeHourDay) {
			msg := fmt.Sprintf("Office hours for %s already exist", slot.Day)
			return failure[models.Lecturer](apperrors.NewCustomError(apperrors.ErrDuplicateOfficeHourDay, msg))
		}
		return failure[models.Lecturer](err)
	}
	return s.Lecturers.Patch(ctx, lecturerID, map[string]any{"officeHours": lecturer.OfficeHours})
}

// FetchStudents loads all students
func (s *AcademicStore) FetchStudents(ctx context.Context) Result[[]models.Student] {
	return s.Students.Fetch(ctx)
}

// CreateStudent creates a student profile
func (s *AcademicStore) CreateStudent(ctx context.Context, student models.Student) Result[models.Student] {
	return s.Students.Create(ctx, student)
}

// UpdateStudent replaces a student profile
func (s *AcademicStore) UpdateStudent(ctx context.Context, id string, student models.Student) Result[models.Student] {
	return s.Students.Update(ctx, id, student)
}

// DeleteStudent deletes a student profile
func (s *AcademicStore) DeleteStudent(ctx context.Context, id string) Result[models.Student] {
	return s.Students.Delete(ctx, id)
}

// FetchIntakeCourses loads all intake courses
func (s *AcademicStore) FetchIntakeCourses(ctx context.Context) Result[[]models.IntakeCourse] {
	return s.IntakeCourses.Fetch(ctx)
}

// FetchIntakes loads all intakes
func (s *AcademicStore) FetchIntakes(ctx context.Context) Result[[]models.Intake] {
	return s.Intakes.Fetch(ctx)
}

// FetchDepartments loads all departments
func (s *AcademicStore) FetchDepartments(ctx context.Context) Result[[]models.Department] {
	return s.Departments.Fetch(ctx)
}
