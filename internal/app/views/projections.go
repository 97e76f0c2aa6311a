package views

import (
	"github.com/shopspring/decimal"

	"github.com/yigit/campusdesk/internal/app/models"
)

// CourseNamesForModule lists the names of the courses a module belongs to
func CourseNamesForModule(module models.Module, courses Index[models.Course]) []string {
	return DisplayNames(module.Courses, courses, CourseName)
}

// PrerequisiteOptions are the modules selectable as prerequisites of the
// module being edited; the module itself is never offered.
func PrerequisiteOptions(modules []models.Module, editingID string) []models.Module {
	out := make([]models.Module, 0, len(modules))
	for _, m := range modules {
		if editingID != "" && m.ID == editingID {
			continue
		}
		out = append(out, m)
	}
	return out
}

// StudentsByIntakeCourse lists the students of an intake course
func StudentsByIntakeCourse(students []models.Student, intakeCourseID string) []models.Student {
	return where(students, func(s models.Student) bool {
		return intakeCourseID != "" && s.IntakeCourse.ID == intakeCourseID
	})
}

// LecturersByDepartment lists the lecturers of a department
func LecturersByDepartment(lecturers []models.Lecturer, departmentID string) []models.Lecturer {
	return where(lecturers, func(l models.Lecturer) bool {
		return departmentID != "" && l.Department.ID == departmentID
	})
}

// BookingsForResource lists the bookings of a resource
func BookingsForResource(bookings []models.Booking, resourceID string) []models.Booking {
	return where(bookings, func(b models.Booking) bool {
		return resourceID != "" && b.Resource.ID == resourceID
	})
}

// OutstandingBalance sums the unpaid charges of a student and counts them
func OutstandingBalance(billing []models.Billing, studentID string) (decimal.Decimal, int) {
	total := decimal.Zero
	n := 0
	for _, b := range billing {
		if studentID == "" || b.Student.ID != studentID || !b.Outstanding() {
			continue
		}
		total = total.Add(b.Amount)
		n++
	}
	return total, n
}

// BookingCost is the stored cost, or hourly rate times booked hours when the
// server left it empty. Zero when the resource cannot be resolved.
func BookingCost(booking models.Booking, resources Index[models.Resource]) decimal.Decimal {
	if !booking.Cost.IsZero() {
		return booking.Cost
	}
	resource, ok := Resolve(booking.Resource, resources)
	if !ok {
		return decimal.Zero
	}
	return resource.HourlyRate.Mul(booking.Hours())
}

func where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
