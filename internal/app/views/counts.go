package views

import "github.com/yigit/campusdesk/internal/app/models"

// CountRelated counts the children whose foreign key points at parentID.
// fk returns every id a child references (one for a scalar key, several for a list).
func CountRelated[C any](children []C, parentID string, fk func(C) []string) int {
	if parentID == "" {
		return 0
	}
	n := 0
	for _, child := range children {
		for _, id := range fk(child) {
			if id == parentID {
				n++
				break
			}
		}
	}
	return n
}

// ModuleCountForCourse counts modules taught in the course
func ModuleCountForCourse(modules []models.Module, courseID string) int {
	return CountRelated(modules, courseID, func(m models.Module) []string { return m.Courses.IDs() })
}

// StudentCountForIntakeCourse counts students enrolled on the intake course
func StudentCountForIntakeCourse(students []models.Student, intakeCourseID string) int {
	return CountRelated(students, intakeCourseID, func(s models.Student) []string { return single(s.IntakeCourse) })
}

// LecturerCountForModule counts lecturers assigned to the module
func LecturerCountForModule(lecturers []models.Lecturer, moduleID string) int {
	return CountRelated(lecturers, moduleID, func(l models.Lecturer) []string { return l.Modules.IDs() })
}

// ModuleCounts returns the module count of every course in one pass
func ModuleCounts(modules []models.Module) map[string]int {
	counts := make(map[string]int)
	for _, m := range modules {
		seen := make(map[string]struct{}, len(m.Courses))
		for _, id := range m.Courses.IDs() {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			counts[id]++
		}
	}
	return counts
}
