package models

// IntakeStatus is the lifecycle of an intake
type IntakeStatus string

const (
	IntakeUpcoming  IntakeStatus = "upcoming"
	IntakeActive    IntakeStatus = "active"
	IntakeCompleted IntakeStatus = "completed"
)

// Intake is an admission round (e.g. "September 2025")
type Intake struct {
	ID                    string       `json:"_id,omitempty"`
	IntakeName            string       `json:"intakeName" validate:"required"`
	IntakeMonth           string       `json:"intakeMonth"`
	IntakeYear            int          `json:"intakeYear" validate:"gte=0"`
	RegistrationStartDate Date         `json:"registrationStartDate"`
	RegistrationEndDate   Date         `json:"registrationEndDate"`
	OrientationDate       Date         `json:"orientationDate"`
	AcademicStartDate     Date         `json:"academicStartDate"`
	AcademicEndDate       Date         `json:"academicEndDate"`
	Status                IntakeStatus `json:"status" validate:"omitempty,oneof=upcoming active completed"`
}

// GetID implements Entity
func (i Intake) GetID() string { return i.ID }

// IntakeCourseStatus tracks whether an intake course still admits students
type IntakeCourseStatus string

const (
	IntakeCourseActive    IntakeCourseStatus = "active"
	IntakeCourseInactive  IntakeCourseStatus = "inactive"
	IntakeCourseFull      IntakeCourseStatus = "full"
	IntakeCourseCompleted IntakeCourseStatus = "completed"
)

// IntakeCourse is a course offered in a given intake.
type IntakeCourse struct {
	ID                string             `json:"_id,omitempty"`
	Intake            Ref[Intake]        `json:"intakeId" validate:"required"`
	Course            Ref[Course]        `json:"courseId" validate:"required"`
	MaxStudents       int                `json:"maxStudents" validate:"gte=0"`
	CurrentEnrollment int                `json:"currentEnrollment" validate:"gte=0"`
	Status            IntakeCourseStatus `json:"status" validate:"omitempty,oneof=active inactive full completed"`
}

// GetID implements Entity
func (ic IntakeCourse) GetID() string { return ic.ID }

// SeatsLeft is never negative.
func (ic IntakeCourse) SeatsLeft() int {
	if left := ic.MaxStudents - ic.CurrentEnrollment; left > 0 {
		return left
	}
	return 0
}
