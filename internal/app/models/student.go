package models

// StudentStatus is the enrolment lifecycle state
type StudentStatus string

const (
	StudentEnrolled  StudentStatus = "enrolled"
	StudentActive    StudentStatus = "active"
	StudentGraduated StudentStatus = "graduated"
	StudentDropped   StudentStatus = "dropped"
	StudentSuspended StudentStatus = "suspended"
)

// AcademicStanding summarises a student's results
type AcademicStanding string

const (
	StandingGood       AcademicStanding = "good"
	StandingWarning    AcademicStanding = "warning"
	StandingProbation  AcademicStanding = "probation"
	StandingSuspension AcademicStanding = "suspension"
)

// Student wraps a User account and points at the intake course it joined.
type Student struct {
	ID               string            `json:"_id,omitempty"`
	User             Ref[User]         `json:"userId" validate:"required"`
	IntakeCourse     Ref[IntakeCourse] `json:"intakeCourseId" validate:"required"`
	CurrentYear      int               `json:"currentYear" validate:"gte=0,lte=10"`
	CurrentSemester  int               `json:"currentSemester" validate:"gte=0,lte=3"`
	Status           StudentStatus     `json:"status" validate:"omitempty,oneof=enrolled active graduated dropped suspended"`
	AcademicStanding AcademicStanding  `json:"academicStanding" validate:"omitempty,oneof=good warning probation suspension"`
	CreatedAt        Date              `json:"createdAt"`
	UpdatedAt        Date              `json:"updatedAt"`
}

// GetID implements Entity
func (s Student) GetID() string { return s.ID }
