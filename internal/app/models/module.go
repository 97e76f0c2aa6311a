package models

import "github.com/yigit/campusdesk/internal/pkg/apperrors"

// AssessmentMethod tags how a module is assessed
type AssessmentMethod string

const (
	AssessmentExam         AssessmentMethod = "exam"
	AssessmentAssignment   AssessmentMethod = "assignment"
	AssessmentProject      AssessmentMethod = "project"
	AssessmentPresentation AssessmentMethod = "presentation"
	AssessmentQuiz         AssessmentMethod = "quiz"
	AssessmentLab          AssessmentMethod = "lab"
	AssessmentPractical    AssessmentMethod = "practical"
)

// Module is a unit of teaching, shared by one or more courses.
type Module struct {
	ID                string             `json:"_id,omitempty"`
	ModuleCode        string             `json:"moduleCode" validate:"required,max=20"`
	ModuleName        string             `json:"moduleName" validate:"required,min=2,max=100"`
	Description       string             `json:"description,omitempty"`
	CreditHours       int                `json:"creditHours" validate:"gte=0"`
	Courses           RefList[Course]    `json:"courseId" validate:"min=1"`
	Prerequisites     RefList[Module]    `json:"prerequisites"`
	AssessmentMethods []AssessmentMethod `json:"assessmentMethods" validate:"dive,oneof=exam assignment project presentation quiz lab practical"`
	IsActive          bool               `json:"isActive"`
	CreatedAt         Date               `json:"createdAt"`
	UpdatedAt         Date               `json:"updatedAt"`
}

// GetID implements Entity
func (m Module) GetID() string { return m.ID }

// ValidatePrerequisites rejects a module listing itself as a prerequisite.
func (m Module) ValidatePrerequisites() error {
	if m.ID != "" && m.Prerequisites.Contains(m.ID) {
		return apperrors.ErrSelfPrerequisite
	}
	return nil
}

// HasAssessment reports whether method is in the module's set.
func (m Module) HasAssessment(method AssessmentMethod) bool {
	for _, am := range m.AssessmentMethods {
		if am == method {
			return true
		}
	}
	return false
}
