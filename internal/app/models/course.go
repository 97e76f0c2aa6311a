package models

// Course is a programme offered by the school.
type Course struct {
	ID          string          `json:"_id,omitempty"`
	CourseCode  string          `json:"courseCode" validate:"required,max=20"`
	CourseName  string          `json:"courseName" validate:"required,min=2,max=100"`
	Description string          `json:"description,omitempty"`
	CreditHours int             `json:"creditHours" validate:"gte=0"`
	Duration    int             `json:"duration" validate:"gte=0"` // months
	Department  Ref[Department] `json:"department"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   Date            `json:"createdAt"`
	UpdatedAt   Date            `json:"updatedAt"`
}

// GetID implements Entity
func (c Course) GetID() string { return c.ID }
