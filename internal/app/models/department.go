package models

// Department groups courses and lecturers
type Department struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Code     string `json:"code" validate:"required,max=20"`
	IsActive bool   `json:"isActive"`
}

// GetID implements Entity
func (d Department) GetID() string { return d.ID }
