package models

import "github.com/shopspring/decimal"

// ResourceType classifies bookable facilities
type ResourceType string

const (
	ResourceRoom      ResourceType = "room"
	ResourceLab       ResourceType = "lab"
	ResourceEquipment ResourceType = "equipment"
	ResourceCourt     ResourceType = "court"
	ResourceStudio    ResourceType = "studio"
	ResourceOther     ResourceType = "other"
)

// Resource is a bookable facility
type Resource struct {
	ID           string                  `json:"_id,omitempty"`
	Name         string                  `json:"name" validate:"required,min=2,max=100"`
	Type         ResourceType            `json:"type" validate:"required,oneof=room lab equipment court studio other"`
	Location     string                  `json:"location,omitempty"`
	Capacity     int                     `json:"capacity" validate:"gte=0"`
	HourlyRate   decimal.Decimal         `json:"hourlyRate"`
	IsActive     bool                    `json:"isActive"`
	Availability map[Weekday][]TimeRange `json:"timeSlots,omitempty" validate:"dive,dive"`
}

// GetID implements Entity
func (r Resource) GetID() string { return r.ID }

// AvailableAt reports whether [start,end) on day fits in one availability range.
func (r Resource) AvailableAt(day Weekday, start, end string) bool {
	from, ok1 := ClockMinutes(start)
	to, ok2 := ClockMinutes(end)
	if !ok1 || !ok2 || to <= from {
		return false
	}
	for _, slot := range r.Availability[day] {
		slotFrom, okA := ClockMinutes(slot.Start)
		slotTo, okB := ClockMinutes(slot.End)
		if okA && okB && from >= slotFrom && to <= slotTo {
			return true
		}
	}
	return false
}
