package models

import (
	"fmt"

	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

// OfficeHour is a weekly consultation slot
type OfficeHour struct {
	Day       Weekday `json:"day" validate:"required,weekday"`
	StartTime string  `json:"startTime" validate:"required,clock"`
	EndTime   string  `json:"endTime" validate:"required,clock"`
}

// Lecturer wraps a User account with teaching data. Name, email and phone
// belong to the user.
type Lecturer struct {
	ID             string          `json:"_id,omitempty"`
	User           Ref[User]       `json:"userId" validate:"required"`
	Department     Ref[Department] `json:"department"`
	Modules        RefList[Module] `json:"modules"`
	Title          []string        `json:"title,omitempty"`
	Specialization []string        `json:"specialization,omitempty"`
	Qualification  string          `json:"qualification,omitempty"`
	Experience     int             `json:"experience" validate:"gte=0"`
	OfficeHours    []OfficeHour    `json:"officeHours" validate:"dive"`
	CreatedAt      Date            `json:"createdAt"`
	UpdatedAt      Date            `json:"updatedAt"`
}

// GetID implements Entity
func (l Lecturer) GetID() string { return l.ID }

// HasOfficeHourOn reports whether an entry exists for day.
func (l Lecturer) HasOfficeHourOn(day Weekday) bool {
	for _, oh := range l.OfficeHours {
		if oh.Day == day {
			return true
		}
	}
	return false
}

// AddOfficeHour appends oh unless its day is already taken; the existing list
// is left untouched on rejection.
func (l *Lecturer) AddOfficeHour(oh OfficeHour) error {
	if l.HasOfficeHourOn(oh.Day) {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateOfficeHourDay, oh.Day)
	}
	hours := make([]OfficeHour, len(l.OfficeHours), len(l.OfficeHours)+1)
	copy(hours, l.OfficeHours)
	l.OfficeHours = append(hours, oh)
	return nil
}

// RemoveOfficeHour drops the entry for day, if any.
func (l *Lecturer) RemoveOfficeHour(day Weekday) {
	hours := make([]OfficeHour, 0, len(l.OfficeHours))
	for _, oh := range l.OfficeHours {
		if oh.Day != day {
			hours = append(hours, oh)
		}
	}
	l.OfficeHours = hours
}

// ValidateOfficeHours checks that no weekday appears twice.
func (l Lecturer) ValidateOfficeHours() error {
	seen := make(map[Weekday]struct{}, len(l.OfficeHours))
	for _, oh := range l.OfficeHours {
		if _, dup := seen[oh.Day]; dup {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateOfficeHourDay, oh.Day)
		}
		seen[oh.Day] = struct{}{}
	}
	return nil
}
