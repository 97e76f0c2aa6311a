package models

import "github.com/shopspring/decimal"

// BookingStatus is the lifecycle of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking reserves a resource for a student group
type Booking struct {
	ID        string          `json:"_id,omitempty"`
	Resource  Ref[Resource]   `json:"resourceId" validate:"required"`
	Student   Ref[Student]    `json:"studentId" validate:"required"`
	Date      Date            `json:"date"`
	StartTime string          `json:"startTime" validate:"required,clock"`
	EndTime   string          `json:"endTime" validate:"required,clock"`
	GroupSize int             `json:"groupSize" validate:"gte=1"`
	Cost      decimal.Decimal `json:"cost"`
	Status    BookingStatus   `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Purpose   string          `json:"purpose,omitempty"`
}

// GetID implements Entity
func (b Booking) GetID() string { return b.ID }

// Hours is the booked duration, zero when the times are unusable.
func (b Booking) Hours() decimal.Decimal {
	from, ok1 := ClockMinutes(b.StartTime)
	to, ok2 := ClockMinutes(b.EndTime)
	if !ok1 || !ok2 || to <= from {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(to - from)).Div(decimal.NewFromInt(60))
}
