package models

import "github.com/shopspring/decimal"

// BillingStatus is the payment state of a charge
type BillingStatus string

const (
	BillingPending   BillingStatus = "pending"
	BillingPaid      BillingStatus = "paid"
	BillingOverdue   BillingStatus = "overdue"
	BillingCancelled BillingStatus = "cancelled"
)

// Billing is a charge raised against a student, optionally for a booking
type Billing struct {
	ID          string          `json:"_id,omitempty"`
	Student     Ref[Student]    `json:"studentId" validate:"required"`
	Booking     Ref[Booking]    `json:"bookingId"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     Date            `json:"dueDate"`
	PaidAt      Date            `json:"paidAt"`
	Status      BillingStatus   `json:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
}

// GetID implements Entity
func (b Billing) GetID() string { return b.ID }

// Outstanding reports whether the charge still has to be paid.
func (b Billing) Outstanding() bool {
	return b.Status == BillingPending || b.Status == BillingOverdue
}
