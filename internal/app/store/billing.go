package store

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/models"
)

// ResourceBilling is the REST resource of student charges
const ResourceBilling = "billing"

// BillingStore holds charges raised against students
type BillingStore struct {
	Billing *Collection[models.Billing]
}

// NewBillingStore creates an empty billing store
func NewBillingStore(backend Backend, validate *validator.Validate, lgr zerolog.Logger) *BillingStore {
	return &BillingStore{
		Billing: NewCollection[models.Billing](ResourceBilling, backend, validate, lgr),
	}
}

// Sources lists the collections for refresh and status reporting
func (s *BillingStore) Sources() []Source {
	return []Source{s.Billing}
}

// FetchBilling loads all charges
func (s *BillingStore) FetchBilling(ctx context.Context) Result[[]models.Billing] {
	return s.Billing.Fetch(ctx)
}

// MarkPaid records a payment for a charge
func (s *BillingStore) MarkPaid(ctx context.Context, id string, at time.Time) Result[models.Billing] {
	return s.Billing.Patch(ctx, id, map[string]any{
		"status": models.BillingPaid,
		"paidAt": models.NewDate(at),
	})
}
