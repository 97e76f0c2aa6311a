package store

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

// REST resource names of the facility domain
const (
	ResourceResources = "resources"
	ResourceBookings  = "bookings"
)

// FacilityStore holds bookable resources and their bookings
type FacilityStore struct {
	Resources *Collection[models.Resource]
	Bookings  *Collection[models.Booking]
}

// NewFacilityStore creates an empty facility store
func NewFacilityStore(backend Backend, validate *validator.Validate, lgr zerolog.Logger) *FacilityStore {
	return &FacilityStore{
		Resources: NewCollection[models.Resource](ResourceResources, backend, validate, lgr),
		Bookings:  NewCollection[models.Booking](ResourceBookings, backend, validate, lgr),
	}
}

// Sources lists the collections for refresh and status reporting
func (s *FacilityStore) Sources() []Source {
	return []Source{s.Resources, s.Bookings}
}

// FetchResources loads all resources
func (s *FacilityStore) FetchResources(ctx context.Context) Result[[]models.Resource] {
	return s.Resources.Fetch(ctx)
}

// FetchBookings loads all bookings
func (s *FacilityStore) FetchBookings(ctx context.Context) Result[[]models.Booking] {
	return s.Bookings.Fetch(ctx)
}

// CreateBooking books a resource. When no cost is given and the resource is
// cached, cost is derived from its hourly rate.
func (s *FacilityStore) CreateBooking(ctx context.Context, booking models.Booking) Result[models.Booking] {
	if resource, ok := s.Resources.Find(booking.Resource.ID); ok {
		if !resource.IsActive {
			return failure[models.Booking](apperrors.NewBadRequestError("resource is not active"))
		}
		if booking.Cost.IsZero() {
			booking.Cost = resource.HourlyRate.Mul(booking.Hours())
		}
	}
	return s.Bookings.Create(ctx, booking)
}

// UpdateBookingStatus moves a booking through its lifecycle
func (s *FacilityStore) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) Result[models.Booking] {
	return s.Bookings.Patch(ctx, id, map[string]any{"status": status})
}

// DeleteBooking deletes a booking
func (s *FacilityStore) DeleteBooking(ctx context.Context, id string) Result[models.Booking] {
	return s.Bookings.Delete(ctx, id)
}
