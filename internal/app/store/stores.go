package store

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/campusdesk/internal/app/models/dto"
)

// Source is a collection seen without its element type
type Source interface {
	Resource() string
	Describe() dto.CollectionState
	Refresh(ctx context.Context) error
	Watch(fn func(dto.CollectionState))
}

// Stores groups every domain store of one session
type Stores struct {
	Academic   *AcademicStore
	Users      *UserStore
	Facilities *FacilityStore
	Billing    *BillingStore

	logger zerolog.Logger
}

// New creates all stores over one backend
func New(backend Backend, validate *validator.Validate, lgr zerolog.Logger) *Stores {
	lgr = lgr.With().Str("component", "store").Logger()
	return &Stores{
		Academic:   NewAcademicStore(backend, validate, lgr),
		Users:      NewUserStore(backend, validate, lgr),
		Facilities: NewFacilityStore(backend, validate, lgr),
		Billing:    NewBillingStore(backend, validate, lgr),
		logger:     lgr,
	}
}

// Sources lists every collection
func (s *Stores) Sources() []Source {
	var all []Source
	all = append(all, s.Academic.Sources()...)
	all = append(all, s.Users.Sources()...)
	all = append(all, s.Facilities.Sources()...)
	all = append(all, s.Billing.Sources()...)
	return all
}

// States describes every collection
func (s *Stores) States() []dto.CollectionState {
	sources := s.Sources()
	states := make([]dto.CollectionState, 0, len(sources))
	for _, src := range sources {
		states = append(states, src.Describe())
	}
	return states
}

// Watch registers fn on every collection
func (s *Stores) Watch(fn func(dto.CollectionState)) {
	for _, src := range s.Sources() {
		src.Watch(fn)
	}
}

// RefreshAll re-fetches every collection concurrently. All fetches run to
// completion; the first failure is returned.
func (s *Stores) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	for _, src := range s.Sources() {
		src := src
		g.Go(func() error {
			return src.Refresh(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("Cache refresh incomplete")
		return err
	}
	s.logger.Debug().Msg("Cache refreshed")
	return nil
}
