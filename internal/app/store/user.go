package store

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/validation"
)

// ResourceUsers is the REST resource of user accounts
const ResourceUsers = "users"

// UserStore holds user accounts. Passwords never enter the cache.
type UserStore struct {
	Users *Collection[models.User]
}

// NewUserStore creates an empty user store
func NewUserStore(backend Backend, validate *validator.Validate, lgr zerolog.Logger) *UserStore {
	return &UserStore{
		Users: NewCollection[models.User](ResourceUsers, backend, validate, lgr,
			WithSanitizer(models.User.WithoutPassword)),
	}
}

// Sources lists the collections for refresh and status reporting
func (s *UserStore) Sources() []Source {
	return []Source{s.Users}
}

// FetchUsers loads all users
func (s *UserStore) FetchUsers(ctx context.Context) Result[[]models.User] {
	return s.Users.Fetch(ctx)
}

// CreateUser creates an account; a password is mandatory on create
func (s *UserStore) CreateUser(ctx context.Context, user models.User) Result[models.User] {
	if !validation.NewStringValidation(user.Password).WithMinLength(validation.PasswordMinLength).Validate() {
		return failure[models.User](apperrors.NewValidationError("password must be at least 8 characters"))
	}
	return s.Users.Create(ctx, user)
}

// UpdateUser replaces an account. An empty password leaves it unchanged.
func (s *UserStore) UpdateUser(ctx context.Context, id string, user models.User) Result[models.User] {
	return s.Users.Update(ctx, id, user)
}

// SetActive toggles whether the account may sign in
func (s *UserStore) SetActive(ctx context.Context, id string, active bool) Result[models.User] {
	return s.Users.Patch(ctx, id, map[string]any{"isActive": active})
}

// DeleteUser deletes an account
func (s *UserStore) DeleteUser(ctx context.Context, id string) Result[models.User] {
	return s.Users.Delete(ctx, id)
}
