package models

// AuthProvider tells how the account signs in
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// User is an account. Password is write-only: it is sent on create and
// password change, and never kept in the cache.
type User struct {
	ID             string       `json:"_id,omitempty"`
	Name           string       `json:"name" validate:"required,min=2,max=100"`
	Email          string       `json:"email" validate:"required,email"`
	Phone          string       `json:"phone,omitempty" validate:"omitempty,phone"`
	Password       string       `json:"password,omitempty" validate:"omitempty,min=8"`
	Role           RoleType     `json:"role" validate:"required,oneof=schoolAdmin lecturer student"`
	ProfilePicture string       `json:"profilePicture,omitempty"`
	GoogleID       string       `json:"googleId,omitempty"`
	AuthProvider   AuthProvider `json:"authProvider,omitempty"`
	IsActive       bool         `json:"isActive"`
	CreatedAt      Date         `json:"createdAt"`
	UpdatedAt      Date         `json:"updatedAt"`
}

// GetID implements Entity
func (u User) GetID() string { return u.ID }

// WithoutPassword returns a copy safe to cache.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// HasInlinePicture reports a data-URI profile picture rather than a URL.
func (u User) HasInlinePicture() bool {
	return len(u.ProfilePicture) > 5 && u.ProfilePicture[:5] == "data:"
}
