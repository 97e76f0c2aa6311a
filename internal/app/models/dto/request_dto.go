package dto

// LoginRequest documents the credentials relayed to the backend
type LoginRequest struct {
	Email    string `json:"email" example:"admin@campus.edu"`
	Password string `json:"password" example:"secret123"`
}

// GoogleValidateRequest documents the Google credential relayed to the backend
type GoogleValidateRequest struct {
	Credential string `json:"credential"`
}

// ActiveRequest toggles an account
type ActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// BookingStatusRequest moves a booking to another status
type BookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// RefreshResponse reports the outcome of a full cache refresh
type RefreshResponse struct {
	Collections []CollectionState `json:"collections"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Sessions int    `json:"sessions" example:"3"`
}
