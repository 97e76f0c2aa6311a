package dto

import "time"

// Envelope is the response wrapper every backend endpoint uses.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// HasData reports whether the backend included a payload.
func (e Envelope[T]) HasData() bool {
	return e.Data != nil
}

// StructuredResponse is the envelope this service answers with
type StructuredResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewStructuredResponse creates a standard structured API response
func NewStructuredResponse(data interface{}, message string) StructuredResponse {
	return StructuredResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes one page of a derived list
type PaginationInfo struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// CollectionState is the cache status of one collection
type CollectionState struct {
	Name      string     `json:"name"`
	Count     int        `json:"count"`
	Loading   bool       `json:"loading"`
	Error     string     `json:"error,omitempty"`
	Version   uint64     `json:"version"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
}

// CountResponse carries a derived cardinality
type CountResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// BalanceResponse carries a student's outstanding amount
type BalanceResponse struct {
	StudentID   string `json:"studentId"`
	Outstanding string `json:"outstanding" example:"120.50"`
	Charges     int    `json:"charges"`
}
