package reservation

import (
	"time"

	"github.com/google/uuid"
)

// CreateReservationRequest represents a request to create a reservation.
// Either PackageID or (HotelID, RoomTypeID) must be supplied; a package
// fixes the room type and nightly pricing.
type CreateReservationRequest struct {
	HotelID    uuid.UUID  `json:"hotel_id"`
	RoomTypeID uuid.UUID  `json:"room_type_id"`
	PackageID  *uuid.UUID `json:"package_id,omitempty"`
	CheckIn    time.Time  `json:"check_in" binding:"required"`
	CheckOut   time.Time  `json:"check_out" binding:"required"`
	GuestCount int        `json:"guest_count" binding:"required,min=1"`
}

// ReservationFilter represents filters for listing reservations.
type ReservationFilter struct {
	Status  *ReservationStatus `form:"status"`
	HotelID *uuid.UUID         `form:"hotel_id"`
}

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int `form:"page" binding:"min=1"`
	PageSize int `form:"page_size" binding:"min=1,max=100"`
}

// NewPagination creates pagination with defaults.
func NewPagination() *Pagination {
	return &Pagination{Page: 1, PageSize: 20}
}

// Offset returns the offset for database queries.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ReservationListResponse represents a paginated list of reservations.
type ReservationListResponse struct {
	Reservations []*Reservation `json:"reservations"`
	Total        int64          `json:"total"`
	Page         int            `json:"page"`
	PageSize     int            `json:"page_size"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
