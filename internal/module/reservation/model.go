package reservation

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus represents the lifecycle status of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a room booking.
type Reservation struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	HotelID    uuid.UUID  `json:"hotel_id" gorm:"type:uuid;not null;index"`
	RoomTypeID uuid.UUID  `json:"room_type_id" gorm:"type:uuid;not null"`
	PackageID  *uuid.UUID `json:"package_id,omitempty" gorm:"type:uuid"`

	CheckIn    time.Time `json:"check_in" gorm:"not null"`
	CheckOut   time.Time `json:"check_out" gorm:"not null"`
	GuestCount int       `json:"guest_count" gorm:"not null;check:guest_count > 0"`

	TotalPrice float64           `json:"total_price" gorm:"type:numeric(10,2);not null"`
	Currency   string            `json:"currency" gorm:"not null;default:brl"`
	Status     ReservationStatus `json:"status" gorm:"not null;default:pending;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Reservation) TableName() string {
	return "reservations"
}

// Nights returns the number of nights of the stay.
func (r *Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// IsTerminal returns true if the reservation can no longer change state.
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}
