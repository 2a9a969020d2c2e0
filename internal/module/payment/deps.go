package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/roamstay/server/internal/module/hotel"
	"github.com/roamstay/server/internal/module/reservation"
	"github.com/roamstay/server/internal/module/user"
)

// ReservationReader is the slice of the reservation service the payment
// flow depends on. Satisfied by *reservation.Service.
type ReservationReader interface {
	GetByIDInternal(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	ConfirmTx(r *reservation.Reservation) error
	Confirm(ctx context.Context, id uuid.UUID) error
}

// UserStore is the slice of the user repository the payment flow
// depends on. Satisfied by user.Repository.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
}

// Catalog resolves hotel and package names for intent metadata.
// Satisfied by *hotel.Service.
type Catalog interface {
	GetHotel(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error)
	GetPackage(ctx context.Context, id uuid.UUID) (*hotel.Package, error)
}
