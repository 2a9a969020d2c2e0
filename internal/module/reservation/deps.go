package reservation

import (
	"context"

	"github.com/google/uuid"
	"github.com/roamstay/server/internal/module/hotel"
)

// Catalog defines what the reservation service needs from the hotel
// catalog. Satisfied by *hotel.Service.
type Catalog interface {
	GetHotel(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error)
	GetRoomType(ctx context.Context, id uuid.UUID) (*hotel.RoomType, error)
	GetPackage(ctx context.Context, id uuid.UUID) (*hotel.Package, error)
}
