package reservation

import "errors"

// Module errors.
var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidTransition   = errors.New("invalid reservation state transition")
	ErrInvalidDateRange    = errors.New("check-out must be after check-in")
	ErrCheckInInPast       = errors.New("check-in date is in the past")
	ErrCapacityExceeded    = errors.New("guest count exceeds room capacity")
	ErrRoomUnavailable     = errors.New("no rooms available for the selected dates")
	ErrForbidden           = errors.New("forbidden")

	ErrHotelNotFound    = errors.New("hotel not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrPackageNotFound  = errors.New("package not found")
)
