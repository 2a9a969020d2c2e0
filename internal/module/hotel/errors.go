package hotel

import "errors"

// Module errors.
var (
	ErrHotelNotFound    = errors.New("hotel not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrAmenityNotFound  = errors.New("amenity not found")
	ErrPackageNotFound  = errors.New("package not found")
	ErrImageNotFound    = errors.New("image not found")

	ErrAmenityExists      = errors.New("amenity already exists")
	ErrRoomTypeMismatch   = errors.New("room type does not belong to hotel")
	ErrInvalidStars       = errors.New("stars must be between 1 and 5")
	ErrStorageUnavailable = errors.New("object storage not configured")
)
