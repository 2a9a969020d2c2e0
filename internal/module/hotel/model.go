package hotel

import (
	"time"

	"github.com/google/uuid"
)

// Hotel represents a bookable property.
type Hotel struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null;index"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	City        string    `json:"city" gorm:"index"`
	Country     string    `json:"country" gorm:"index"`
	Stars       int       `json:"stars" gorm:"check:stars >= 1 AND stars <= 5"`
	Active      bool      `json:"active" gorm:"default:true"`

	Amenities []Amenity  `json:"amenities,omitempty" gorm:"many2many:hotel_amenities"`
	RoomTypes []RoomType `json:"room_types,omitempty" gorm:"foreignKey:HotelID"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-" gorm:"index"` // Soft delete
}

// TableName returns the database table name.
func (Hotel) TableName() string {
	return "hotels"
}

// RoomType represents a category of room within a hotel.
type RoomType struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HotelID       uuid.UUID `json:"hotel_id" gorm:"type:uuid;not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	Capacity      int       `json:"capacity" gorm:"not null;check:capacity > 0"`
	PricePerNight float64   `json:"price_per_night" gorm:"type:numeric(10,2);not null"`
	TotalRooms    int       `json:"total_rooms" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (RoomType) TableName() string {
	return "room_types"
}

// Amenity represents a hotel amenity (pool, wifi, breakfast).
type Amenity struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Amenity) TableName() string {
	return "amenities"
}

// Package represents a curated bundle of hotel, room type and nights at a
// fixed price.
type Package struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HotelID     uuid.UUID `json:"hotel_id" gorm:"type:uuid;not null;index"`
	RoomTypeID  uuid.UUID `json:"room_type_id" gorm:"type:uuid;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Nights      int       `json:"nights" gorm:"not null;check:nights > 0"`
	Price       float64   `json:"price" gorm:"type:numeric(10,2);not null"`
	Currency    string    `json:"currency" gorm:"not null;default:brl"`
	Active      bool      `json:"active" gorm:"default:true"`

	Hotel    *Hotel    `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
	RoomType *RoomType `json:"room_type,omitempty" gorm:"foreignKey:RoomTypeID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Package) TableName() string {
	return "packages"
}

// HotelImage represents an image stored in object storage for a hotel.
type HotelImage struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HotelID     uuid.UUID `json:"hotel_id" gorm:"type:uuid;not null;index"`
	ObjectKey   string    `json:"-" gorm:"not null;uniqueIndex"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (HotelImage) TableName() string {
	return "hotel_images"
}
