package hotel

import (
	"github.com/google/uuid"
)

// CreateHotelRequest represents a request to create a hotel.
type CreateHotelRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	City        string      `json:"city" binding:"required"`
	Country     string      `json:"country" binding:"required"`
	Stars       int         `json:"stars" binding:"required,min=1,max=5"`
	AmenityIDs  []uuid.UUID `json:"amenity_ids"`
}

// UpdateHotelRequest represents a request to update a hotel.
type UpdateHotelRequest struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Address     *string      `json:"address,omitempty"`
	City        *string      `json:"city,omitempty"`
	Country     *string      `json:"country,omitempty"`
	Stars       *int         `json:"stars,omitempty"`
	Active      *bool        `json:"active,omitempty"`
	AmenityIDs  *[]uuid.UUID `json:"amenity_ids,omitempty"`
}

// CreateRoomTypeRequest represents a request to add a room type to a hotel.
type CreateRoomTypeRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Capacity      int     `json:"capacity" binding:"required,min=1"`
	PricePerNight float64 `json:"price_per_night" binding:"required,gt=0"`
	TotalRooms    int     `json:"total_rooms" binding:"required,min=1"`
}

// UpdateRoomTypeRequest represents a request to update a room type.
type UpdateRoomTypeRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Capacity      *int     `json:"capacity,omitempty"`
	PricePerNight *float64 `json:"price_per_night,omitempty"`
	TotalRooms    *int     `json:"total_rooms,omitempty"`
}

// CreateAmenityRequest represents a request to create an amenity.
type CreateAmenityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreatePackageRequest represents a request to create a travel package.
type CreatePackageRequest struct {
	HotelID     uuid.UUID `json:"hotel_id" binding:"required"`
	RoomTypeID  uuid.UUID `json:"room_type_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Nights      int       `json:"nights" binding:"required,min=1"`
	Price       float64   `json:"price" binding:"required,gt=0"`
	Currency    string    `json:"currency"`
}

// UpdatePackageRequest represents a request to update a travel package.
type UpdatePackageRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Nights      *int     `json:"nights,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// HotelFilter represents filters for listing hotels.
type HotelFilter struct {
	City    *string `form:"city"`
	Country *string `form:"country"`
	Stars   *int    `form:"stars"`
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

// HotelListResponse represents a paginated list of hotels.
type HotelListResponse struct {
	Hotels   []*Hotel `json:"hotels"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

// ImageResponse represents a hotel image with a presigned download URL.
type ImageResponse struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
