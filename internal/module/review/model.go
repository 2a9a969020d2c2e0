package review

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a user's review of a hotel. One review per user per
// hotel, enforced by a composite unique index.
type Review struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_hotel"`
	HotelID uuid.UUID `json:"hotel_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_hotel;index"`
	Rating  int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string    `json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Review) TableName() string {
	return "reviews"
}
