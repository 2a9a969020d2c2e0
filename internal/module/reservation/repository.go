package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for reservation data access.
type Repository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	Update(ctx context.Context, reservation *Reservation) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter *ReservationFilter, pagination *Pagination) ([]*Reservation, int64, error)
	List(ctx context.Context, filter *ReservationFilter, pagination *Pagination) ([]*Reservation, int64, error)
	CountOverlapping(ctx context.Context, roomTypeID uuid.UUID, checkIn, checkOut time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new reservation repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) Update(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, filter *ReservationFilter, pagination *Pagination) ([]*Reservation, int64, error) {
	query := r.db.WithContext(ctx).Model(&Reservation{}).Where("user_id = ?", userID)
	return r.list(query, filter, pagination)
}

func (r *repository) List(ctx context.Context, filter *ReservationFilter, pagination *Pagination) ([]*Reservation, int64, error) {
	query := r.db.WithContext(ctx).Model(&Reservation{})
	return r.list(query, filter, pagination)
}

func (r *repository) list(query *gorm.DB, filter *ReservationFilter, pagination *Pagination) ([]*Reservation, int64, error) {
	var reservations []*Reservation
	var total int64

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.HotelID != nil {
			query = query.Where("hotel_id = ?", *filter.HotelID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination != nil {
		query = query.Offset(pagination.Offset()).Limit(pagination.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&reservations).Error; err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// CountOverlapping counts non-cancelled reservations of the given room type
// whose stay overlaps the [checkIn, checkOut) range.
func (r *repository) CountOverlapping(ctx context.Context, roomTypeID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("room_type_id = ?", roomTypeID).
		Where("status IN ?", []ReservationStatus{StatusPending, StatusConfirmed}).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Count(&count).Error
	return count, err
}
