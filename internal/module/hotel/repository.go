package hotel

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for hotel data access.
type Repository interface {
	// Hotel operations
	CreateHotel(ctx context.Context, hotel *Hotel) error
	GetHotelByID(ctx context.Context, id uuid.UUID) (*Hotel, error)
	UpdateHotel(ctx context.Context, hotel *Hotel) error
	ReplaceAmenities(ctx context.Context, hotel *Hotel, amenities []Amenity) error
	SoftDeleteHotel(ctx context.Context, id uuid.UUID) error
	ListHotels(ctx context.Context, filter *HotelFilter, pagination *Pagination) ([]*Hotel, int64, error)

	// Room type operations
	CreateRoomType(ctx context.Context, roomType *RoomType) error
	GetRoomTypeByID(ctx context.Context, id uuid.UUID) (*RoomType, error)
	UpdateRoomType(ctx context.Context, roomType *RoomType) error
	DeleteRoomType(ctx context.Context, id uuid.UUID) error
	ListRoomTypes(ctx context.Context, hotelID uuid.UUID) ([]*RoomType, error)

	// Amenity operations
	CreateAmenity(ctx context.Context, amenity *Amenity) error
	GetAmenityByID(ctx context.Context, id uuid.UUID) (*Amenity, error)
	GetAmenitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]Amenity, error)
	ListAmenities(ctx context.Context) ([]*Amenity, error)
	DeleteAmenity(ctx context.Context, id uuid.UUID) error

	// Package operations
	CreatePackage(ctx context.Context, pkg *Package) error
	GetPackageByID(ctx context.Context, id uuid.UUID) (*Package, error)
	UpdatePackage(ctx context.Context, pkg *Package) error
	DeletePackage(ctx context.Context, id uuid.UUID) error
	ListPackages(ctx context.Context, hotelID *uuid.UUID, activeOnly bool, pagination *Pagination) ([]*Package, int64, error)

	// Image operations
	CreateImage(ctx context.Context, image *HotelImage) error
	GetImageByID(ctx context.Context, id uuid.UUID) (*HotelImage, error)
	ListImages(ctx context.Context, hotelID uuid.UUID) ([]*HotelImage, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new hotel repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// --- Hotel Operations ---

func (r *repository) CreateHotel(ctx context.Context, hotel *Hotel) error {
	return r.db.WithContext(ctx).Create(hotel).Error
}

func (r *repository) GetHotelByID(ctx context.Context, id uuid.UUID) (*Hotel, error) {
	var hotel Hotel
	err := r.db.WithContext(ctx).
		Preload("Amenities").
		Preload("RoomTypes").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&hotel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &hotel, nil
}

func (r *repository) UpdateHotel(ctx context.Context, hotel *Hotel) error {
	return r.db.WithContext(ctx).Omit("Amenities", "RoomTypes").Save(hotel).Error
}

func (r *repository) ReplaceAmenities(ctx context.Context, hotel *Hotel, amenities []Amenity) error {
	return r.db.WithContext(ctx).Model(hotel).Association("Amenities").Replace(amenities)
}

func (r *repository) SoftDeleteHotel(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&Hotel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
			"deleted_at": now,
		}).Error
}

func (r *repository) ListHotels(ctx context.Context, filter *HotelFilter, pagination *Pagination) ([]*Hotel, int64, error) {
	var hotels []*Hotel
	var total int64

	query := r.db.WithContext(ctx).Model(&Hotel{}).
		Where("deleted_at IS NULL AND active = true")

	if filter != nil {
		if filter.City != nil {
			query = query.Where("city ILIKE ?", *filter.City)
		}
		if filter.Country != nil {
			query = query.Where("country ILIKE ?", *filter.Country)
		}
		if filter.Stars != nil {
			query = query.Where("stars = ?", *filter.Stars)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination != nil {
		query = query.Offset(pagination.Offset()).Limit(pagination.PageSize)
	}

	if err := query.Preload("Amenities").Order("name ASC").Find(&hotels).Error; err != nil {
		return nil, 0, err
	}

	return hotels, total, nil
}

// --- Room Type Operations ---

func (r *repository) CreateRoomType(ctx context.Context, roomType *RoomType) error {
	return r.db.WithContext(ctx).Create(roomType).Error
}

func (r *repository) GetRoomTypeByID(ctx context.Context, id uuid.UUID) (*RoomType, error) {
	var roomType RoomType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&roomType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	return &roomType, nil
}

func (r *repository) UpdateRoomType(ctx context.Context, roomType *RoomType) error {
	return r.db.WithContext(ctx).Save(roomType).Error
}

func (r *repository) DeleteRoomType(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&RoomType{}, "id = ?", id).Error
}

func (r *repository) ListRoomTypes(ctx context.Context, hotelID uuid.UUID) ([]*RoomType, error) {
	var roomTypes []*RoomType
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("price_per_night ASC").
		Find(&roomTypes).Error
	return roomTypes, err
}

// --- Amenity Operations ---

func (r *repository) CreateAmenity(ctx context.Context, amenity *Amenity) error {
	return r.db.WithContext(ctx).Create(amenity).Error
}

func (r *repository) GetAmenityByID(ctx context.Context, id uuid.UUID) (*Amenity, error) {
	var amenity Amenity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&amenity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAmenityNotFound
		}
		return nil, err
	}
	return &amenity, nil
}

func (r *repository) GetAmenitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]Amenity, error) {
	var amenities []Amenity
	if len(ids) == 0 {
		return amenities, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&amenities).Error
	return amenities, err
}

func (r *repository) ListAmenities(ctx context.Context) ([]*Amenity, error) {
	var amenities []*Amenity
	err := r.db.WithContext(ctx).Order("name ASC").Find(&amenities).Error
	return amenities, err
}

func (r *repository) DeleteAmenity(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Amenity{}, "id = ?", id).Error
}

// --- Package Operations ---

func (r *repository) CreatePackage(ctx context.Context, pkg *Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *repository) GetPackageByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	var pkg Package
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		Preload("RoomType").
		Where("id = ?", id).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) UpdatePackage(ctx context.Context, pkg *Package) error {
	return r.db.WithContext(ctx).Omit("Hotel", "RoomType").Save(pkg).Error
}

func (r *repository) DeletePackage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Package{}, "id = ?", id).Error
}

func (r *repository) ListPackages(ctx context.Context, hotelID *uuid.UUID, activeOnly bool, pagination *Pagination) ([]*Package, int64, error) {
	var packages []*Package
	var total int64

	query := r.db.WithContext(ctx).Model(&Package{})
	if hotelID != nil {
		query = query.Where("hotel_id = ?", *hotelID)
	}
	if activeOnly {
		query = query.Where("active = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination != nil {
		query = query.Offset(pagination.Offset()).Limit(pagination.PageSize)
	}

	if err := query.Preload("Hotel").Preload("RoomType").Order("created_at DESC").Find(&packages).Error; err != nil {
		return nil, 0, err
	}

	return packages, total, nil
}

// --- Image Operations ---

func (r *repository) CreateImage(ctx context.Context, image *HotelImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *repository) GetImageByID(ctx context.Context, id uuid.UUID) (*HotelImage, error) {
	var image HotelImage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *repository) ListImages(ctx context.Context, hotelID uuid.UUID) ([]*HotelImage, error) {
	var images []*HotelImage
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *repository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&HotelImage{}, "id = ?", id).Error
}
