package hotel

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const imageURLExpiry = 15 * time.Minute

// Service provides hotel catalog operations.
type Service struct {
	repo    Repository
	storage ObjectStorage
	logger  *zap.Logger
}

// NewService creates a new hotel service.
// storage may be nil when object storage is not configured; image
// operations then fail with ErrStorageUnavailable.
func NewService(repo Repository, storage ObjectStorage, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// --- Hotel Operations ---

// CreateHotel creates a new hotel.
func (s *Service) CreateHotel(ctx context.Context, req *CreateHotelRequest) (*Hotel, error) {
	if req.Stars < 1 || req.Stars > 5 {
		return nil, ErrInvalidStars
	}

	amenities, err := s.repo.GetAmenitiesByIDs(ctx, req.AmenityIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve amenities: %w", err)
	}

	hotel := &Hotel{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Stars:       req.Stars,
		Active:      true,
		Amenities:   amenities,
	}

	if err := s.repo.CreateHotel(ctx, hotel); err != nil {
		return nil, fmt.Errorf("create hotel: %w", err)
	}

	s.logger.Info("hotel created",
		zap.String("hotel_id", hotel.ID.String()),
		zap.String("name", hotel.Name),
	)

	return hotel, nil
}

// GetHotel returns a hotel by ID with its amenities and room types.
func (s *Service) GetHotel(ctx context.Context, id uuid.UUID) (*Hotel, error) {
	return s.repo.GetHotelByID(ctx, id)
}

// UpdateHotel updates a hotel.
func (s *Service) UpdateHotel(ctx context.Context, id uuid.UUID, req *UpdateHotelRequest) (*Hotel, error) {
	hotel, err := s.repo.GetHotelByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hotel.Name = *req.Name
	}
	if req.Description != nil {
		hotel.Description = *req.Description
	}
	if req.Address != nil {
		hotel.Address = *req.Address
	}
	if req.City != nil {
		hotel.City = *req.City
	}
	if req.Country != nil {
		hotel.Country = *req.Country
	}
	if req.Stars != nil {
		if *req.Stars < 1 || *req.Stars > 5 {
			return nil, ErrInvalidStars
		}
		hotel.Stars = *req.Stars
	}
	if req.Active != nil {
		hotel.Active = *req.Active
	}

	if err := s.repo.UpdateHotel(ctx, hotel); err != nil {
		return nil, fmt.Errorf("update hotel: %w", err)
	}

	if req.AmenityIDs != nil {
		amenities, err := s.repo.GetAmenitiesByIDs(ctx, *req.AmenityIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve amenities: %w", err)
		}
		if err := s.repo.ReplaceAmenities(ctx, hotel, amenities); err != nil {
			return nil, fmt.Errorf("replace amenities: %w", err)
		}
		hotel.Amenities = amenities
	}

	return hotel, nil
}

// DeleteHotel soft deletes a hotel.
func (s *Service) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetHotelByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDeleteHotel(ctx, id)
}

// ListHotels returns a paginated list of active hotels.
func (s *Service) ListHotels(ctx context.Context, filter *HotelFilter, pagination *Pagination) ([]*Hotel, int64, error) {
	return s.repo.ListHotels(ctx, filter, pagination)
}

// --- Room Type Operations ---

// CreateRoomType adds a room type to a hotel.
func (s *Service) CreateRoomType(ctx context.Context, hotelID uuid.UUID, req *CreateRoomTypeRequest) (*RoomType, error) {
	if _, err := s.repo.GetHotelByID(ctx, hotelID); err != nil {
		return nil, err
	}

	roomType := &RoomType{
		ID:            uuid.New(),
		HotelID:       hotelID,
		Name:          req.Name,
		Description:   req.Description,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		TotalRooms:    req.TotalRooms,
	}

	if err := s.repo.CreateRoomType(ctx, roomType); err != nil {
		return nil, fmt.Errorf("create room type: %w", err)
	}

	return roomType, nil
}

// GetRoomType returns a room type by ID.
func (s *Service) GetRoomType(ctx context.Context, id uuid.UUID) (*RoomType, error) {
	return s.repo.GetRoomTypeByID(ctx, id)
}

// UpdateRoomType updates a room type.
func (s *Service) UpdateRoomType(ctx context.Context, id uuid.UUID, req *UpdateRoomTypeRequest) (*RoomType, error) {
	roomType, err := s.repo.GetRoomTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		roomType.Name = *req.Name
	}
	if req.Description != nil {
		roomType.Description = *req.Description
	}
	if req.Capacity != nil {
		roomType.Capacity = *req.Capacity
	}
	if req.PricePerNight != nil {
		roomType.PricePerNight = *req.PricePerNight
	}
	if req.TotalRooms != nil {
		roomType.TotalRooms = *req.TotalRooms
	}

	if err := s.repo.UpdateRoomType(ctx, roomType); err != nil {
		return nil, fmt.Errorf("update room type: %w", err)
	}

	return roomType, nil
}

// DeleteRoomType deletes a room type.
func (s *Service) DeleteRoomType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetRoomTypeByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteRoomType(ctx, id)
}

// ListRoomTypes returns the room types of a hotel.
func (s *Service) ListRoomTypes(ctx context.Context, hotelID uuid.UUID) ([]*RoomType, error) {
	if _, err := s.repo.GetHotelByID(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.repo.ListRoomTypes(ctx, hotelID)
}

// --- Amenity Operations ---

// CreateAmenity creates a new amenity.
func (s *Service) CreateAmenity(ctx context.Context, req *CreateAmenityRequest) (*Amenity, error) {
	amenity := &Amenity{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.CreateAmenity(ctx, amenity); err != nil {
		return nil, fmt.Errorf("create amenity: %w", err)
	}

	return amenity, nil
}

// ListAmenities returns all amenities.
func (s *Service) ListAmenities(ctx context.Context) ([]*Amenity, error) {
	return s.repo.ListAmenities(ctx)
}

// DeleteAmenity deletes an amenity.
func (s *Service) DeleteAmenity(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetAmenityByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteAmenity(ctx, id)
}

// --- Package Operations ---

// CreatePackage creates a new travel package.
func (s *Service) CreatePackage(ctx context.Context, req *CreatePackageRequest) (*Package, error) {
	if _, err := s.repo.GetHotelByID(ctx, req.HotelID); err != nil {
		return nil, err
	}

	roomType, err := s.repo.GetRoomTypeByID(ctx, req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType.HotelID != req.HotelID {
		return nil, ErrRoomTypeMismatch
	}

	currency := req.Currency
	if currency == "" {
		currency = "brl"
	}

	pkg := &Package{
		ID:          uuid.New(),
		HotelID:     req.HotelID,
		RoomTypeID:  req.RoomTypeID,
		Title:       req.Title,
		Description: req.Description,
		Nights:      req.Nights,
		Price:       req.Price,
		Currency:    currency,
		Active:      true,
	}

	if err := s.repo.CreatePackage(ctx, pkg); err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	return pkg, nil
}

// GetPackage returns a package by ID.
func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	return s.repo.GetPackageByID(ctx, id)
}

// UpdatePackage updates a travel package.
func (s *Service) UpdatePackage(ctx context.Context, id uuid.UUID, req *UpdatePackageRequest) (*Package, error) {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		pkg.Title = *req.Title
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.Nights != nil {
		pkg.Nights = *req.Nights
	}
	if req.Price != nil {
		pkg.Price = *req.Price
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}

	if err := s.repo.UpdatePackage(ctx, pkg); err != nil {
		return nil, fmt.Errorf("update package: %w", err)
	}

	return pkg, nil
}

// DeletePackage deletes a travel package.
func (s *Service) DeletePackage(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetPackageByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeletePackage(ctx, id)
}

// ListPackages returns a paginated list of packages.
func (s *Service) ListPackages(ctx context.Context, hotelID *uuid.UUID, activeOnly bool, pagination *Pagination) ([]*Package, int64, error) {
	return s.repo.ListPackages(ctx, hotelID, activeOnly, pagination)
}

// --- Image Operations ---

// UploadImage stores an image for a hotel in object storage.
func (s *Service) UploadImage(ctx context.Context, hotelID uuid.UUID, body io.Reader, size int64, contentType string) (*HotelImage, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	if _, err := s.repo.GetHotelByID(ctx, hotelID); err != nil {
		return nil, err
	}

	image := &HotelImage{
		ID:          uuid.New(),
		HotelID:     hotelID,
		ContentType: contentType,
		Size:        size,
	}
	image.ObjectKey = fmt.Sprintf("hotels/%s/images/%s", hotelID, image.ID)

	if err := s.storage.PutObject(ctx, image.ObjectKey, body, size, contentType); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	if err := s.repo.CreateImage(ctx, image); err != nil {
		// Best effort cleanup of the orphaned object
		if delErr := s.storage.DeleteObject(ctx, image.ObjectKey); delErr != nil {
			s.logger.Warn("failed to clean up orphaned image object",
				zap.String("key", image.ObjectKey),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("create image record: %w", err)
	}

	return image, nil
}

// ListImages returns the images of a hotel with presigned download URLs.
func (s *Service) ListImages(ctx context.Context, hotelID uuid.UUID) ([]*ImageResponse, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	if _, err := s.repo.GetHotelByID(ctx, hotelID); err != nil {
		return nil, err
	}

	images, err := s.repo.ListImages(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ImageResponse, 0, len(images))
	for _, img := range images {
		url, err := s.storage.PresignDownload(ctx, img.ObjectKey, imageURLExpiry)
		if err != nil {
			s.logger.Warn("failed to presign image url",
				zap.String("image_id", img.ID.String()),
				zap.Error(err),
			)
			continue
		}
		responses = append(responses, &ImageResponse{
			ID:          img.ID,
			ContentType: img.ContentType,
			Size:        img.Size,
			URL:         url,
		})
	}

	return responses, nil
}

// DeleteImage deletes an image from storage and the database.
func (s *Service) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	if s.storage == nil {
		return ErrStorageUnavailable
	}

	image, err := s.repo.GetImageByID(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, image.ObjectKey); err != nil && err != ErrObjectNotFound {
		return fmt.Errorf("delete image object: %w", err)
	}

	return s.repo.DeleteImage(ctx, imageID)
}
