package hotel

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	hotels    map[uuid.UUID]*Hotel
	roomTypes map[uuid.UUID]*RoomType
	amenities map[uuid.UUID]*Amenity
	packages  map[uuid.UUID]*Package
	images    map[uuid.UUID]*HotelImage
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		hotels:    make(map[uuid.UUID]*Hotel),
		roomTypes: make(map[uuid.UUID]*RoomType),
		amenities: make(map[uuid.UUID]*Amenity),
		packages:  make(map[uuid.UUID]*Package),
		images:    make(map[uuid.UUID]*HotelImage),
	}
}

func (f *fakeRepo) CreateHotel(_ context.Context, h *Hotel) error {
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeRepo) GetHotelByID(_ context.Context, id uuid.UUID) (*Hotel, error) {
	h, ok := f.hotels[id]
	if !ok || h.DeletedAt != nil {
		return nil, ErrHotelNotFound
	}
	return h, nil
}

func (f *fakeRepo) UpdateHotel(_ context.Context, h *Hotel) error {
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeRepo) ReplaceAmenities(_ context.Context, h *Hotel, amenities []Amenity) error {
	h.Amenities = amenities
	return nil
}

func (f *fakeRepo) SoftDeleteHotel(_ context.Context, id uuid.UUID) error {
	if h, ok := f.hotels[id]; ok {
		h.Active = false
		now := time.Now()
		h.DeletedAt = &now
	}
	return nil
}

func (f *fakeRepo) ListHotels(_ context.Context, _ *HotelFilter, _ *Pagination) ([]*Hotel, int64, error) {
	var hotels []*Hotel
	for _, h := range f.hotels {
		if h.DeletedAt == nil && h.Active {
			hotels = append(hotels, h)
		}
	}
	return hotels, int64(len(hotels)), nil
}

func (f *fakeRepo) CreateRoomType(_ context.Context, rt *RoomType) error {
	f.roomTypes[rt.ID] = rt
	return nil
}

func (f *fakeRepo) GetRoomTypeByID(_ context.Context, id uuid.UUID) (*RoomType, error) {
	rt, ok := f.roomTypes[id]
	if !ok {
		return nil, ErrRoomTypeNotFound
	}
	return rt, nil
}

func (f *fakeRepo) UpdateRoomType(_ context.Context, rt *RoomType) error {
	f.roomTypes[rt.ID] = rt
	return nil
}

func (f *fakeRepo) DeleteRoomType(_ context.Context, id uuid.UUID) error {
	delete(f.roomTypes, id)
	return nil
}

func (f *fakeRepo) ListRoomTypes(_ context.Context, hotelID uuid.UUID) ([]*RoomType, error) {
	var roomTypes []*RoomType
	for _, rt := range f.roomTypes {
		if rt.HotelID == hotelID {
			roomTypes = append(roomTypes, rt)
		}
	}
	return roomTypes, nil
}

func (f *fakeRepo) CreateAmenity(_ context.Context, a *Amenity) error {
	f.amenities[a.ID] = a
	return nil
}

func (f *fakeRepo) GetAmenityByID(_ context.Context, id uuid.UUID) (*Amenity, error) {
	a, ok := f.amenities[id]
	if !ok {
		return nil, ErrAmenityNotFound
	}
	return a, nil
}

func (f *fakeRepo) GetAmenitiesByIDs(_ context.Context, ids []uuid.UUID) ([]Amenity, error) {
	var amenities []Amenity
	for _, id := range ids {
		if a, ok := f.amenities[id]; ok {
			amenities = append(amenities, *a)
		}
	}
	return amenities, nil
}

func (f *fakeRepo) ListAmenities(_ context.Context) ([]*Amenity, error) {
	var amenities []*Amenity
	for _, a := range f.amenities {
		amenities = append(amenities, a)
	}
	return amenities, nil
}

func (f *fakeRepo) DeleteAmenity(_ context.Context, id uuid.UUID) error {
	delete(f.amenities, id)
	return nil
}

func (f *fakeRepo) CreatePackage(_ context.Context, p *Package) error {
	f.packages[p.ID] = p
	return nil
}

func (f *fakeRepo) GetPackageByID(_ context.Context, id uuid.UUID) (*Package, error) {
	p, ok := f.packages[id]
	if !ok {
		return nil, ErrPackageNotFound
	}
	return p, nil
}

func (f *fakeRepo) UpdatePackage(_ context.Context, p *Package) error {
	f.packages[p.ID] = p
	return nil
}

func (f *fakeRepo) DeletePackage(_ context.Context, id uuid.UUID) error {
	delete(f.packages, id)
	return nil
}

func (f *fakeRepo) ListPackages(_ context.Context, hotelID *uuid.UUID, activeOnly bool, _ *Pagination) ([]*Package, int64, error) {
	var packages []*Package
	for _, p := range f.packages {
		if hotelID != nil && p.HotelID != *hotelID {
			continue
		}
		if activeOnly && !p.Active {
			continue
		}
		packages = append(packages, p)
	}
	return packages, int64(len(packages)), nil
}

func (f *fakeRepo) CreateImage(_ context.Context, img *HotelImage) error {
	f.images[img.ID] = img
	return nil
}

func (f *fakeRepo) GetImageByID(_ context.Context, id uuid.UUID) (*HotelImage, error) {
	img, ok := f.images[id]
	if !ok {
		return nil, ErrImageNotFound
	}
	return img, nil
}

func (f *fakeRepo) ListImages(_ context.Context, hotelID uuid.UUID) ([]*HotelImage, error) {
	var images []*HotelImage
	for _, img := range f.images {
		if img.HotelID == hotelID {
			images = append(images, img)
		}
	}
	return images, nil
}

func (f *fakeRepo) DeleteImage(_ context.Context, id uuid.UUID) error {
	delete(f.images, id)
	return nil
}

func seedHotel(t *testing.T, repo *fakeRepo) *Hotel {
	t.Helper()
	h := &Hotel{ID: uuid.New(), Name: "Grand Plaza", City: "Rio de Janeiro", Country: "Brazil", Stars: 5, Active: true}
	require.NoError(t, repo.CreateHotel(context.Background(), h))
	return h
}

func TestCreateHotel(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, nil, zap.NewNop())

	t.Run("success", func(t *testing.T) {
		hotel, err := svc.CreateHotel(ctx, &CreateHotelRequest{
			Name: "Grand Plaza", City: "Rio de Janeiro", Country: "Brazil", Stars: 5,
		})
		require.NoError(t, err)
		assert.True(t, hotel.Active)
		assert.Equal(t, 5, hotel.Stars)
	})

	t.Run("invalid stars", func(t *testing.T) {
		_, err := svc.CreateHotel(ctx, &CreateHotelRequest{
			Name: "Bad", City: "X", Country: "Y", Stars: 7,
		})
		assert.ErrorIs(t, err, ErrInvalidStars)
	})
}

func TestCreatePackage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, nil, zap.NewNop())

	hotel := seedHotel(t, repo)
	roomType := &RoomType{ID: uuid.New(), HotelID: hotel.ID, Name: "Deluxe", Capacity: 2, PricePerNight: 300}
	require.NoError(t, repo.CreateRoomType(ctx, roomType))

	t.Run("success with default currency", func(t *testing.T) {
		pkg, err := svc.CreatePackage(ctx, &CreatePackageRequest{
			HotelID:    hotel.ID,
			RoomTypeID: roomType.ID,
			Title:      "Carnival Week",
			Nights:     7,
			Price:      2100,
		})
		require.NoError(t, err)
		assert.Equal(t, "brl", pkg.Currency)
		assert.True(t, pkg.Active)
	})

	t.Run("room type from another hotel", func(t *testing.T) {
		other := seedHotel(t, repo)
		otherRoom := &RoomType{ID: uuid.New(), HotelID: other.ID, Name: "Suite", Capacity: 4, PricePerNight: 500}
		require.NoError(t, repo.CreateRoomType(ctx, otherRoom))

		_, err := svc.CreatePackage(ctx, &CreatePackageRequest{
			HotelID:    hotel.ID,
			RoomTypeID: otherRoom.ID,
			Title:      "Mismatch",
			Nights:     3,
			Price:      900,
		})
		assert.ErrorIs(t, err, ErrRoomTypeMismatch)
	})

	t.Run("unknown hotel", func(t *testing.T) {
		_, err := svc.CreatePackage(ctx, &CreatePackageRequest{
			HotelID:    uuid.New(),
			RoomTypeID: roomType.ID,
			Title:      "Ghost",
			Nights:     1,
			Price:      100,
		})
		assert.ErrorIs(t, err, ErrHotelNotFound)
	})
}

func TestImageOperations_StorageUnconfigured(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, nil, zap.NewNop())
	hotel := seedHotel(t, repo)

	_, err := svc.UploadImage(ctx, hotel.ID, nil, 0, "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = svc.ListImages(ctx, hotel.ID)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = svc.DeleteImage(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
