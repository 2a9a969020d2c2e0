package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roamstay/server/internal/module/hotel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	reservations map[uuid.UUID]*Reservation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reservations: make(map[uuid.UUID]*Reservation)}
}

func (f *fakeRepo) Create(_ context.Context, r *Reservation) error {
	f.reservations[r.ID] = r
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return r, nil
}

func (f *fakeRepo) Update(_ context.Context, r *Reservation) error {
	f.reservations[r.ID] = r
	return nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID, _ *ReservationFilter, _ *Pagination) ([]*Reservation, int64, error) {
	var out []*Reservation
	for _, r := range f.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) List(_ context.Context, _ *ReservationFilter, _ *Pagination) ([]*Reservation, int64, error) {
	var out []*Reservation
	for _, r := range f.reservations {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) CountOverlapping(_ context.Context, roomTypeID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	var count int64
	for _, r := range f.reservations {
		if r.RoomTypeID != roomTypeID {
			continue
		}
		if r.Status != StatusPending && r.Status != StatusConfirmed {
			continue
		}
		if r.CheckIn.Before(checkOut) && r.CheckOut.After(checkIn) {
			count++
		}
	}
	return count, nil
}

type fakeCatalog struct {
	hotels    map[uuid.UUID]*hotel.Hotel
	roomTypes map[uuid.UUID]*hotel.RoomType
	packages  map[uuid.UUID]*hotel.Package
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		hotels:    make(map[uuid.UUID]*hotel.Hotel),
		roomTypes: make(map[uuid.UUID]*hotel.RoomType),
		packages:  make(map[uuid.UUID]*hotel.Package),
	}
}

func (f *fakeCatalog) GetHotel(_ context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return nil, hotel.ErrHotelNotFound
	}
	return h, nil
}

func (f *fakeCatalog) GetRoomType(_ context.Context, id uuid.UUID) (*hotel.RoomType, error) {
	rt, ok := f.roomTypes[id]
	if !ok {
		return nil, hotel.ErrRoomTypeNotFound
	}
	return rt, nil
}

func (f *fakeCatalog) GetPackage(_ context.Context, id uuid.UUID) (*hotel.Package, error) {
	p, ok := f.packages[id]
	if !ok {
		return nil, hotel.ErrPackageNotFound
	}
	return p, nil
}

type fixture struct {
	repo     *fakeRepo
	catalog  *fakeCatalog
	svc      *Service
	hotelID  uuid.UUID
	roomID   uuid.UUID
	checkIn  time.Time
	checkOut time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo()
	catalog := newFakeCatalog()

	hotelID := uuid.New()
	roomID := uuid.New()
	catalog.hotels[hotelID] = &hotel.Hotel{ID: hotelID, Name: "Grand Plaza", Active: true}
	catalog.roomTypes[roomID] = &hotel.RoomType{
		ID: roomID, HotelID: hotelID, Name: "Deluxe",
		Capacity: 2, PricePerNight: 300, TotalRooms: 2,
	}

	return &fixture{
		repo:     repo,
		catalog:  catalog,
		svc:      NewService(repo, catalog, zap.NewNop()),
		hotelID:  hotelID,
		roomID:   roomID,
		checkIn:  time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		checkOut: time.Now().AddDate(0, 0, 10).Truncate(24 * time.Hour),
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success prices nights at room rate", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, res.Status)
		assert.InDelta(t, 900.0, res.TotalPrice, 0.001) // 3 nights x 300
		assert.Equal(t, "brl", res.Currency)
	})

	t.Run("package fixes price and room", func(t *testing.T) {
		f := newFixture(t)

		pkgID := uuid.New()
		f.catalog.packages[pkgID] = &hotel.Package{
			ID: pkgID, HotelID: f.hotelID, RoomTypeID: f.roomID,
			Title: "Carnival Week", Nights: 3, Price: 750, Currency: "brl", Active: true,
		}

		res, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			PackageID:  &pkgID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 2,
		})
		require.NoError(t, err)
		assert.InDelta(t, 750.0, res.TotalPrice, 0.001)
		assert.Equal(t, f.roomID, res.RoomTypeID)
		assert.Equal(t, f.hotelID, res.HotelID)
	})

	t.Run("invalid date range", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkOut,
			CheckOut:   f.checkIn,
			GuestCount: 1,
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("check-in in past", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    time.Now().AddDate(0, 0, -2),
			CheckOut:   time.Now().AddDate(0, 0, 2),
			GuestCount: 1,
		})
		assert.ErrorIs(t, err, ErrCheckInInPast)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 5,
		})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("no rooms available", func(t *testing.T) {
		f := newFixture(t)

		// Fill both rooms for the date range
		for i := 0; i < 2; i++ {
			_, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
				HotelID:    f.hotelID,
				RoomTypeID: f.roomID,
				CheckIn:    f.checkIn,
				CheckOut:   f.checkOut,
				GuestCount: 2,
			})
			require.NoError(t, err)
		}

		_, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 2,
		})
		assert.ErrorIs(t, err, ErrRoomUnavailable)
	})

	t.Run("non-overlapping dates allowed", func(t *testing.T) {
		f := newFixture(t)

		for i := 0; i < 2; i++ {
			_, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
				HotelID:    f.hotelID,
				RoomTypeID: f.roomID,
				CheckIn:    f.checkIn,
				CheckOut:   f.checkOut,
				GuestCount: 2,
			})
			require.NoError(t, err)
		}

		// Starts exactly at previous check-out
		_, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkOut,
			CheckOut:   f.checkOut.AddDate(0, 0, 2),
			GuestCount: 2,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown package", func(t *testing.T) {
		f := newFixture(t)
		pkgID := uuid.New()

		_, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			PackageID:  &pkgID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 1,
		})
		assert.ErrorIs(t, err, ErrPackageNotFound)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can cancel pending", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()

		res, err := f.svc.Create(ctx, userID, &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 1,
		})
		require.NoError(t, err)

		cancelled, err := f.svc.Cancel(ctx, res.ID, userID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)
	})

	t.Run("other user cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()

		res, err := f.svc.Create(ctx, userID, &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 1,
		})
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, res.ID, uuid.New(), false)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin can cancel any", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.Create(ctx, uuid.New(), &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 1,
		})
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, res.ID, uuid.New(), true)
		assert.NoError(t, err)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()

		res, err := f.svc.Create(ctx, userID, &CreateReservationRequest{
			HotelID:    f.hotelID,
			RoomTypeID: f.roomID,
			CheckIn:    f.checkIn,
			CheckOut:   f.checkOut,
			GuestCount: 1,
		})
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, res.ID, userID, false)
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, res.ID, userID, false)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = f.svc.Complete(ctx, res.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := uuid.New()

	res, err := f.svc.Create(ctx, userID, &CreateReservationRequest{
		HotelID:    f.hotelID,
		RoomTypeID: f.roomID,
		CheckIn:    f.checkIn,
		CheckOut:   f.checkOut,
		GuestCount: 1,
	})
	require.NoError(t, err)

	// Pending cannot complete directly
	_, err = f.svc.Complete(ctx, res.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, f.svc.ConfirmTx(res))
	require.NoError(t, f.repo.Update(ctx, res))

	completed, err := f.svc.Complete(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
}
