package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roamstay/server/internal/module/hotel"
	"go.uber.org/zap"
)

// Service provides reservation operations.
type Service struct {
	repo    Repository
	catalog Catalog
	sm      *StateMachine
	logger  *zap.Logger
}

// NewService creates a new reservation service.
func NewService(repo Repository, catalog Catalog, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		sm:      NewStateMachine(),
		logger:  logger,
	}
}

// Create creates a new pending reservation after validating dates,
// capacity and availability.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateReservationRequest) (*Reservation, error) {
	if !req.CheckOut.After(req.CheckIn) {
		return nil, ErrInvalidDateRange
	}
	if req.CheckIn.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, ErrCheckInInPast
	}

	var (
		hotelID    = req.HotelID
		roomTypeID = req.RoomTypeID
		totalPrice float64
		currency   = "brl"
	)

	if req.PackageID != nil {
		pkg, err := s.catalog.GetPackage(ctx, *req.PackageID)
		if err != nil {
			if errors.Is(err, hotel.ErrPackageNotFound) {
				return nil, ErrPackageNotFound
			}
			return nil, err
		}
		hotelID = pkg.HotelID
		roomTypeID = pkg.RoomTypeID
		totalPrice = pkg.Price
		currency = pkg.Currency
	}

	if _, err := s.catalog.GetHotel(ctx, hotelID); err != nil {
		if errors.Is(err, hotel.ErrHotelNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}

	roomType, err := s.catalog.GetRoomType(ctx, roomTypeID)
	if err != nil {
		if errors.Is(err, hotel.ErrRoomTypeNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	if roomType.HotelID != hotelID {
		return nil, ErrRoomTypeNotFound
	}

	if req.GuestCount > roomType.Capacity {
		return nil, ErrCapacityExceeded
	}

	// Without a package the price is nights at the room type rate
	if req.PackageID == nil {
		nights := int(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
		totalPrice = float64(nights) * roomType.PricePerNight
	}

	overlapping, err := s.repo.CountOverlapping(ctx, roomTypeID, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if overlapping >= int64(roomType.TotalRooms) {
		return nil, ErrRoomUnavailable
	}

	reservation := &Reservation{
		ID:         uuid.New(),
		UserID:     userID,
		HotelID:    hotelID,
		RoomTypeID: roomTypeID,
		PackageID:  req.PackageID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		GuestCount: req.GuestCount,
		TotalPrice: totalPrice,
		Currency:   currency,
		Status:     StatusPending,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("total_price", totalPrice),
	)

	return reservation, nil
}

// Get returns a reservation. Non-admin callers can only read their own.
func (s *Service) Get(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && reservation.UserID != callerID {
		return nil, ErrForbidden
	}

	return reservation, nil
}

// ListForUser returns the caller's reservations.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, filter *ReservationFilter, pagination *Pagination) ([]*Reservation, int64, error) {
	return s.repo.ListByUser(ctx, userID, filter, pagination)
}

// ListAll returns all reservations (admin).
func (s *Service) ListAll(ctx context.Context, filter *ReservationFilter, pagination *Pagination) ([]*Reservation, int64, error) {
	return s.repo.List(ctx, filter, pagination)
}

// Cancel cancels a reservation. Only the owner or an admin may cancel,
// and only from pending or confirmed.
func (s *Service) Cancel(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && reservation.UserID != callerID {
		return nil, ErrForbidden
	}

	if err := s.sm.Transition(reservation, StatusCancelled); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}

	s.logger.Info("reservation cancelled",
		zap.String("reservation_id", id.String()),
	)

	return reservation, nil
}

// Complete marks a confirmed reservation as completed (admin, after stay).
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.sm.Transition(reservation, StatusCompleted); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}

	return reservation, nil
}

// GetByIDInternal returns a reservation without ownership checks.
// Used by the payment flow which does its own ownership validation.
func (s *Service) GetByIDInternal(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// ConfirmTx transitions a reservation to confirmed using the supplied
// transaction-scoped repository update. The payment service calls this
// inside the same transaction that persists the payment row.
func (s *Service) ConfirmTx(reservation *Reservation) error {
	return s.sm.Transition(reservation, StatusConfirmed)
}

// Confirm transitions a reservation to confirmed and persists it.
// Already-confirmed reservations are left untouched, so webhook
// redeliveries stay idempotent.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) error {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reservation.Status == StatusConfirmed {
		return nil
	}
	if err := s.sm.Transition(reservation, StatusConfirmed); err != nil {
		return err
	}
	return s.repo.Update(ctx, reservation)
}
