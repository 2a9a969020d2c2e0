package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateReviewRequest represents a request to create a review.
type CreateReviewRequest struct {
	HotelID uuid.UUID `json:"hotel_id" binding:"required"`
	Rating  int       `json:"rating" binding:"required,min=1,max=5"`
	Comment string    `json:"comment"`
}

// UpdateReviewRequest represents a request to update a review.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// HotelRating summarizes a hotel's reviews.
type HotelRating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Service provides review operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new review service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create creates a review for a hotel. A user may only review a hotel once.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	existing, err := s.repo.GetByUserAndHotel(ctx, userID, req.HotelID)
	if err != nil && !errors.Is(err, ErrReviewNotFound) {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}

	review := &Review{
		ID:      uuid.New(),
		UserID:  userID,
		HotelID: req.HotelID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}

// Update updates a review. Only the owner may update.
func (s *Service) Update(ctx context.Context, id, callerID uuid.UUID, req *UpdateReviewRequest) (*Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if review.UserID != callerID {
		return nil, ErrForbidden
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, ErrInvalidRating
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return review, nil
}

// Delete deletes a review. Only the owner or an admin may delete.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && review.UserID != callerID {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// ListByHotel returns all reviews of a hotel.
func (s *Service) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*Review, error) {
	return s.repo.ListByHotel(ctx, hotelID)
}

// Rating returns the average rating and review count of a hotel.
func (s *Service) Rating(ctx context.Context, hotelID uuid.UUID) (*HotelRating, error) {
	avg, count, err := s.repo.AverageRating(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	return &HotelRating{Average: avg, Count: count}, nil
}
