package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	reviews map[uuid.UUID]*Review
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reviews: make(map[uuid.UUID]*Review)}
}

func (f *fakeRepo) Create(_ context.Context, r *Review) error {
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	return r, nil
}

func (f *fakeRepo) GetByUserAndHotel(_ context.Context, userID, hotelID uuid.UUID) (*Review, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.HotelID == hotelID {
			return r, nil
		}
	}
	return nil, ErrReviewNotFound
}

func (f *fakeRepo) Update(_ context.Context, r *Review) error {
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.reviews, id)
	return nil
}

func (f *fakeRepo) ListByHotel(_ context.Context, hotelID uuid.UUID) ([]*Review, error) {
	var out []*Review
	for _, r := range f.reviews {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) AverageRating(_ context.Context, hotelID uuid.UUID) (float64, int64, error) {
	var sum, count int64
	for _, r := range f.reviews {
		if r.HotelID == hotelID {
			sum += int64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), zap.NewNop())
	userID := uuid.New()
	hotelID := uuid.New()

	t.Run("success", func(t *testing.T) {
		review, err := svc.Create(ctx, userID, &CreateReviewRequest{
			HotelID: hotelID, Rating: 4, Comment: "great pool",
		})
		require.NoError(t, err)
		assert.Equal(t, 4, review.Rating)
	})

	t.Run("one review per user per hotel", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, &CreateReviewRequest{
			HotelID: hotelID, Rating: 5,
		})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("invalid rating", func(t *testing.T) {
		_, err := svc.Create(ctx, uuid.New(), &CreateReviewRequest{
			HotelID: hotelID, Rating: 6,
		})
		assert.ErrorIs(t, err, ErrInvalidRating)
	})
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	review, err := svc.Create(ctx, userID, &CreateReviewRequest{
		HotelID: uuid.New(), Rating: 3,
	})
	require.NoError(t, err)

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, review.ID, uuid.New(), false)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin can delete", func(t *testing.T) {
		err := svc.Delete(ctx, review.ID, uuid.New(), true)
		assert.NoError(t, err)
	})
}

func TestRating(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	hotelID := uuid.New()

	for _, rating := range []int{3, 5} {
		_, err := svc.Create(ctx, uuid.New(), &CreateReviewRequest{
			HotelID: hotelID, Rating: rating,
		})
		require.NoError(t, err)
	}

	rating, err := svc.Rating(ctx, hotelID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, rating.Average, 0.001)
	assert.Equal(t, int64(2), rating.Count)
}
