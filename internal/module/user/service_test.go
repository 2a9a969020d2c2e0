package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/roamstay/server/internal/module/auth"
	"github.com/roamstay/server/internal/shared/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.byID[id]
	if !ok || u.DeletedAt != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok || u.DeletedAt != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeRepo) SetStripeCustomerID(_ context.Context, id uuid.UUID, customerID string) error {
	if u, ok := f.byID[id]; ok {
		u.StripeCustomerID = &customerID
	}
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := f.byID[id]; ok {
		now := time.Now()
		u.Status = UserStatusDeleted
		u.DeletedAt = &now
	}
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ *UserFilter, _ *Pagination) ([]*User, int64, error) {
	var users []*User
	for _, u := range f.byID {
		if u.DeletedAt == nil {
			users = append(users, u)
		}
	}
	return users, int64(len(users)), nil
}

func newTestService(repo Repository) *Service {
	jwt := auth.NewJWTManager(&auth.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour})
	return NewService(repo, jwt, nil, zap.NewNop())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc := newTestService(newFakeRepo())

		user, err := svc.Register(ctx, &RegisterRequest{
			Email:    "guest@example.com",
			Password: "password123",
			Name:     "Guest",
		})
		require.NoError(t, err)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := newTestService(newFakeRepo())

		_, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "password123", Name: "A"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "password456", Name: "B"})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("short password", func(t *testing.T) {
		svc := newTestService(newFakeRepo())

		_, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "short", Name: "A"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(ctx, &RegisterRequest{
		Email:    "guest@example.com",
		Password: "password123",
		Name:     "Guest",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		tokens, user, err := svc.Login(ctx, "guest@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.Equal(t, "Bearer", tokens.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "guest@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("suspended account", func(t *testing.T) {
		require.NoError(t, svc.SuspendUser(ctx, registered.ID, "abuse"))

		_, _, err := svc.Login(ctx, "guest@example.com", "password123")
		assert.ErrorIs(t, err, ErrAccountSuspended)

		require.NoError(t, svc.ReactivateUser(ctx, registered.ID))
	})
}

func TestSuspendUser(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	admin := &User{ID: uuid.New(), Email: "admin@example.com", Role: RoleAdmin, Status: UserStatusActive}
	require.NoError(t, repo.Create(ctx, admin))

	t.Run("cannot suspend admin", func(t *testing.T) {
		err := svc.SuspendUser(ctx, admin.ID, "test")
		assert.ErrorIs(t, err, ErrCannotSuspendAdmin)
	})

	t.Run("suspend and reactivate", func(t *testing.T) {
		customer := &User{ID: uuid.New(), Email: "c@example.com", Role: RoleCustomer, Status: UserStatusActive}
		require.NoError(t, repo.Create(ctx, customer))

		require.NoError(t, svc.SuspendUser(ctx, customer.ID, "chargebacks"))
		assert.Equal(t, UserStatusSuspended, customer.Status)
		require.NotNil(t, customer.SuspendReason)
		assert.Equal(t, "chargebacks", *customer.SuspendReason)

		require.NoError(t, svc.ReactivateUser(ctx, customer.ID))
		assert.Equal(t, UserStatusActive, customer.Status)
		assert.Nil(t, customer.SuspendedAt)
	})
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	customer := &User{ID: uuid.New(), Email: "c@example.com", Role: RoleCustomer, Status: UserStatusActive}
	require.NoError(t, repo.Create(ctx, customer))

	require.NoError(t, svc.SetRole(ctx, customer.ID, RoleManager))
	assert.Equal(t, RoleManager, customer.Role)

	err := svc.SetRole(ctx, customer.ID, Role("superuser"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAuthEventMetrics(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	jwt := auth.NewJWTManager(&auth.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour})
	m := metrics.New("roamstay_user_test")
	svc := NewService(repo, jwt, m, zap.NewNop())

	_, err := svc.Register(ctx, &RegisterRequest{Email: "guest@example.com", Password: "password123", Name: "Guest"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "guest@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "guest@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("register")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login_success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login_failed")))
}
