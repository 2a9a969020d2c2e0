package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roamstay/server/internal/module/auth"
	"github.com/roamstay/server/internal/shared/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service provides user management operations.
type Service struct {
	repo    Repository
	jwt     *auth.JWTManager
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a new user service. m may be nil.
func NewService(repo Repository, jwt *auth.JWTManager, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		jwt:     jwt,
		metrics: m,
		logger:  logger,
	}
}

func (s *Service) recordAuthEvent(event string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(event)
	}
}

// Register creates a new user with email and password.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil && err != ErrUserNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         RoleCustomer,
		Status:       UserStatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.recordAuthEvent("register")
	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return user, nil
}

// Login authenticates a user with email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResponse, *User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.recordAuthEvent("login_failed")
		return nil, nil, ErrInvalidCredentials
	}

	if user.Status == UserStatusDeleted {
		return nil, nil, ErrAccountDeleted
	}
	if user.Status == UserStatusSuspended {
		return nil, nil, ErrAccountSuspended
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordAuthEvent("login_failed")
		return nil, nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	s.recordAuthEvent("login_success")
	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwt.GetAccessTokenExpiry().Seconds()),
		ExpiresAt:   expiresAt,
	}, user, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile updates a user's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// ChangePassword changes a user's password.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// DeleteAccount soft deletes a user's account.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrIncorrectPassword
	}

	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}

// --- Admin Operations ---

// ListUsers returns a paginated list of users.
func (s *Service) ListUsers(ctx context.Context, filter *UserFilter, pagination *Pagination) ([]*User, int64, error) {
	return s.repo.List(ctx, filter, pagination)
}

// SuspendUser suspends a user account.
func (s *Service) SuspendUser(ctx context.Context, userID uuid.UUID, reason string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		return ErrCannotSuspendAdmin
	}

	now := time.Now()
	user.Status = UserStatusSuspended
	user.SuspendedAt = &now
	user.SuspendReason = &reason

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user suspended",
		zap.String("user_id", userID.String()),
		zap.String("reason", reason),
	)

	return nil
}

// ReactivateUser reactivates a suspended user.
func (s *Service) ReactivateUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Status != UserStatusSuspended {
		return ErrUserAlreadyActive
	}

	user.Status = UserStatusActive
	user.SuspendedAt = nil
	user.SuspendReason = nil

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// SetRole changes a user's role.
func (s *Service) SetRole(ctx context.Context, userID uuid.UUID, role Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}
