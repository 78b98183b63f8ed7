package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/observability/metrics"
	"github.com/scottkoskoski/gardening-app/internal/security/auth"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// dummyHash is compared against when the username is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// AuthService handles registration, login and token checks
type AuthService struct {
	store     domain.Store
	tokens    *auth.TokenManager
	validator *validation.Validator
	logger    *slog.Logger
	now       domain.Clock
	cost      int
}

// NewAuthService creates a new authentication service
func NewAuthService(
	store domain.Store,
	tokens *auth.TokenManager,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		store:     store,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
		now:       time.Now,
		cost:      bcrypt.DefaultCost,
	}
}

// WithClock sets the time source for last-login stamps.
func (s *AuthService) WithClock(now domain.Clock) *AuthService {
	s.now = now
	return s
}

// WithHashCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

// Register creates a new account. Duplicate usernames and emails fail with a
// Conflict naming the colliding field.
func (s *AuthService) Register(ctx context.Context, req validation.RegisterRequest) (*domain.User, error) {
	return s.register(ctx, req, false)
}

// CreateAdmin registers an account with the admin flag set. Operator use only.
func (s *AuthService) CreateAdmin(ctx context.Context, req validation.RegisterRequest) (*domain.User, error) {
	return s.register(ctx, req, true)
}

func (s *AuthService) register(ctx context.Context, req validation.RegisterRequest, admin bool) (*domain.User, error) {
	if err := s.validator.StructRequired(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}

	err = s.store.InTx(ctx, func(tx domain.Store) error {
		if _, err := tx.Users().GetByUsername(ctx, req.Username); err == nil {
			return domain.Conflict("username", "username already exists")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if _, err := tx.Users().GetByEmail(ctx, req.Email); err == nil {
			return domain.Conflict("email", "email already exists")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
		slog.Bool("admin", admin),
	)
	return user, nil
}

// Authenticate checks credentials, stamps last-login and issues a token.
// A failed attempt never touches last-login.
func (s *AuthService) Authenticate(ctx context.Context, req validation.LoginRequest) (*LoginResult, error) {
	if err := s.validator.StructRequired(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		s.logger.Info("login attempt with unknown username", slog.String("username", req.Username))
		metrics.ObserveAuthFailure("unknown_user")
		return nil, domain.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.Int64("user_id", user.ID))
		metrics.ObserveAuthFailure("bad_password")
		return nil, domain.Unauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, domain.Internal(err)
	}

	if err := s.store.Users().UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	return &LoginResult{UserID: user.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken resolves a bearer token to a user ID. Expired and invalid tokens
// both surface as Unauthorized but wrap distinct causes.
func (s *AuthService) VerifyToken(token string) (int64, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		reason := "invalid"
		msg := "invalid token"
		if errors.Is(err, auth.ErrTokenExpired) {
			reason = "expired"
			msg = "token expired"
		}
		s.logger.Info("token rejected", slog.String("reason", reason), slog.String("error", err.Error()))
		metrics.ObserveAuthFailure("token_" + reason)
		return 0, &domain.Error{Kind: domain.KindUnauthorized, Message: msg, Err: err}
	}
	return claims.UserID, nil
}

// RequireAdmin fails with Forbidden unless userID names an existing admin.
func (s *AuthService) RequireAdmin(ctx context.Context, userID int64) error {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Forbidden("admin privileges required")
		}
		return err
	}
	if !user.IsAdmin {
		s.logger.Warn("non-admin attempted admin route", slog.Int64("user_id", userID))
		return domain.Forbidden("admin privileges required")
	}
	return nil
}

// GetUser returns the account behind an authenticated request.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

// ListInactive returns users without a login in the last days days.
func (s *AuthService) ListInactive(ctx context.Context, days int) ([]*domain.User, error) {
	if days <= 0 {
		return nil, domain.BadRequest("days must be a positive integer")
	}
	cutoff := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	return s.store.Users().ListInactive(ctx, cutoff)
}
