package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

const revokedCheckPeriod = time.Minute

// AuthService is the session authority: it issues, resolves and revokes
// session tokens. Revocation is a jti denylist; entries expire together with
// the token they block, so the denylist never grows past the session TTL.
type AuthService struct {
	userRepo     repository.UserRepositoryInterface
	tokenManager *jwt.TokenManager
	revoked      *gocache.Cache
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepositoryInterface, tokenManager *jwt.TokenManager) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		revoked:      gocache.New(gocache.NoExpiration, revokedCheckPeriod),
	}
}

// Signup creates a new account with the role fixed at creation
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if !req.Role.Valid() {
		metrics.AuthSignups.WithLabelValues("invalid_role", string(req.Role)).Inc()
		return nil, apperrors.ValidationError("role", "must be mentor or mentee")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError("name", "must not be empty")
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashBytes),
		Role:         req.Role,
		Name:         name,
		Skills:       []string{},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			metrics.AuthSignups.WithLabelValues("conflict", string(req.Role)).Inc()
			return nil, err
		}
		metrics.AuthSignups.WithLabelValues("error", string(req.Role)).Inc()
		return nil, err
	}

	metrics.AuthSignups.WithLabelValues("success", string(req.Role)).Inc()
	logger.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))

	user.ImageURL = user.ImageOrDefault()
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to callers.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			metrics.AuthLogins.WithLabelValues("invalid_credentials").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		metrics.AuthLogins.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.AuthLogins.WithLabelValues("invalid_credentials").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokenManager.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		metrics.AuthLogins.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	logger.Info("User logged in", zap.String("user_id", user.ID))

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokenManager.GetExpirationTime().Seconds()),
	}, nil
}

// Resolve validates a token and returns the caller identity. Resolution is
// all-or-nothing: missing, malformed, expired or revoked tokens and tokens
// whose user no longer exists all fail uniformly with ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		metrics.AuthTokenResolutions.WithLabelValues("missing").Inc()
		return nil, fmt.Errorf("missing token: %w", apperrors.ErrUnauthenticated)
	}

	claims, err := s.tokenManager.ValidateToken(token)
	if err != nil {
		metrics.AuthTokenResolutions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("invalid token: %w", apperrors.ErrUnauthenticated)
	}

	if _, found := s.revoked.Get(claims.ID); found {
		metrics.AuthTokenResolutions.WithLabelValues("revoked").Inc()
		return nil, fmt.Errorf("token revoked: %w", apperrors.ErrUnauthenticated)
	}

	// The user row is the source of truth for role and name; a deleted
	// account invalidates every outstanding token immediately.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			metrics.AuthTokenResolutions.WithLabelValues("user_gone").Inc()
			return nil, fmt.Errorf("user no longer exists: %w", apperrors.ErrUnauthenticated)
		}
		metrics.AuthTokenResolutions.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.AuthTokenResolutions.WithLabelValues("success").Inc()

	return &models.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Unix(),
		IssuedAt:  claims.IssuedAt.Unix(),
	}, nil
}

// Revoke puts the token's jti on the denylist until the token would have
// expired anyway. Idempotent; invalid or already-expired tokens are a no-op.
func (s *AuthService) Revoke(token string) {
	claims, err := s.tokenManager.ValidateToken(token)
	if err != nil {
		return
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return
	}

	s.revoked.Set(claims.ID, struct{}{}, remaining)
	logger.Info("Token revoked", zap.String("user_id", claims.UserID))
}

// CurrentUser loads the full profile for a resolved identity
func (s *AuthService) CurrentUser(ctx context.Context, identity *models.Identity) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	user.ImageURL = user.ImageOrDefault()
	return user, nil
}
