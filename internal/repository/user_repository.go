package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

const uniqueViolation = "23505"

const userColumns = "id, email, password_hash, role, name, bio, skills, image_url, created_at"

// UserRepository handles user data access backed by PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func recordMetrics(operation, status string, duration float64) {
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()
}

// Create inserts a new user. Emails are unique case-insensitively; a
// duplicate maps to ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	start := time.Now()
	operation := "createUser"

	query := `
		INSERT INTO users (id, email, password_hash, role, name, bio, skills, created_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Name,
		nilIfEmpty(user.Bio),
		user.Skills,
		user.CreatedAt,
	)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			recordMetrics(operation, "conflict", duration)
			return apperrors.ConflictError("email already registered")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration)

	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	start := time.Now()
	operation := "getUserByID"

	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)

	user, err := models.ScanUser(r.pool.QueryRow(ctx, query, id))
	duration := metrics.MeasureDuration(start)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("user")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	operation := "getUserByEmail"

	query := fmt.Sprintf("SELECT %s FROM users WHERE email = lower($1)", userColumns)

	user, err := models.ScanUser(r.pool.QueryRow(ctx, query, email))
	duration := metrics.MeasureDuration(start)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("user")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}

// ListMentors retrieves all mentor users, ordered by id for a stable cache fill
func (r *UserRepository) ListMentors(ctx context.Context) ([]*models.User, error) {
	start := time.Now()
	operation := "listMentors"

	query := fmt.Sprintf("SELECT %s FROM users WHERE role = $1 ORDER BY id", userColumns)

	rows, err := r.pool.Query(ctx, query, models.RoleMentor)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query mentors: %w", err)
	}

	mentors, err := models.ScanUsers(rows)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to scan mentors: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(mentors)))

	return mentors, nil
}

// UpdateProfile mutates profile fields and returns the updated row
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, bio string, skills []string) (*models.User, error) {
	start := time.Now()
	operation := "updateProfile"

	query := fmt.Sprintf(`
		UPDATE users
		SET name = $2, bio = $3, skills = $4
		WHERE id = $1
		RETURNING %s
	`, userColumns)

	user, err := models.ScanUser(r.pool.QueryRow(ctx, query, id, name, nilIfEmpty(bio), skills))
	duration := metrics.MeasureDuration(start)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("user")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("user_id", id))

	return user, nil
}

// UpdateImage replaces the profile image reference
func (r *UserRepository) UpdateImage(ctx context.Context, id, imageURL string) error {
	start := time.Now()
	operation := "updateImage"

	tag, err := r.pool.Exec(ctx, "UPDATE users SET image_url = $2 WHERE id = $1", id, imageURL)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("user")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// nilIfEmpty converts empty strings to nil for nullable columns
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
