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

const requestColumns = "id, mentor_id, mentee_id, message, status, created_at, updated_at"

// ConnectionRequestRepository handles connection request data access
type ConnectionRequestRepository struct {
	pool *pgxpool.Pool
}

// NewConnectionRequestRepository creates a new connection request repository
func NewConnectionRequestRepository(pool *pgxpool.Pool) *ConnectionRequestRepository {
	return &ConnectionRequestRepository{pool: pool}
}

// Create inserts a new request with status pending and returns the stored row
func (r *ConnectionRequestRepository) Create(ctx context.Context, req *models.ConnectionRequest) (*models.ConnectionRequest, error) {
	start := time.Now()
	operation := "createConnectionRequest"

	query := fmt.Sprintf(`
		INSERT INTO connection_requests (id, mentor_id, mentee_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING %s
	`, requestColumns)

	created, err := models.ScanConnectionRequest(r.pool.QueryRow(ctx, query,
		req.ID,
		req.MentorID,
		req.MenteeID,
		nilIfEmpty(req.Message),
		models.StatusPending,
		time.Now().UTC(),
	))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create connection request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("request_id", created.ID))

	return created, nil
}

// GetByID retrieves a single request by id
func (r *ConnectionRequestRepository) GetByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	start := time.Now()
	operation := "getConnectionRequestByID"

	query := fmt.Sprintf("SELECT %s FROM connection_requests WHERE id = $1", requestColumns)

	req, err := models.ScanConnectionRequest(r.pool.QueryRow(ctx, query, id))
	duration := metrics.MeasureDuration(start)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("connection request")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to get connection request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return req, nil
}

// ListByMentor retrieves all requests addressed to a mentor,
// newest first with a stable id tie-break
func (r *ConnectionRequestRepository) ListByMentor(ctx context.Context, mentorID string) ([]*models.ConnectionRequest, error) {
	return r.listByColumn(ctx, "listRequestsByMentor", "mentor_id", mentorID)
}

// ListByMentee retrieves all requests created by a mentee,
// newest first with a stable id tie-break
func (r *ConnectionRequestRepository) ListByMentee(ctx context.Context, menteeID string) ([]*models.ConnectionRequest, error) {
	return r.listByColumn(ctx, "listRequestsByMentee", "mentee_id", menteeID)
}

func (r *ConnectionRequestRepository) listByColumn(ctx context.Context, operation, column, userID string) ([]*models.ConnectionRequest, error) {
	start := time.Now()

	query := fmt.Sprintf(`
		SELECT %s FROM connection_requests
		WHERE %s = $1
		ORDER BY created_at DESC, id DESC
	`, requestColumns, column)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query connection requests: %w", err)
	}

	requests, err := models.ScanConnectionRequests(rows)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to scan connection requests: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return requests, nil
}

// UpdateStatusIfPending performs the per-entity compare-and-set: the update
// only applies while the stored status is still pending, so concurrent
// transitions have exactly one winner. Returns ErrInvalidTransition when the
// row exists but is no longer pending, ErrNotFound when it does not exist,
// and ErrConflict when accepting would violate the one-accepted-per-mentor
// index.
func (r *ConnectionRequestRepository) UpdateStatusIfPending(ctx context.Context, id string, status models.RequestStatus) (*models.ConnectionRequest, error) {
	start := time.Now()
	operation := "updateConnectionRequestStatus"

	query := fmt.Sprintf(`
		UPDATE connection_requests
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING %s
	`, requestColumns)

	updated, err := models.ScanConnectionRequest(r.pool.QueryRow(ctx, query,
		id, status, time.Now().UTC(), models.StatusPending))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the CAS: distinguish missing row from terminal status
			var exists bool
			checkErr := r.pool.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM connection_requests WHERE id = $1)", id).Scan(&exists)
			if checkErr != nil {
				recordMetrics(operation, "error", duration)
				return nil, fmt.Errorf("failed to check connection request: %w", checkErr)
			}
			if !exists {
				recordMetrics(operation, "not_found", duration)
				return nil, apperrors.NotFoundError("connection request")
			}
			recordMetrics(operation, "stale", duration)
			return nil, fmt.Errorf("request already resolved: %w", apperrors.ErrInvalidTransition)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			recordMetrics(operation, "conflict", duration)
			return nil, apperrors.ConflictError("mentor already has an accepted request")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("request_id", id),
		zap.String("status", string(status)))

	return updated, nil
}

// Delete removes a request entirely. Returns false when no row matched.
func (r *ConnectionRequestRepository) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	operation := "deleteConnectionRequest"

	tag, err := r.pool.Exec(ctx, "DELETE FROM connection_requests WHERE id = $1", id)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return false, fmt.Errorf("failed to delete connection request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return tag.RowsAffected() > 0, nil
}

// MenteeHasPending reports whether the mentee already has a pending request
func (r *ConnectionRequestRepository) MenteeHasPending(ctx context.Context, menteeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM connection_requests WHERE mentee_id = $1 AND status = $2)",
		menteeID, models.StatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending requests: %w", err)
	}
	return exists, nil
}

// PairExists reports whether any request between the pair already exists
func (r *ConnectionRequestRepository) PairExists(ctx context.Context, mentorID, menteeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM connection_requests WHERE mentor_id = $1 AND mentee_id = $2)",
		mentorID, menteeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check request pair: %w", err)
	}
	return exists, nil
}

// MentorHasAccepted reports whether the mentor already has an accepted relationship
func (r *ConnectionRequestRepository) MentorHasAccepted(ctx context.Context, mentorID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM connection_requests WHERE mentor_id = $1 AND status = $2)",
		mentorID, models.StatusAccepted).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check accepted requests: %w", err)
	}
	return exists, nil
}
