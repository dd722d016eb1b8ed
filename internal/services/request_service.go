package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/auth"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// RequestService owns the connection request lifecycle
type RequestService struct {
	requestRepo repository.ConnectionRequestRepositoryInterface
	userRepo    repository.UserRepositoryInterface
}

// NewRequestService creates a new RequestService
func NewRequestService(requestRepo repository.ConnectionRequestRepositoryInterface, userRepo repository.UserRepositoryInterface) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// Create opens a new pending request from the caller to the given mentor.
// A mentee may hold at most one pending request at a time, and at most one
// request per mentor regardless of outcome.
func (s *RequestService) Create(ctx context.Context, identity *models.Identity, payload *models.CreateRequestPayload) (*models.ConnectionRequest, error) {
	if err := auth.Check(auth.OpCreateRequest, identity, auth.Ownership{}); err != nil {
		return nil, err
	}

	if payload.MentorID == identity.UserID {
		return nil, apperrors.ValidationError("mentorId", "cannot request a connection with yourself")
	}

	mentor, err := s.userRepo.GetByID(ctx, payload.MentorID)
	if err != nil {
		return nil, err
	}
	if mentor.Role != models.RoleMentor {
		return nil, apperrors.RoleViolationError("target user is not a mentor")
	}

	hasPending, err := s.requestRepo.MenteeHasPending(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if hasPending {
		return nil, apperrors.ConflictError("a pending request already exists")
	}

	pairExists, err := s.requestRepo.PairExists(ctx, payload.MentorID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if pairExists {
		return nil, apperrors.ConflictError("a request to this mentor already exists")
	}

	request := &models.ConnectionRequest{
		ID:       uuid.NewString(),
		MentorID: payload.MentorID,
		MenteeID: identity.UserID,
		Message:  payload.Message,
		Status:   models.StatusPending,
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	metrics.RequestsCreated.Inc()
	logger.Info("Connection request created",
		zap.String("request_id", created.ID),
		zap.String("mentor_id", created.MentorID),
		zap.String("mentee_id", created.MenteeID))

	created.Counterparty = mentor.Summary()
	return created, nil
}

// ListForUser returns the caller's requests, newest first. Mentors see
// requests addressed to them, mentees see requests they sent. Each entry
// carries the counterparty's profile summary.
func (s *RequestService) ListForUser(ctx context.Context, identity *models.Identity) (*models.ConnectionRequestsResponse, error) {
	if err := auth.Check(auth.OpListRequests, identity, auth.Ownership{}); err != nil {
		return nil, err
	}

	var requests []*models.ConnectionRequest
	var err error
	if identity.IsMentor() {
		requests, err = s.requestRepo.ListByMentor(ctx, identity.UserID)
	} else {
		requests, err = s.requestRepo.ListByMentee(ctx, identity.UserID)
	}
	if err != nil {
		return nil, err
	}

	// The same counterparty can appear on several requests, so resolve
	// each user at most once per call.
	resolved := make(map[string]*models.MentorSummary)
	result := make([]models.ConnectionRequest, 0, len(requests))
	for _, req := range requests {
		counterpartyID := req.MenteeID
		if identity.IsMentee() {
			counterpartyID = req.MentorID
		}

		summary, ok := resolved[counterpartyID]
		if !ok {
			user, err := s.userRepo.GetByID(ctx, counterpartyID)
			switch {
			case apperrors.Is(err, apperrors.ErrNotFound):
				// Counterparty account was removed; the request itself
				// still belongs in the ledger.
				summary = nil
			case err != nil:
				return nil, err
			default:
				summary = user.Summary()
			}
			resolved[counterpartyID] = summary
		}

		req.Counterparty = summary
		result = append(result, *req)
	}

	return &models.ConnectionRequestsResponse{
		Requests: result,
		Total:    len(result),
	}, nil
}

// Transition moves a pending request to accepted or rejected. Only the
// addressed mentor may decide, each request is decided exactly once, and a
// mentor with an accepted request cannot accept another.
func (s *RequestService) Transition(ctx context.Context, identity *models.Identity, requestID string, newStatus models.RequestStatus) (*models.ConnectionRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := auth.Check(auth.OpTransitionRequest, identity, auth.Ownership{MentorID: request.MentorID}); err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.InvalidTransitionError(string(request.Status), string(newStatus))
	}

	if newStatus == models.StatusAccepted {
		hasAccepted, err := s.requestRepo.MentorHasAccepted(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		if hasAccepted {
			return nil, apperrors.ConflictError("mentor already has an accepted request")
		}
	}

	// The conditional update is the arbiter under concurrency: of two
	// simultaneous decisions exactly one lands, the other observes a
	// resolved request.
	updated, err := s.requestRepo.UpdateStatusIfPending(ctx, requestID, newStatus)
	if err != nil {
		return nil, err
	}

	metrics.RequestStatusTransitions.WithLabelValues(string(models.StatusPending), string(newStatus)).Inc()
	logger.Info("Connection request resolved",
		zap.String("request_id", updated.ID),
		zap.String("status", string(updated.Status)))

	mentee, err := s.userRepo.GetByID(ctx, updated.MenteeID)
	if err == nil {
		updated.Counterparty = mentee.Summary()
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return updated, nil
}

// Delete removes a request. Only the mentee who opened it may delete it,
// regardless of its current status.
func (s *RequestService) Delete(ctx context.Context, identity *models.Identity, requestID string) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if err := auth.Check(auth.OpDeleteRequest, identity, auth.Ownership{MenteeID: request.MenteeID}); err != nil {
		return err
	}

	deleted, err := s.requestRepo.Delete(ctx, requestID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFoundError("connection request")
	}

	metrics.RequestsDeleted.Inc()
	logger.Info("Connection request deleted",
		zap.String("request_id", requestID),
		zap.String("mentee_id", identity.UserID))

	return nil
}
