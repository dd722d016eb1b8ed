package repository

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// UserRepositoryInterface defines the contract for user persistence
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListMentors(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id, name, bio string, skills []string) (*models.User, error)
	UpdateImage(ctx context.Context, id, imageURL string) error
}

// ConnectionRequestRepositoryInterface defines the contract for request persistence
type ConnectionRequestRepositoryInterface interface {
	Create(ctx context.Context, req *models.ConnectionRequest) (*models.ConnectionRequest, error)
	GetByID(ctx context.Context, id string) (*models.ConnectionRequest, error)
	ListByMentor(ctx context.Context, mentorID string) ([]*models.ConnectionRequest, error)
	ListByMentee(ctx context.Context, menteeID string) ([]*models.ConnectionRequest, error)
	UpdateStatusIfPending(ctx context.Context, id string, status models.RequestStatus) (*models.ConnectionRequest, error)
	Delete(ctx context.Context, id string) (bool, error)
	MenteeHasPending(ctx context.Context, menteeID string) (bool, error)
	PairExists(ctx context.Context, mentorID, menteeID string) (bool, error)
	MentorHasAccepted(ctx context.Context, mentorID string) (bool, error)
}
