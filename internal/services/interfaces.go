package services

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// AuthServiceInterface defines the session authority contract
type AuthServiceInterface interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Resolve(ctx context.Context, token string) (*models.Identity, error)
	Revoke(token string)
	CurrentUser(ctx context.Context, identity *models.Identity) (*models.User, error)
}

// DirectoryServiceInterface defines the mentor directory contract
type DirectoryServiceInterface interface {
	ListMentors(ctx context.Context, identity *models.Identity, filter ListMentorsFilter) (*models.MentorListResponse, error)
	UpdateProfile(ctx context.Context, identity *models.Identity, req *models.UpdateProfileRequest) (*models.User, error)
	UpdateImage(ctx context.Context, identity *models.Identity, imageBytes []byte, fileName, contentType string) (string, error)
}

// RequestServiceInterface defines the request ledger contract
type RequestServiceInterface interface {
	Create(ctx context.Context, identity *models.Identity, payload *models.CreateRequestPayload) (*models.ConnectionRequest, error)
	ListForUser(ctx context.Context, identity *models.Identity) (*models.ConnectionRequestsResponse, error)
	Transition(ctx context.Context, identity *models.Identity, requestID string, newStatus models.RequestStatus) (*models.ConnectionRequest, error)
	Delete(ctx context.Context, identity *models.Identity, requestID string) error
}

// StorageClientInterface defines the narrow object storage contract for images
type StorageClientInterface interface {
	UploadImage(ctx context.Context, imageBytes []byte, key, contentType string) (string, error)
	ValidateImageType(contentType string) error
	ValidateImageSize(imageBytes []byte) error
	GenerateKey(userID, originalFileName string) string
}

// MentorCacheInterface defines the mentor directory cache contract
type MentorCacheInterface interface {
	GetAll() ([]*models.MentorSummary, error)
	Invalidate()
}
