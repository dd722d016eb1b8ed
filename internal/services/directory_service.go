package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/auth"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
)

const (
	SortByName  = "name"
	SortBySkill = "skill"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// ListMentorsFilter narrows and orders the mentor directory.
// Skill matching is a case-insensitive substring test against any skill.
type ListMentorsFilter struct {
	Skill     string
	SortBy    string
	SortOrder string
}

func (f *ListMentorsFilter) normalize() error {
	if f.SortBy == "" {
		f.SortBy = SortByName
	}
	if f.SortOrder == "" {
		f.SortOrder = SortOrderAsc
	}
	if f.SortBy != SortByName && f.SortBy != SortBySkill {
		return apperrors.ValidationError("sortBy", "must be name or skill")
	}
	if f.SortOrder != SortOrderAsc && f.SortOrder != SortOrderDesc {
		return apperrors.ValidationError("sortOrder", "must be asc or desc")
	}
	return nil
}

// DirectoryService owns mentor discovery and profile mutation
type DirectoryService struct {
	userRepo    repository.UserRepositoryInterface
	mentorCache MentorCacheInterface
	storage     StorageClientInterface
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(userRepo repository.UserRepositoryInterface, mentorCache MentorCacheInterface, storage StorageClientInterface) *DirectoryService {
	return &DirectoryService{
		userRepo:    userRepo,
		mentorCache: mentorCache,
		storage:     storage,
	}
}

// ListMentors returns the filtered, ordered mentor directory.
// Descending order is the exact reverse of ascending for the same filter.
func (s *DirectoryService) ListMentors(ctx context.Context, identity *models.Identity, filter ListMentorsFilter) (*models.MentorListResponse, error) {
	if err := auth.Check(auth.OpListMentors, identity, auth.Ownership{}); err != nil {
		return nil, err
	}

	if err := filter.normalize(); err != nil {
		return nil, err
	}

	all, err := s.mentorCache.GetAll()
	if err != nil {
		return nil, err
	}

	filtered := make([]models.MentorSummary, 0, len(all))
	for _, m := range all {
		if filter.Skill != "" && !m.HasSkill(filter.Skill) {
			continue
		}
		filtered = append(filtered, *m)
	}

	// Sort ascending with a stable id tie-break, then reverse for desc so
	// the two orders are exact mirrors of each other.
	sort.SliceStable(filtered, func(i, j int) bool {
		var a, b string
		switch filter.SortBy {
		case SortBySkill:
			a, b = filtered[i].PrimarySkill(), filtered[j].PrimarySkill()
		default:
			a, b = filtered[i].Name, filtered[j].Name
		}
		if a != b {
			return a < b
		}
		return filtered[i].ID < filtered[j].ID
	})

	if filter.SortOrder == SortOrderDesc {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	return &models.MentorListResponse{
		Mentors: filtered,
		Total:   len(filtered),
	}, nil
}

// UpdateProfile mutates the caller's own profile and returns the updated
// entity directly, so clients never need a follow-up fetch.
func (s *DirectoryService) UpdateProfile(ctx context.Context, identity *models.Identity, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := auth.Check(auth.OpUpdateProfile, identity, auth.Ownership{OwnerID: identity.UserID}); err != nil {
		return nil, err
	}

	current, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ValidationError("name", "must not be empty")
		}
	}

	bio := current.Bio
	if req.Bio != nil {
		bio = *req.Bio
	}

	skills := current.Skills
	if req.Skills != nil {
		// Skills only carry meaning for mentors; mentee submissions are dropped.
		if identity.IsMentor() {
			cleaned, err := normalizeSkills(req.Skills)
			if err != nil {
				return nil, err
			}
			skills = cleaned
		}
	}

	updated, err := s.userRepo.UpdateProfile(ctx, identity.UserID, name, bio, skills)
	if err != nil {
		return nil, err
	}

	if identity.IsMentor() {
		s.mentorCache.Invalidate()
	}

	logger.Info("Profile updated", zap.String("user_id", identity.UserID))

	updated.ImageURL = updated.ImageOrDefault()
	return updated, nil
}

// UpdateImage validates and stores a new profile image, returning its URL
func (s *DirectoryService) UpdateImage(ctx context.Context, identity *models.Identity, imageBytes []byte, fileName, contentType string) (string, error) {
	if err := auth.Check(auth.OpUpdateImage, identity, auth.Ownership{OwnerID: identity.UserID}); err != nil {
		return "", err
	}

	if s.storage == nil {
		return "", apperrors.InternalError("image storage is not configured")
	}

	if err := s.storage.ValidateImageType(contentType); err != nil {
		return "", err
	}
	if err := s.storage.ValidateImageSize(imageBytes); err != nil {
		return "", err
	}

	key := s.storage.GenerateKey(identity.UserID, fileName)

	start := time.Now()
	imageURL, err := s.storage.UploadImage(ctx, imageBytes, key, contentType)
	if err != nil {
		logger.Error("Image upload failed",
			zap.String("user_id", identity.UserID),
			zap.Error(err))
		return "", err
	}

	if err := s.userRepo.UpdateImage(ctx, identity.UserID, imageURL); err != nil {
		return "", err
	}

	if identity.IsMentor() {
		s.mentorCache.Invalidate()
	}

	logger.Info("Profile image updated",
		zap.String("user_id", identity.UserID),
		zap.Duration("duration", time.Since(start)))

	return imageURL, nil
}

// normalizeSkills trims entries and enforces case-insensitive uniqueness
// while preserving the submitted casing.
func normalizeSkills(skills []string) ([]string, error) {
	cleaned := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))

	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return nil, apperrors.ValidationError("skills", "entries must not be empty")
		}

		key := strings.ToLower(skill)
		if _, dup := seen[key]; dup {
			return nil, apperrors.ValidationError("skills", "duplicate entry: "+skill)
		}

		seen[key] = struct{}{}
		cleaned = append(cleaned, skill)
	}

	return cleaned, nil
}
