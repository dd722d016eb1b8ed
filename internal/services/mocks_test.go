package services_test

import (
	"context"
	"sync"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// MockUserRepository is an in-memory user store for testing
type MockUserRepository struct {
	mu      sync.Mutex
	users   map[string]*models.User // keyed by ID
	byEmail map[string]string       // email -> ID

	createCalled      bool
	updateImageCalled bool
	failWith          error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (m *MockUserRepository) seed(users ...*models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range users {
		m.users[u.ID] = u
		m.byEmail[u.Email] = u.ID
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalled = true
	if m.failWith != nil {
		return m.failWith
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return apperrors.ConflictError("email already registered")
	}
	m.users[user.ID] = user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFoundError("user")
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	id, ok := m.byEmail[email]
	if !ok {
		return nil, apperrors.NotFoundError("user")
	}
	return m.users[id], nil
}

func (m *MockUserRepository) ListMentors(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var mentors []*models.User
	for _, u := range m.users {
		if u.Role == models.RoleMentor {
			mentors = append(mentors, u)
		}
	}
	return mentors, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, name, bio string, skills []string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFoundError("user")
	}
	user.Name = name
	user.Bio = bio
	user.Skills = skills
	return user, nil
}

func (m *MockUserRepository) UpdateImage(ctx context.Context, id, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateImageCalled = true
	if m.failWith != nil {
		return m.failWith
	}
	user, ok := m.users[id]
	if !ok {
		return apperrors.NotFoundError("user")
	}
	user.ImageURL = imageURL
	return nil
}

// MockRequestRepository is an in-memory request store for testing. The
// conditional status update takes the same lock as everything else, so it
// behaves like the database's row-level arbitration under concurrency.
type MockRequestRepository struct {
	mu       sync.Mutex
	requests map[string]*models.ConnectionRequest
	failWith error
}

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*models.ConnectionRequest),
	}
}

func (m *MockRequestRepository) seed(requests ...*models.ConnectionRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range requests {
		m.requests[r.ID] = r
	}
}

func (m *MockRequestRepository) Create(ctx context.Context, req *models.ConnectionRequest) (*models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	stored := *req
	m.requests[req.ID] = &stored
	return &stored, nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	req, ok := m.requests[id]
	if !ok {
		return nil, apperrors.NotFoundError("connection request")
	}
	copied := *req
	return &copied, nil
}

func (m *MockRequestRepository) ListByMentor(ctx context.Context, mentorID string) ([]*models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.ConnectionRequest
	for _, r := range m.requests {
		if r.MentorID == mentorID {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockRequestRepository) ListByMentee(ctx context.Context, menteeID string) ([]*models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.ConnectionRequest
	for _, r := range m.requests {
		if r.MenteeID == menteeID {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockRequestRepository) UpdateStatusIfPending(ctx context.Context, id string, status models.RequestStatus) (*models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	req, ok := m.requests[id]
	if !ok {
		return nil, apperrors.NotFoundError("connection request")
	}
	if req.Status != models.StatusPending {
		return nil, apperrors.InvalidTransitionError(string(req.Status), string(status))
	}
	if status == models.StatusAccepted {
		for _, other := range m.requests {
			if other.ID != req.ID && other.MentorID == req.MentorID && other.Status == models.StatusAccepted {
				return nil, apperrors.ConflictError("mentor already has an accepted request")
			}
		}
	}
	req.Status = status
	copied := *req
	return &copied, nil
}

func (m *MockRequestRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	if _, ok := m.requests[id]; !ok {
		return false, nil
	}
	delete(m.requests, id)
	return true, nil
}

func (m *MockRequestRepository) MenteeHasPending(ctx context.Context, menteeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.MenteeID == menteeID && r.Status == models.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRequestRepository) PairExists(ctx context.Context, mentorID, menteeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.MentorID == mentorID && r.MenteeID == menteeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRequestRepository) MentorHasAccepted(ctx context.Context, mentorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.MentorID == mentorID && r.Status == models.StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

// MockMentorCache serves a fixed mentor list
type MockMentorCache struct {
	mu          sync.Mutex
	mentors     []*models.MentorSummary
	invalidated int
	failWith    error
}

func (m *MockMentorCache) GetAll() ([]*models.MentorSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.mentors, nil
}

func (m *MockMentorCache) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
}

func (m *MockMentorCache) invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidated
}

// MockStorageClient records uploads without touching real object storage
type MockStorageClient struct {
	uploadedKeys   []string
	failValidation error
	failUpload     error
	returnURL      string
}

func (m *MockStorageClient) UploadImage(ctx context.Context, imageBytes []byte, key, contentType string) (string, error) {
	if m.failUpload != nil {
		return "", m.failUpload
	}
	m.uploadedKeys = append(m.uploadedKeys, key)
	if m.returnURL != "" {
		return m.returnURL, nil
	}
	return "https://storage.example.com/test-bucket/" + key, nil
}

func (m *MockStorageClient) ValidateImageType(contentType string) error {
	if m.failValidation != nil {
		return m.failValidation
	}
	if contentType != "image/jpeg" && contentType != "image/png" {
		return apperrors.ErrUnsupportedMediaType
	}
	return nil
}

func (m *MockStorageClient) ValidateImageSize(imageBytes []byte) error {
	if m.failValidation != nil {
		return m.failValidation
	}
	return nil
}

func (m *MockStorageClient) GenerateKey(userID, originalFileName string) string {
	return "profiles/" + userID + "/" + originalFileName
}
