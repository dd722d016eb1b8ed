package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/handlers"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "test"})
}

// stubRequestService returns canned results
type stubRequestService struct {
	created    *models.ConnectionRequest
	listResult *models.ConnectionRequestsResponse
	updated    *models.ConnectionRequest
	err        error
}

func (s *stubRequestService) Create(ctx context.Context, identity *models.Identity, payload *models.CreateRequestPayload) (*models.ConnectionRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.created, nil
}

func (s *stubRequestService) ListForUser(ctx context.Context, identity *models.Identity) (*models.ConnectionRequestsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listResult, nil
}

func (s *stubRequestService) Transition(ctx context.Context, identity *models.Identity, requestID string, newStatus models.RequestStatus) (*models.ConnectionRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.updated, nil
}

func (s *stubRequestService) Delete(ctx context.Context, identity *models.Identity, requestID string) error {
	return s.err
}

// withIdentity injects a resolved identity, standing in for the session middleware
func withIdentity(identity *models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.IdentityContextKey, identity)
		c.Next()
	}
}

func newRequestRouter(svc *stubRequestService, identity *models.Identity) *gin.Engine {
	handler := handlers.NewRequestHandler(svc)
	router := gin.New()
	group := router.Group("/api/v1", withIdentity(identity))
	group.POST("/requests", handler.Create)
	group.GET("/requests", handler.List)
	group.PUT("/requests/:id/status", handler.UpdateStatus)
	group.DELETE("/requests/:id", handler.Delete)
	return router
}

func TestRequestHandler_CreateSuccess(t *testing.T) {
	svc := &stubRequestService{
		created: &models.ConnectionRequest{ID: "r1", MentorID: "11111111-1111-1111-1111-111111111111", MenteeID: "u1", Status: models.StatusPending},
	}
	router := newRequestRouter(svc, &models.Identity{UserID: "u1", Role: models.RoleMentee})

	w := httptest.NewRecorder()
	body := `{"mentorId":"11111111-1111-1111-1111-111111111111","message":"hello"}`
	req := httptest.NewRequest("POST", "/api/v1/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got models.ConnectionRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestRequestHandler_CreateInvalidBody(t *testing.T) {
	svc := &stubRequestService{}
	router := newRequestRouter(svc, &models.Identity{UserID: "u1", Role: models.RoleMentee})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/requests", strings.NewReader(`{"mentorId":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "details")
}

func TestRequestHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"forbidden", apperrors.ForbiddenError("nope"), http.StatusForbidden, "forbidden"},
		{"role violation", apperrors.RoleViolationError("wrong role"), http.StatusForbidden, "role_violation"},
		{"not found", apperrors.NotFoundError("connection request"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.ConflictError("duplicate"), http.StatusConflict, "conflict"},
		{"invalid transition", apperrors.InvalidTransitionError("accepted", "rejected"), http.StatusConflict, "invalid_transition"},
		{"internal", apperrors.InternalError("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubRequestService{err: tc.err}
			router := newRequestRouter(svc, &models.Identity{UserID: "u1", Role: models.RoleMentee})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/v1/requests", nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantKind, body["kind"])
		})
	}
}

func TestRequestHandler_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubRequestService{}
	router := newRequestRouter(svc, &models.Identity{UserID: "m1", Role: models.RoleMentor})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/v1/requests/r1/status", strings.NewReader(`{"status":"cancelled"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestHandler_DeleteSuccess(t *testing.T) {
	svc := &stubRequestService{}
	router := newRequestRouter(svc, &models.Identity{UserID: "u1", Role: models.RoleMentee})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/v1/requests/r1", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
}

func TestRequestHandler_MissingIdentityUnauthorized(t *testing.T) {
	handler := handlers.NewRequestHandler(&stubRequestService{})
	router := gin.New()
	router.GET("/api/v1/requests", handler.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/requests", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
