package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/storage"
)

// ProfileHandler handles profile mutation endpoints
type ProfileHandler struct {
	service services.DirectoryServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service services.DirectoryServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// UpdateProfile handles PUT /api/v1/me
// Applies partial profile updates and returns the updated profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), identity, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateImage handles PUT /api/v1/me/image
// Accepts a multipart upload and returns the stored image URL
func (h *ProfileHandler) UpdateImage(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Image file is required", err)
		return
	}

	if fileHeader.Size > storage.MaxImageSize {
		respondError(c, http.StatusBadRequest, "Image exceeds the maximum allowed size", apperrors.ErrValidation)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Unable to read image file", err)
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Unable to read image file", err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	imageURL, err := h.service.UpdateImage(c.Request.Context(), identity, imageBytes, fileHeader.Filename, contentType)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}
