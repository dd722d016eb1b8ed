package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// MentorHandler handles mentor directory endpoints
type MentorHandler struct {
	service services.DirectoryServiceInterface
}

// NewMentorHandler creates a new MentorHandler
func NewMentorHandler(service services.DirectoryServiceInterface) *MentorHandler {
	return &MentorHandler{
		service: service,
	}
}

// ListMentors handles GET /api/v1/mentors
// Query params: skill (substring filter), sortBy (name|skill), sortOrder (asc|desc)
func (h *MentorHandler) ListMentors(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	filter := services.ListMentorsFilter{
		Skill:     c.Query("skill"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	resp, err := h.service.ListMentors(c.Request.Context(), identity, filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
