package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin
// context so the observability middleware can include the reason in the log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "kind": kindFor(status, err)})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "kind": kindFor(status, err), "details": details})
}

// kindFor resolves the machine-readable error kind. Errors outside the
// application taxonomy (binding failures, missing context) borrow the kind
// implied by the HTTP status instead of reporting internal_error.
func kindFor(status int, err error) string {
	kind := apperrors.Kind(err)
	if kind != "internal_error" || status >= http.StatusInternalServerError {
		return kind
	}
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	default:
		return kind
	}
}

// respondDomainError translates a service-layer error into its HTTP status.
// Unrecognized errors surface as 500 with a generic message so internal
// detail never leaks to clients.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
	case apperrors.Is(err, apperrors.ErrForbidden):
		respondError(c, http.StatusForbidden, "Forbidden", err)
	case apperrors.Is(err, apperrors.ErrRoleViolation):
		respondError(c, http.StatusForbidden, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrInvalidTransition):
		respondError(c, http.StatusConflict, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrUnsupportedMediaType):
		respondError(c, http.StatusUnsupportedMediaType, err.Error(), err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
