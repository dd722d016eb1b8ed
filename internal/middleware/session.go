package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// IdentityContextKey is the key used to store the resolved identity in context
const IdentityContextKey = "identity"

var (
	ErrIdentityNotFound = errors.New("identity not found in context")
	ErrInvalidIdentity  = errors.New("invalid identity type")
)

// SessionMiddleware resolves the bearer token into an identity and adds it
// to the request context. Requests without a live, unrevoked token belonging
// to an existing user are rejected.
func SessionMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractBearerToken(c)
		if token == "" {
			_ = c.Error(fmt.Errorf("missing bearer token")) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": apperrors.Kind(apperrors.ErrUnauthenticated)})
			c.Abort()
			return
		}

		identity, err := authService.Resolve(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(fmt.Errorf("session resolution failed: %w", err)) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": apperrors.Kind(apperrors.ErrUnauthenticated)})
			c.Abort()
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// ExtractBearerToken pulls the token out of the Authorization header.
// Returns "" when the header is absent or not a bearer scheme.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetIdentity extracts the resolved identity from context
func GetIdentity(c *gin.Context) (*models.Identity, error) {
	val, exists := c.Get(IdentityContextKey)
	if !exists {
		return nil, ErrIdentityNotFound
	}

	identity, ok := val.(*models.Identity)
	if !ok {
		return nil, ErrInvalidIdentity
	}

	return identity, nil
}
