package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-performance-api/internal/models"
	appErrors "github.com/noah-isme/class-performance-api/pkg/errors"
	"github.com/noah-isme/class-performance-api/pkg/logger"
	"github.com/noah-isme/class-performance-api/pkg/response"
)

const (
	// ContextUserKey is the gin context key storing JWT claims.
	ContextUserKey = "currentUser"
	// ThemeHeader lets the client override the theme carried in the token.
	ThemeHeader = "X-Theme"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.UserIDKey, claims.UserID)
		c.Next()
	}
}

// SessionFromContext builds the caller's session from the stored claims.
// The X-Theme header, when valid, overrides the theme in the token.
func SessionFromContext(c *gin.Context) (models.Session, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.Session{}, false
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok || claims == nil {
		return models.Session{}, false
	}
	session := claims.Session()
	if raw := strings.TrimSpace(c.GetHeader(ThemeHeader)); raw != "" {
		session.Theme = models.ParseTheme(raw)
	}
	return session, true
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
