package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-performance-api/internal/middleware"
	"github.com/noah-isme/class-performance-api/internal/models"
	appErrors "github.com/noah-isme/class-performance-api/pkg/errors"
	"github.com/noah-isme/class-performance-api/pkg/response"
)

// requireSession writes an unauthorized response when no session is attached.
func requireSession(c *gin.Context) (models.Session, bool) {
	session, ok := middleware.SessionFromContext(c)
	if !ok || !session.Authenticated() {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Session{}, false
	}
	return session, true
}

// respondWithMeta attaches the shared response metadata to a successful payload.
func respondWithMeta(c *gin.Context, status int, data interface{}, cacheHit bool, session models.Session, start time.Time) {
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "theme", session.Theme)
	middleware.SetMeta(c, "processing_time_ms", time.Since(start).Milliseconds())
	response.JSON(c, status, data, middleware.ExtractMeta(c))
}
