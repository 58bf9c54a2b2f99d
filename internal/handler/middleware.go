package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/internal/service"
)

const callerKey = "caller"

// AuthMiddleware resolves the caller from the accessToken cookie or, failing
// that, the Authorization bearer header, and stores it in the context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			respondError(c, apperror.Unauthorized("Unauthorized request"))
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(callerKey, user)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}

	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CallerFrom returns the authenticated user stored by AuthMiddleware.
func CallerFrom(c *gin.Context) (*domain.User, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok && user != nil
}

// callerID returns the caller's id, or responds 401 and returns false.
func callerID(c *gin.Context) (string, bool) {
	user, ok := CallerFrom(c)
	if !ok {
		respondError(c, apperror.Unauthorized("Unauthorized request"))
		return "", false
	}
	return user.ID, true
}

// BodyLimit caps request bodies, which bounds multipart uploads.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
