package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/dto"
	"go.uber.org/zap"
)

func respond(c *gin.Context, status int, message string, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, dto.ApiResponse{
		StatusCode: status,
		Message:    message,
		Data:       data,
		Success:    status < http.StatusBadRequest,
	})
}

// respondError writes the error envelope for err. Internal errors are logged
// and replaced by a generic message.
func respondError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := kind.HTTPStatus()

	if kind == apperror.KindInternal {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    apperror.Message(err),
		Success:    false,
	})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, apperror.BadRequest(message))
}
