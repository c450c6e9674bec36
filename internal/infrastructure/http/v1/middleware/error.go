package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itemstore/internal/core/apperror"
	"itemstore/internal/infrastructure/http/v1/dto"
	"itemstore/pkg/logger"
)

// ErrorHandler middleware transforms errors into the error envelope
// {timestamp, statusCode, statusText, message, path}.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		path := c.Request.URL.Path

		if appErr, ok := apperror.AsAppError(err); ok {
			// Log internal cause if present; it never reaches the client
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			c.JSON(appErr.HTTPStatus, dto.NewErrorResponse(appErr.HTTPStatus, appErr.Message, path))
			return
		}

		// Unknown error - log and return generic message
		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)

		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse(http.StatusInternalServerError, "internal server error", path))
	}
}
