// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"itemstore/internal/infrastructure/http/v1/dto"
	"itemstore/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
// It renders the envelope itself: the error middleware sits further down
// the chain and has already unwound by the time the panic is recovered here.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"request_id", c.GetString("request_id"),
				)

				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError,
						dto.NewErrorResponse(http.StatusInternalServerError,
							"internal server error", c.Request.URL.Path))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
