// Package handlers provides HTTP request handlers.
package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"itemstore/internal/core/apperror"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates the JSON request body. Binding failures are
// reported as a single validation error that summarizes every offending
// field, joined, never just the first one.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			messages[i] = formatFieldError(fe)
		}
		h.Error(c, apperror.NewValidation(strings.Join(messages, "; ")))
		return false
	}

	h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
	return false
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + ": is required"
	default:
		return fmt.Sprintf("%s: failed validation '%s'", field, fe.Tag())
	}
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses an integer query parameter with a default value.
// A present but unparseable value is a validation failure.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, apperror.NewValidation(key + " must be an integer")
	}
	return parsed, nil
}
