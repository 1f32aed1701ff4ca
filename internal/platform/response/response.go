// Package response writes JSON bodies and the uniform {"error": "..."} failure shape.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
	"github.com/sportsvenue/service-payment/internal/platform/logger"
	"go.uber.org/zap"
)

const genericErrorMessage = "Internal server error"

// ErrorBody is the error response shape.
type ErrorBody struct {
	Error string `json:"error"`
}

// Success writes data with 200.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created writes data with 201.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// BadRequest writes a 400 with message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: message})
}

// NotFound writes a 404 with message.
func NotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorBody{Error: message})
}

// Error maps err onto a status code and a client-safe message.
// Errors outside the domain taxonomy never expose their text.
func Error(c *gin.Context, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{zap.Int("status", status), zap.Error(err)}
		if domErr, ok := domainerr.As(err); ok && domErr.Cause != nil {
			fields = append(fields, zap.NamedError("cause", domErr.Cause))
		}
		logger.FromContext(c.Request.Context()).Error("request failed", fields...)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

func classify(err error) (int, string) {
	domErr, ok := domainerr.As(err)
	if !ok {
		return http.StatusInternalServerError, genericErrorMessage
	}

	switch {
	case errors.Is(domErr, domainerr.ErrNotFound):
		return http.StatusNotFound, domErr.Message
	case errors.Is(domErr, domainerr.ErrValidation):
		return http.StatusBadRequest, domErr.Message
	case errors.Is(domErr, domainerr.ErrConflict), errors.Is(domErr, domainerr.ErrInvalidState):
		return http.StatusConflict, domErr.Message
	default:
		return http.StatusInternalServerError, domErr.Message
	}
}
