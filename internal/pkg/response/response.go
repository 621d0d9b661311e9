package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
)

// OK sends a 200 response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error renders err as {error, code}. The root cause is attached to the gin
// context for the request logger and never written to the body.
func Error(c *gin.Context, err error) {
	appErr := apperr.As(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Status(), gin.H{"error": appErr.Message, "code": appErr.Code})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, code apperr.Code, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "code": code})
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "code": "Unauthorized"})
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	NotFoundMsg(c, "Endpoint not found")
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": message, "code": apperr.CodeNotFound})
}

// InternalError sends a 500 with the generic message.
func InternalError(c *gin.Context, err error) {
	Error(c, apperr.Internal(err))
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "code": "Conflict"})
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message, "code": "RateLimited"})
}
