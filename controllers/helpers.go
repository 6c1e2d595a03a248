package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error kinds onto HTTP statuses:
// validation 400, not found 404, conflicts/quota/insufficient reviewers 409.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr   *services.ValidationError
		conflictErr     *services.ConflictError
		quotaErr        *services.QuotaExceededError
		notFoundErr     *services.NotFoundError
		insufficientErr *services.InsufficientReviewersError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusConflict, gin.H{"error": quotaErr.Error()})
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusConflict, gin.H{"error": insufficientErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// paramInt parses a positive integer path parameter; it writes the 400
// response itself when the value is malformed.
func paramInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil || value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return value, true
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, false
	}
	userID, ok := value.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, false
	}
	return userID, true
}
