package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/healthmateapp/healthmate-server/internal/errors"
	"github.com/healthmateapp/healthmate-server/internal/logger"
)

// respondError maps service errors to HTTP responses. AppErrors carry
// their own status and a user-facing message; anything else is a 500
// with the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{
			"success": false,
			"error":   appErr.Message,
		})
		return
	}

	logger.Errorf("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal server error",
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}
