package controllers

import (
	"errors"
	"net/http"

	"catalog-service/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates an application error into its JSON response.
// Storage faults are logged; the client only sees the mapped message.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			zap.L().Error(appErr.Message, zap.Error(appErr))
		}
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	zap.L().Error("Unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
