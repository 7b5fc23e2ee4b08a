package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProgressHandler holds the progress service dependency.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Weekly returns the seven-week progress chart for the caller.
func (h *ProgressHandler) Weekly(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity in token")
		return
	}

	weeks, err := h.progressService.Weekly(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, weeks)
}

// Stats returns aggregate statistics over the caller's whole history.
func (h *ProgressHandler) Stats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity in token")
		return
	}

	stats, err := h.progressService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
