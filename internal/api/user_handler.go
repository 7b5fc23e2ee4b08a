package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the user service dependency.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type AvatarUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmAvatarRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity in token")
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// RequestAvatarUploadURL returns a presigned PUT URL for a new avatar image.
func (h *UserHandler) RequestAvatarUploadURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity in token")
		return
	}

	var req AvatarUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.userService.RequestAvatarUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmAvatar records an uploaded object as the caller's avatar.
func (h *UserHandler) ConfirmAvatar(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity in token")
		return
	}

	var req ConfirmAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	avatarURL, err := h.userService.ConfirmAvatar(c.Request.Context(), userID, req.ObjectKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "avatar": avatarURL})
}
