package handlers

import (
	"errors"
	"net/http"

	"linknest/internal/models"
	"linknest/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetUsername updates the caller's public handle. Same rules as slugs:
// it becomes part of public URLs.
func (h *Handler) SetUsername(c *gin.Context) {
	h.setUsernameInternal(c, false)
}

// SetupUsername is the first-run variant: it also clears the
// require_setup flag.
func (h *Handler) SetupUsername(c *gin.Context) {
	h.setUsernameInternal(c, true)
}

func (h *Handler) setUsernameInternal(c *gin.Context, completeSetup bool) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.ValidateSlug(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Unique across users, excluding the caller's own row
	var existing models.User
	err := h.db.Where("username = ? AND id <> ?", req.Username, userID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	updates := map[string]interface{}{"username": req.Username}
	if completeSetup {
		updates["require_setup"] = false
	}
	if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update username"})
		return
	}

	h.auditService.LogAction(&userID, "SET_USERNAME", req.Username, nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"username": req.Username})
}
