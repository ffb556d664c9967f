package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"linknest/internal/models"
	"linknest/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Admin handlers run behind AdminRequired; they skip ownership checks
// and substitute the role check.

func (h *Handler) AdminGetUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Preload("Links").Preload("Profiles").Order("id").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) AdminGetUser(c *gin.Context) {
	target, ok := h.adminTargetUser(c)
	if !ok {
		return
	}

	if err := h.db.Preload("Links").Preload("Profiles.Links").First(&target, target.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": target})
}

// AdminToggleAdminStatus flips the admin flag. Changing your own flag
// is rejected so an admin cannot lock themselves out.
func (h *Handler) AdminToggleAdminStatus(c *gin.Context) {
	caller := c.MustGet("admin_user").(*models.User)

	target, ok := h.adminTargetUser(c)
	if !ok {
		return
	}

	if target.ID == caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change your own admin status"})
		return
	}

	if err := h.db.Model(&target).Update("is_admin", !target.IsAdmin).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	h.auditService.LogAction(&caller.ID, "ADMIN_TOGGLE_ADMIN", strconv.FormatUint(uint64(target.ID), 10),
		map[string]interface{}{"is_admin": !target.IsAdmin}, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"user_id": target.ID, "is_admin": !target.IsAdmin})
}

func (h *Handler) AdminToggleSpyPixelStatus(c *gin.Context) {
	caller := c.MustGet("admin_user").(*models.User)

	target, ok := h.adminTargetUser(c)
	if !ok {
		return
	}

	if err := h.db.Model(&target).Update("spy_pixel", !target.SpyPixel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	h.auditService.LogAction(&caller.ID, "ADMIN_TOGGLE_SPYPIXEL", strconv.FormatUint(uint64(target.ID), 10),
		map[string]interface{}{"spy_pixel": !target.SpyPixel}, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"user_id": target.ID, "spy_pixel": !target.SpyPixel})
}

func (h *Handler) AdminUpdateUsername(c *gin.Context) {
	caller := c.MustGet("admin_user").(*models.User)

	target, ok := h.adminTargetUser(c)
	if !ok {
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

	// Uniqueness excluding the target's own row
	var existing models.User
	err := h.db.Where("username = ? AND id <> ?", req.Username, target.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.db.Model(&target).Update("username", req.Username).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update username"})
		return
	}

	h.auditService.LogAction(&caller.ID, "ADMIN_SET_USERNAME", strconv.FormatUint(uint64(target.ID), 10),
		map[string]interface{}{"username": req.Username}, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"user_id": target.ID, "username": req.Username})
}

// Admin variants of profile-link CRUD: same entity rules, ownership
// check replaced by the admin gate.

func (h *Handler) AdminCreateProfileLink(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	h.createProfileLink(c, profile)
}

func (h *Handler) AdminEditProfileLink(c *gin.Context) {
	link, ok := h.anyProfileLink(c)
	if !ok {
		return
	}
	h.editProfileLink(c, link)
}

func (h *Handler) AdminDeleteProfileLink(c *gin.Context) {
	link, ok := h.anyProfileLink(c)
	if !ok {
		return
	}
	h.deleteProfileLink(c, link)
}

func (h *Handler) adminTargetUser(c *gin.Context) (models.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return models.User{}, false
	}

	var target models.User
	if err := h.db.First(&target, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return models.User{}, false
	}
	return target, true
}

func (h *Handler) anyProfileLink(c *gin.Context) (models.ProfileLink, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return models.ProfileLink{}, false
	}

	var link models.ProfileLink
	if err := h.db.First(&link, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile link not found"})
		return models.ProfileLink{}, false
	}
	return link, true
}
