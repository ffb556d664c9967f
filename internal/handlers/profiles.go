package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"linknest/internal/models"
	"linknest/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateProfileRequest struct {
	Name    string  `json:"name" binding:"required"`
	AltName *string `json:"alt_name"`
	Slug    string  `json:"slug" binding:"required"`
	Bio     string  `json:"bio"`
}

type EditProfileRequest struct {
	Name    *string `json:"name"`
	AltName *string `json:"alt_name"`
	Slug    *string `json:"slug"`
	Bio     *string `json:"bio"`
}

type ProfileLinkRequest struct {
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url" binding:"required"`
	Description string `json:"description"`
	BgColor     string `json:"bg_color"`
	FgColor     string `json:"fg_color"`
	IconURL     string `json:"icon_url"`
}

type EditProfileLinkRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
	BgColor     *string `json:"bg_color"`
	FgColor     *string `json:"fg_color"`
	IconURL     *string `json:"icon_url"`
}

type ChangeOrderRequest struct {
	Order []uint `json:"order" binding:"required"`
}

func (h *Handler) CreateProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.ValidateSlug(req.Slug); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Profile
	err := h.db.Where("slug = ?", req.Slug).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrSlugTaken.Error()})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	profile := models.Profile{
		UserID:  userID,
		Name:    req.Name,
		AltName: req.AltName,
		Slug:    req.Slug,
		Bio:     req.Bio,
	}
	if err := h.db.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	h.auditService.LogAction(&userID, "CREATE_PROFILE", profile.Slug, nil, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

func (h *Handler) GetMyProfiles(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var profiles []models.Profile
	if err := h.db.Preload("Links").Where("user_id = ?", userID).Order("created_at desc").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Owner view: links ordered, hidden ones included
	out := make([]gin.H, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, gin.H{
			"profile": p,
			"links":   services.OrderedProfileLinks(p.LinkOrder, p.Links),
		})
	}
	c.JSON(http.StatusOK, gin.H{"profiles": out})
}

func (h *Handler) EditProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, ok := h.ownedProfile(c, userID)
	if !ok {
		return
	}

	var req EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AltName != nil {
		updates["alt_name"] = *req.AltName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Slug != nil && *req.Slug != profile.Slug {
		if err := services.ValidateSlug(*req.Slug); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var existing models.Profile
		err := h.db.Where("slug = ? AND id <> ?", *req.Slug, profile.ID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": services.ErrSlugTaken.Error()})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		updates["slug"] = *req.Slug
	}

	if len(updates) > 0 {
		if err := h.db.Model(&profile).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, ok := h.ownedProfile(c, userID)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.ProfileLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&profile).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
		return
	}

	h.auditService.LogAction(&userID, "DELETE_PROFILE", profile.Slug, nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted"})
}

func (h *Handler) CreateProfileLink(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, ok := h.ownedProfile(c, userID)
	if !ok {
		return
	}
	h.createProfileLink(c, profile)
}

// createProfileLink appends the new link to the profile's order in the
// same transaction that creates it.
func (h *Handler) createProfileLink(c *gin.Context, profile models.Profile) {
	var req ProfileLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.ValidateDestination(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link := models.ProfileLink{
		ProfileID:   profile.ID,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		BgColor:     req.BgColor,
		FgColor:     req.FgColor,
		IconURL:     req.IconURL,
		Visible:     true,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		order := services.AppendToOrder(profile.LinkOrder, link.ID)
		return tx.Model(&models.Profile{}).Where("id = ?", profile.ID).Update("link_order", order).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile link"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"link": link})
}

func (h *Handler) EditProfileLink(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, ok := h.ownedProfileLink(c, userID)
	if !ok {
		return
	}
	h.editProfileLink(c, link)
}

func (h *Handler) editProfileLink(c *gin.Context, link models.ProfileLink) {
	var req EditProfileLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.URL != nil {
		if err := services.ValidateDestination(*req.URL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["url"] = *req.URL
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.BgColor != nil {
		updates["bg_color"] = *req.BgColor
	}
	if req.FgColor != nil {
		updates["fg_color"] = *req.FgColor
	}
	if req.IconURL != nil {
		updates["icon_url"] = *req.IconURL
	}

	if len(updates) > 0 {
		if err := h.db.Model(&link).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile link"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

func (h *Handler) DeleteProfileLink(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, ok := h.ownedProfileLink(c, userID)
	if !ok {
		return
	}
	h.deleteProfileLink(c, link)
}

// deleteProfileLink prunes the id from the owning profile's order in
// the same transaction as the delete.
func (h *Handler) deleteProfileLink(c *gin.Context, link models.ProfileLink) {
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.First(&profile, link.ProfileID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&link).Error; err != nil {
			return err
		}
		order := services.RemoveFromOrder(profile.LinkOrder, link.ID)
		return tx.Model(&profile).Update("link_order", order).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile link deleted"})
}

// ToggleProfileLinkVisibility flips the visible flag. The order entry
// stays where it is; only the public render filters hidden links.
func (h *Handler) ToggleProfileLinkVisibility(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, ok := h.ownedProfileLink(c, userID)
	if !ok {
		return
	}

	if err := h.db.Model(&link).Update("visible", !link.Visible).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle visibility"})
		return
	}
	link.Visible = !link.Visible

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// ChangeOrder replaces the stored order wholesale. Last writer wins;
// two tabs racing is accepted behavior.
func (h *Handler) ChangeOrder(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, ok := h.ownedProfile(c, userID)
	if !ok {
		return
	}

	var req ChangeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := services.EncodeOrder(req.Order)
	if err := h.db.Model(&profile).Update("link_order", order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"link_order": order})
}

// GetProfileAnalytics returns daily view counts for the last N days.
func (h *Handler) GetProfileAnalytics(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, ok := h.ownedProfile(c, userID)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var total int64
	h.db.Model(&models.Click{}).
		Where("target_type = ? AND target_id = ? AND timestamp >= ?", models.ClickTargetProfile, profile.ID, since).
		Count(&total)

	var daily []struct {
		Day   string `json:"day"`
		Count int    `json:"count"`
	}
	h.db.Model(&models.Click{}).
		Where("target_type = ? AND target_id = ? AND timestamp >= ?", models.ClickTargetProfile, profile.ID, since).
		Select("date(timestamp) as day, count(*) as count").
		Group("date(timestamp)").Order("day").Scan(&daily)

	c.JSON(http.StatusOK, gin.H{
		"profile_id": profile.ID,
		"days":       days,
		"total":      total,
		"daily":      daily,
		"countries":  h.clickAggregate(models.ClickTargetProfile, profile.ID, "country"),
		"devices":    h.clickAggregate(models.ClickTargetProfile, profile.ID, "device_type"),
	})
}

func (h *Handler) ownedProfile(c *gin.Context, userID uint) (models.Profile, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return models.Profile{}, false
	}

	var profile models.Profile
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return models.Profile{}, false
	}
	return profile, true
}

// ownedProfileLink resolves :id to a profile link whose parent profile
// belongs to the caller.
func (h *Handler) ownedProfileLink(c *gin.Context, userID uint) (models.ProfileLink, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return models.ProfileLink{}, false
	}

	var link models.ProfileLink
	err = h.db.
		Where("profile_links.id = ? AND profile_id IN (?)", id,
			h.db.Model(&models.Profile{}).Select("id").Where("user_id = ?", userID)).
		First(&link).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile link not found"})
		return models.ProfileLink{}, false
	}
	return link, true
}
