package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"linknest/internal/models"
	"linknest/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateLinkRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
	Slug string `json:"slug"`
}

type EditLinkRequest struct {
	Name *string `json:"name"`
	URL  *string `json:"url"`
	Slug *string `json:"slug"`
}

// CreateLink handles the API request to create a short link
func (h *Handler) CreateLink(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.linkService.CreateLink(services.CreateLinkDTO{
		UserID:    userID,
		Name:      req.Name,
		Slug:      req.Slug,
		URL:       req.URL,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		c.JSON(linkErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"link":      link,
		"short_url": c.Request.Host + "/" + link.Slug,
	})
}

func (h *Handler) GetMyLinks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var links []models.Link
	if err := h.db.Where("user_id = ?", userID).Order("created_at desc").Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

func (h *Handler) EditLink(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, ok := h.ownedLink(c, userID)
	if !ok {
		return
	}

	var req EditLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.URL != nil {
		if err := services.ValidateDestination(*req.URL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["url"] = *req.URL
	}
	if req.Slug != nil && *req.Slug != link.Slug {
		if err := services.ValidateSlug(*req.Slug); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var existing models.Link
		err := h.db.Where("slug = ? AND id <> ?", *req.Slug, link.ID).First(&existing).Error
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
		if err := h.db.Model(&link).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
			return
		}
		h.invalidateSlugCache(c.Request.Context(), link.Slug)
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

func (h *Handler) DeleteLink(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, ok := h.ownedLink(c, userID)
	if !ok {
		return
	}

	if err := h.db.Delete(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete link"})
		return
	}
	h.invalidateSlugCache(c.Request.Context(), link.Slug)

	h.auditService.LogAction(&userID, "DELETE_LINK", link.Slug, nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted"})
}

// GetLinkClicks returns the most recent click rows for a link.
func (h *Handler) GetLinkClicks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, ok := h.ownedLink(c, userID)
	if !ok {
		return
	}

	var clicks []models.Click
	h.db.Where("target_type = ? AND target_id = ?", models.ClickTargetLink, link.ID).
		Order("timestamp desc").Limit(50).Find(&clicks)

	c.JSON(http.StatusOK, gin.H{"link": link, "clicks": clicks})
}

// GetLinkStats returns aggregate click stats for a link.
func (h *Handler) GetLinkStats(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, ok := h.ownedLink(c, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"link":      link,
		"countries": h.clickAggregate(models.ClickTargetLink, link.ID, "country"),
		"browsers":  h.clickAggregate(models.ClickTargetLink, link.ID, "browser"),
		"os":        h.clickAggregate(models.ClickTargetLink, link.ID, "os"),
		"devices":   h.clickAggregate(models.ClickTargetLink, link.ID, "device_type"),
		"referrers": h.clickAggregate(models.ClickTargetLink, link.ID, "referrer"),
	})
}

// GetLinkQR renders a QR code for the short URL.
func (h *Handler) GetLinkQR(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, ok := h.ownedLink(c, userID)
	if !ok {
		return
	}

	shortURL := "https://" + c.Request.Host + "/" + link.Slug

	if c.Query("format") == "svg" {
		svg, err := h.qrService.SVG(shortURL, c.Query("fg"), c.Query("bg"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
		return
	}

	data, err := h.qrService.PNG(shortURL, 256, c.Query("fg"), c.Query("bg"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

type aggregateRow struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func (h *Handler) clickAggregate(targetType string, targetID uint, column string) []aggregateRow {
	var rows []aggregateRow
	h.db.Model(&models.Click{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Select(column + " as value, count(*) as count").
		Group(column).Order("count desc").Scan(&rows)
	return rows
}

// ownedLink loads the :id link scoped to the caller, writing the 404
// itself on a miss.
func (h *Handler) ownedLink(c *gin.Context, userID uint) (models.Link, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return models.Link{}, false
	}

	var link models.Link
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&link).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return models.Link{}, false
	}
	return link, true
}

func linkErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrSlugInvalid),
		errors.Is(err, services.ErrSlugReserved),
		errors.Is(err, services.ErrSlugBlocked),
		errors.Is(err, services.ErrURLInvalid),
		errors.Is(err, services.ErrURLBlocked):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// invalidateSlugCache drops a cached slug lookup after edit/delete.
func (h *Handler) invalidateSlugCache(ctx context.Context, slug string) {
	if h.rdb == nil {
		return
	}
	if err := h.rdb.Del(ctx, "link:"+slug).Err(); err != nil {
		h.logger.Debug("Cache invalidation failed", "slug", slug, "error", err)
	}
}
