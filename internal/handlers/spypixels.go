package handlers

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"net/http"
	"strconv"

	"linknest/internal/models"
	"linknest/internal/services"
	"linknest/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// The tracking image: a 1x1 transparent PNG encoded once at startup.
// Every /img/ response returns these exact bytes whether or not the
// slug resolves, so a missing pixel is indistinguishable from a live
// one.
var pixelPNG = func() []byte {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

type CreateSpyPixelRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// spyPixelGate rejects callers without the spy_pixel flag.
func (h *Handler) spyPixelGate(c *gin.Context) (*models.User, bool) {
	user, err := h.currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	if !user.SpyPixel {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Spy pixels are not enabled for this account"})
		return nil, false
	}
	return user, true
}

func (h *Handler) GetSpyPixels(c *gin.Context) {
	user, ok := h.spyPixelGate(c)
	if !ok {
		return
	}

	var pixels []models.SpyPixel
	if err := h.db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&pixels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pixels": pixels})
}

func (h *Handler) GetSpyPixel(c *gin.Context) {
	user, ok := h.spyPixelGate(c)
	if !ok {
		return
	}

	pixel, ok := h.ownedSpyPixel(c, user.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"pixel": pixel})
}

func (h *Handler) GetSpyPixelClicks(c *gin.Context) {
	user, ok := h.spyPixelGate(c)
	if !ok {
		return
	}

	pixel, ok := h.ownedSpyPixel(c, user.ID)
	if !ok {
		return
	}

	var clicks []models.Click
	h.db.Where("target_type = ? AND target_id = ?", models.ClickTargetPixel, pixel.ID).
		Order("timestamp desc").Limit(100).Find(&clicks)

	c.JSON(http.StatusOK, gin.H{"pixel": pixel, "clicks": clicks})
}

func (h *Handler) CreateSpyPixel(c *gin.Context) {
	user, ok := h.spyPixelGate(c)
	if !ok {
		return
	}

	var req CreateSpyPixelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slug := req.Slug
	if slug != "" {
		if err := services.ValidateSlug(slug); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var existing models.SpyPixel
		err := h.db.Where("slug = ?", slug).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": services.ErrSlugTaken.Error()})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	} else {
		for {
			candidate := utils.GenerateSlug(8)
			var existing models.SpyPixel
			if errors.Is(h.db.Where("slug = ?", candidate).First(&existing).Error, gorm.ErrRecordNotFound) {
				slug = candidate
				break
			}
		}
	}

	pixel := models.SpyPixel{UserID: user.ID, Name: req.Name, Slug: slug}
	if err := h.db.Create(&pixel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create spy pixel"})
		return
	}

	h.auditService.LogAction(&user.ID, "CREATE_SPYPIXEL", pixel.Slug, nil, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"pixel":     pixel,
		"image_url": c.Request.Host + "/img/" + pixel.Slug,
	})
}

func (h *Handler) DeleteSpyPixel(c *gin.Context) {
	user, ok := h.spyPixelGate(c)
	if !ok {
		return
	}

	pixel, ok := h.ownedSpyPixel(c, user.ID)
	if !ok {
		return
	}

	if err := h.db.Delete(&pixel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete spy pixel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spy pixel deleted"})
}

// ServePixel is the public tracking endpoint. It always answers 200
// with the same PNG; only the logging side differs on resolve.
func (h *Handler) ServePixel(c *gin.Context) {
	slug := c.Param("slug")

	var pixel models.SpyPixel
	if err := h.db.Where("slug = ?", slug).First(&pixel).Error; err == nil {
		h.tracker.Record(models.Click{
			TargetType: models.ClickTargetPixel,
			TargetID:   pixel.ID,
			IPAddress:  c.ClientIP(),
			Referrer:   c.Request.Referer(),
			UserAgent:  c.Request.UserAgent(),
		})
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", pixelPNG)
}

func (h *Handler) ownedSpyPixel(c *gin.Context, userID uint) (models.SpyPixel, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pixel id"})
		return models.SpyPixel{}, false
	}

	var pixel models.SpyPixel
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&pixel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spy pixel not found"})
		return models.SpyPixel{}, false
	}
	return pixel, true
}
