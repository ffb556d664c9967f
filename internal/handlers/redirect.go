package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"linknest/internal/models"
	"linknest/internal/services"

	"github.com/gin-gonic/gin"
)

// RedirectToURL resolves a public slug to its destination. The click
// insert is queued, never awaited; a tracker failure cannot turn a
// working redirect into an error.
func (h *Handler) RedirectToURL(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	var link models.Link

	// 1. Redis cache lookup (full object)
	cacheHit := false
	if h.rdb != nil {
		val, err := h.rdb.Get(ctx, "link:"+slug).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(val), &link); err == nil {
				cacheHit = true
			}
		}
	}

	// 2. DB lookup on cache miss
	if !cacheHit {
		if err := h.db.Where("slug = ?", slug).First(&link).Error; err != nil {
			c.HTML(http.StatusNotFound, "404.html", gin.H{"error": "Link not found"})
			return
		}
		if h.rdb != nil {
			data, _ := json.Marshal(link)
			h.rdb.Set(ctx, "link:"+slug, data, 10*time.Minute)
		}
	}

	// 3. Fire-and-forget click
	h.tracker.Record(models.Click{
		TargetType: models.ClickTargetLink,
		TargetID:   link.ID,
		IPAddress:  c.ClientIP(),
		Referrer:   c.Request.Referer(),
		UserAgent:  c.Request.UserAgent(),
	})

	// 4. Redirect
	c.Redirect(http.StatusFound, link.URL)
}

// ShowPublicProfile renders a profile page at /p/:slug and records a
// view. Hidden links are filtered here and only here.
func (h *Handler) ShowPublicProfile(c *gin.Context) {
	slug := c.Param("slug")

	var profile models.Profile
	if err := h.db.Preload("Links").Where("slug = ?", slug).First(&profile).Error; err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{"error": "Profile not found"})
		return
	}

	ordered := services.OrderedProfileLinks(profile.LinkOrder, profile.Links)
	visible := make([]models.ProfileLink, 0, len(ordered))
	for _, l := range ordered {
		if l.Visible {
			visible = append(visible, l)
		}
	}

	h.tracker.Record(models.Click{
		TargetType: models.ClickTargetProfile,
		TargetID:   profile.ID,
		IPAddress:  c.ClientIP(),
		Referrer:   c.Request.Referer(),
		UserAgent:  c.Request.UserAgent(),
	})

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Name":  profile.Name,
		"Bio":   profile.Bio,
		"Links": visible,
	})
}

// GetPublicProfile is the JSON variant of the public profile read,
// used by the RPC surface.
func (h *Handler) GetPublicProfile(c *gin.Context) {
	slug := c.Param("slug")

	var profile models.Profile
	if err := h.db.Preload("Links").Where("slug = ?", slug).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	ordered := services.OrderedProfileLinks(profile.LinkOrder, profile.Links)
	visible := make([]models.ProfileLink, 0, len(ordered))
	for _, l := range ordered {
		if l.Visible {
			visible = append(visible, l)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"name":  profile.Name,
		"slug":  profile.Slug,
		"bio":   profile.Bio,
		"links": visible,
	})
}
