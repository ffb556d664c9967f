package handlers

import (
	"errors"
	"net/http"
	"strings"

	"linknest/internal/models"
	"linknest/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		user := session.Get("user_id")
		if user == nil {
			// Check for API Key if session is missing
			apiKey := c.GetHeader("X-API-Key")
			if apiKey != "" {
				var u models.User
				if err := h.db.Where("api_key = ?", apiKey).First(&u).Error; err == nil {
					c.Set("user_id", u.ID)
					c.Next()
					return
				}
			}

			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			} else {
				c.Redirect(http.StatusFound, "/login")
			}
			c.Abort()
			return
		}
		c.Set("user_id", user.(uint))
		c.Next()
	}
}

// AdminRequired loads the caller and rejects non-admins. Must run
// after AuthRequired.
func (h *Handler) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := h.currentUser(c)
		if err != nil || !caller.IsAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin access required"})
			return
		}
		c.Set("admin_user", caller)
		c.Next()
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		l := limiter.GetLimiter(ip)
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// currentUserID returns the authenticated caller's id set by
// AuthRequired.
func (h *Handler) currentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return val.(uint), true
}

func (h *Handler) currentUser(c *gin.Context) (*models.User, error) {
	id, ok := h.currentUserID(c)
	if !ok {
		return nil, errors.New("no authenticated user")
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
