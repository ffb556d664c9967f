package handlers

import (
	"net/http"

	"linknest/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter, templatePath string, staticPath string) *gin.Engine {
	r := gin.Default()

	if templatePath != "" {
		r.LoadHTMLGlob(templatePath)
	}
	if staticPath != "" {
		r.Static("/static", staticPath)
	}

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("linknest_session", store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.GET("/", h.ShowIndex)

	// Auth
	r.POST("/api/v1/auth/register", h.RegisterUser)
	r.POST("/api/v1/auth/login", h.LoginUser)
	r.POST("/api/v1/auth/logout", h.LogoutUser)

	// Authenticated API
	api := r.Group("/api/v1")
	api.Use(h.AuthRequired())
	{
		api.POST("/auth/apikey", h.GenerateNewAPIKey)

		api.GET("/me", h.GetMe)
		api.PATCH("/me/username", h.SetUsername)
		api.POST("/setup/username", h.SetupUsername)

		api.GET("/links", h.GetMyLinks)
		api.POST("/links", h.CreateLink)
		api.PATCH("/links/:id", h.EditLink)
		api.DELETE("/links/:id", h.DeleteLink)
		api.GET("/links/:id/clicks", h.GetLinkClicks)
		api.GET("/links/:id/stats", h.GetLinkStats)
		api.GET("/links/:id/qr", h.GetLinkQR)

		api.GET("/profiles", h.GetMyProfiles)
		api.POST("/profiles", h.CreateProfile)
		api.PATCH("/profiles/:id", h.EditProfile)
		api.DELETE("/profiles/:id", h.DeleteProfile)
		api.POST("/profiles/:id/links", h.CreateProfileLink)
		api.PUT("/profiles/:id/order", h.ChangeOrder)
		api.GET("/profiles/:id/analytics", h.GetProfileAnalytics)
		api.PATCH("/profile-links/:id", h.EditProfileLink)
		api.DELETE("/profile-links/:id", h.DeleteProfileLink)
		api.POST("/profile-links/:id/visibility", h.ToggleProfileLinkVisibility)

		api.GET("/bookmarks/tree", h.GetAllBookmarks)
		api.GET("/bookmarks/folders/:id", h.GetFolder)
		api.POST("/bookmarks/folders", h.CreateFolder)
		api.PATCH("/bookmarks/folders/:id", h.EditFolder)
		api.DELETE("/bookmarks/folders/:id", h.DeleteFolder)
		api.POST("/bookmarks", h.CreateBookmark)
		api.PATCH("/bookmarks/:id", h.EditBookmark)
		api.DELETE("/bookmarks/:id", h.DeleteBookmark)
		api.POST("/bookmarks/move", h.MoveItem)

		api.GET("/spypixels", h.GetSpyPixels)
		api.POST("/spypixels", h.CreateSpyPixel)
		api.GET("/spypixels/:id", h.GetSpyPixel)
		api.GET("/spypixels/:id/clicks", h.GetSpyPixelClicks)
		api.DELETE("/spypixels/:id", h.DeleteSpyPixel)

		admin := api.Group("/admin")
		admin.Use(h.AdminRequired())
		{
			admin.GET("/users", h.AdminGetUsers)
			admin.GET("/users/:id", h.AdminGetUser)
			admin.POST("/users/:id/toggle-admin", h.AdminToggleAdminStatus)
			admin.POST("/users/:id/toggle-spypixel", h.AdminToggleSpyPixelStatus)
			admin.PATCH("/users/:id/username", h.AdminUpdateUsername)
			admin.POST("/profiles/:id/links", h.AdminCreateProfileLink)
			admin.PATCH("/profile-links/:id", h.AdminEditProfileLink)
			admin.DELETE("/profile-links/:id", h.AdminDeleteProfileLink)
		}
	}

	// Public JSON profile read
	r.GET("/api/v1/public/profiles/:slug", h.GetPublicProfile)

	// Public pages
	r.GET("/p/:slug", h.ShowPublicProfile)
	r.GET("/img/:slug", h.ServePixel)

	// Catch-all redirect
	r.GET("/:slug", h.RedirectToURL)

	return r
}
