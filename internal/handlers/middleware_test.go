package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"linknest/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)

	// 1 req/s with a burst of 2: the third immediate request must 429
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := services.NewIPRateLimiter(1, 2, logger)

	r.GET("/limited", h.RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doJSON(r, "GET", "/limited", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "GET", "/limited", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "GET", "/limited", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAuthRedirectForPages(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)

	// Non-API paths redirect to the login page instead of a JSON 401
	r.GET("/app/secret", h.AuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doJSON(r, "GET", "/app/secret", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
