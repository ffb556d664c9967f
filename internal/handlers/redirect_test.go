package handlers

import (
	"net/http"
	"testing"

	"linknest/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRedirectToURL(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	user := createTestUser(db, "Alice", "alice@example.com", false)

	db.Create(&models.Link{
		UserID: user.ID,
		Name:   "site",
		Slug:   "mysite",
		URL:    "https://example.com/landing",
	})

	t.Run("Known slug redirects", func(t *testing.T) {
		w := doJSON(r, "GET", "/mysite", nil, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/landing", w.Header().Get("Location"))
	})

	t.Run("Unknown slug 404s", func(t *testing.T) {
		w := doJSON(r, "GET", "/no-such-slug", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Redirect survives redis being down", func(t *testing.T) {
		// The test handler's redis client points at a closed port; the
		// cache path must fail open to the database.
		w := doJSON(r, "GET", "/mysite", nil, "")
		assert.Equal(t, http.StatusFound, w.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)

	w := doJSON(r, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
