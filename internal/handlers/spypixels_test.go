package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"linknest/internal/models"

	"github.com/stretchr/testify/assert"
)

func createSpyUser(h *Handler, name, email string) models.User {
	user := createTestUser(h.db, name, email, false)
	h.db.Model(&user).Update("spy_pixel", true)
	user.SpyPixel = true
	return user
}

func TestSpyPixelGate(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	plain := createTestUser(db, "Alice", "alice@example.com", false)

	w := doJSON(r, "GET", "/api/v1/spypixels", nil, plain.APIKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "POST", "/api/v1/spypixels", map[string]string{"name": "nope"}, plain.APIKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSpyPixelCRUD(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)
	user := createSpyUser(h, "Alice", "alice@example.com")

	t.Run("Create with custom slug", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/spypixels", map[string]string{
			"name": "newsletter",
			"slug": "nl_2026",
		}, user.APIKey)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "/img/nl_2026")
	})

	t.Run("Create with generated slug", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/spypixels", map[string]string{"name": "auto"}, user.APIKey)
		assert.Equal(t, http.StatusCreated, w.Code)

		body := decodeBody(t, w)
		pixel := body["pixel"].(map[string]interface{})
		assert.Len(t, pixel["slug"], 8)
	})

	t.Run("Duplicate slug conflicts", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/spypixels", map[string]string{
			"name": "dup",
			"slug": "nl_2026",
		}, user.APIKey)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("List and delete", func(t *testing.T) {
		w := doJSON(r, "GET", "/api/v1/spypixels", nil, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)

		var pixel models.SpyPixel
		h.db.Where("slug = ?", "nl_2026").First(&pixel)

		w = doJSON(r, "DELETE", fmt.Sprintf("/api/v1/spypixels/%d", pixel.ID), nil, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSpyPixelOwnership(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)
	alice := createSpyUser(h, "Alice", "alice@example.com")
	bob := createSpyUser(h, "Bob", "bob@example.com")

	pixel := models.SpyPixel{UserID: alice.ID, Name: "mine", Slug: "alicepx"}
	h.db.Create(&pixel)

	w := doJSON(r, "GET", fmt.Sprintf("/api/v1/spypixels/%d", pixel.ID), nil, bob.APIKey)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "DELETE", fmt.Sprintf("/api/v1/spypixels/%d", pixel.ID), nil, bob.APIKey)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// The serving endpoint must be indistinguishable for known and unknown
// slugs: same status, same bytes.
func TestServePixel(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	user := createSpyUser(h, "Alice", "alice@example.com")

	pixel := models.SpyPixel{UserID: user.ID, Name: "real", Slug: "realpx"}
	db.Create(&pixel)

	t.Run("Known slug", func(t *testing.T) {
		w := doJSON(r, "GET", "/img/realpx", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, pixelPNG, w.Body.Bytes())
	})

	t.Run("Unknown slug looks identical", func(t *testing.T) {
		w := doJSON(r, "GET", "/img/ghost", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, pixelPNG, w.Body.Bytes())

		var count int64
		db.Model(&models.Click{}).Count(&count)
		assert.EqualValues(t, 0, count) // worker not running; nothing queued for a miss either
	})
}
