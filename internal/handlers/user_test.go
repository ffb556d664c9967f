package handlers

import (
	"net/http"
	"testing"

	"linknest/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSetupUsername(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	user := createTestUser(db, "Alice", "alice@example.com", false)
	db.Model(&user).Update("require_setup", true)

	t.Run("Sets username and clears setup flag", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/setup/username", map[string]string{"username": "alice_w"}, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)

		var reloaded models.User
		db.First(&reloaded, user.ID)
		assert.Equal(t, "alice_w", *reloaded.Username)
		assert.False(t, reloaded.RequireSetup)
	})

	t.Run("Reserved username rejected", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/setup/username", map[string]string{"username": "admin"}, user.APIKey)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Taken username rejected", func(t *testing.T) {
		other := createTestUser(db, "Bob", "bob@example.com", false)
		w := doJSON(r, "PATCH", "/api/v1/me/username", map[string]string{"username": "alice_w"}, other.APIKey)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Re-saving own username is fine", func(t *testing.T) {
		w := doJSON(r, "PATCH", "/api/v1/me/username", map[string]string{"username": "alice_w"}, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetMe(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	user := createTestUser(db, "Alice", "alice@example.com", false)

	w := doJSON(r, "GET", "/api/v1/me", nil, user.APIKey)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotContains(t, w.Body.String(), "password")
}
