package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"linknest/internal/models"

	"github.com/stretchr/testify/assert"
)

func createTestProfile(h *Handler, userID uint, name, slug string) models.Profile {
	profile := models.Profile{UserID: userID, Name: name, Slug: slug}
	h.db.Create(&profile)
	return profile
}

func TestProfileCRUD(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	user := createTestUser(db, "Alice", "alice@example.com", false)

	t.Run("Create", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/profiles", map[string]string{
			"name": "Alice",
			"slug": "alice",
			"bio":  "hi there",
		}, user.APIKey)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Duplicate slug conflicts", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/profiles", map[string]string{
			"name": "Alice2",
			"slug": "alice",
		}, user.APIKey)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Edit bio", func(t *testing.T) {
		w := doJSON(r, "PATCH", "/api/v1/profiles/1", map[string]string{"bio": "updated"}, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)

		var reloaded models.Profile
		db.First(&reloaded, 1)
		assert.Equal(t, "updated", reloaded.Bio)
	})

	t.Run("Delete removes links too", func(t *testing.T) {
		db.Create(&models.ProfileLink{ProfileID: 1, Title: "x", URL: "https://example.com"})

		w := doJSON(r, "DELETE", "/api/v1/profiles/1", nil, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)

		var count int64
		db.Model(&models.ProfileLink{}).Where("profile_id = ?", 1).Count(&count)
		assert.EqualValues(t, 0, count)
	})
}

func TestProfileLinkOrderLifecycle(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	user := createTestUser(db, "Alice", "alice@example.com", false)
	profile := createTestProfile(h, user.ID, "Alice", "alice")

	linkPath := fmt.Sprintf("/api/v1/profiles/%d/links", profile.ID)

	// Create links A and B; each create appends to the order
	w := doJSON(r, "POST", linkPath, map[string]string{"title": "A", "url": "https://example.com/a"}, user.APIKey)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, "POST", linkPath, map[string]string{"title": "B", "url": "https://example.com/b"}, user.APIKey)
	assert.Equal(t, http.StatusCreated, w.Code)

	var links []models.ProfileLink
	db.Where("profile_id = ?", profile.ID).Order("id").Find(&links)
	a, b := links[0], links[1]

	var reloaded models.Profile
	db.First(&reloaded, profile.ID)
	assert.Equal(t, fmt.Sprintf("[%d,%d]", a.ID, b.ID), reloaded.LinkOrder)

	t.Run("ChangeOrder round-trips", func(t *testing.T) {
		w := doJSON(r, "PUT", fmt.Sprintf("/api/v1/profiles/%d/order", profile.ID),
			map[string]interface{}{"order": []uint{b.ID, a.ID}}, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)

		db.First(&reloaded, profile.ID)
		assert.Equal(t, fmt.Sprintf("[%d,%d]", b.ID, a.ID), reloaded.LinkOrder)
	})

	t.Run("Public profile honors order and visibility", func(t *testing.T) {
		// Hide A; it must keep its slot in the stored order but
		// disappear from the public read
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/profile-links/%d/visibility", a.ID), nil, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(r, "GET", "/api/v1/public/profiles/alice", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		publicLinks := body["links"].([]interface{})
		assert.Len(t, publicLinks, 1)
		assert.Equal(t, "B", publicLinks[0].(map[string]interface{})["title"])

		db.First(&reloaded, profile.ID)
		assert.Equal(t, fmt.Sprintf("[%d,%d]", b.ID, a.ID), reloaded.LinkOrder)
	})

	t.Run("Toggling visibility twice restores state", func(t *testing.T) {
		var before models.ProfileLink
		db.First(&before, b.ID)

		doJSON(r, "POST", fmt.Sprintf("/api/v1/profile-links/%d/visibility", b.ID), nil, user.APIKey)
		doJSON(r, "POST", fmt.Sprintf("/api/v1/profile-links/%d/visibility", b.ID), nil, user.APIKey)

		var after models.ProfileLink
		db.First(&after, b.ID)
		assert.Equal(t, before.Visible, after.Visible)
	})

	t.Run("Delete prunes order without shifting the rest", func(t *testing.T) {
		// Add a third link so relative order is observable
		w := doJSON(r, "POST", linkPath, map[string]string{"title": "C", "url": "https://example.com/c"}, user.APIKey)
		assert.Equal(t, http.StatusCreated, w.Code)

		var c models.ProfileLink
		db.Where("profile_id = ? AND title = ?", profile.ID, "C").First(&c)

		// Order is now [b, a, c]; delete a
		w = doJSON(r, "DELETE", fmt.Sprintf("/api/v1/profile-links/%d", a.ID), nil, user.APIKey)
		assert.Equal(t, http.StatusOK, w.Code)

		db.First(&reloaded, profile.ID)
		assert.Equal(t, fmt.Sprintf("[%d,%d]", b.ID, c.ID), reloaded.LinkOrder)
	})
}

func TestPublicProfileScenario(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	user := createTestUser(db, "Alice", "alice@example.com", false)
	profile := createTestProfile(h, user.ID, "Alice", "alice")

	linkPath := fmt.Sprintf("/api/v1/profiles/%d/links", profile.ID)
	doJSON(r, "POST", linkPath, map[string]string{"title": "A", "url": "https://example.com/a"}, user.APIKey)
	doJSON(r, "POST", linkPath, map[string]string{"title": "B", "url": "https://example.com/b"}, user.APIKey)

	var links []models.ProfileLink
	db.Where("profile_id = ?", profile.ID).Order("id").Find(&links)

	doJSON(r, "PUT", fmt.Sprintf("/api/v1/profiles/%d/order", profile.ID),
		map[string]interface{}{"order": []uint{links[1].ID, links[0].ID}}, user.APIKey)

	w := doJSON(r, "GET", "/api/v1/public/profiles/alice", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	got := body["links"].([]interface{})
	assert.Len(t, got, 2)
	assert.Equal(t, "B", got[0].(map[string]interface{})["title"])
	assert.Equal(t, "A", got[1].(map[string]interface{})["title"])
}

func TestPublicProfilePageRecordsView(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	user := createTestUser(db, "Alice", "alice@example.com", false)
	createTestProfile(h, user.ID, "Alice", "alice")

	w := doJSON(r, "GET", "/p/alice", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice")

	w = doJSON(r, "GET", "/p/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileOwnership(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)
	alice := createTestUser(db, "Alice", "alice@example.com", false)
	bob := createTestUser(db, "Bob", "bob@example.com", false)
	profile := createTestProfile(h, alice.ID, "Alice", "alice")

	link := models.ProfileLink{ProfileID: profile.ID, Title: "x", URL: "https://example.com", Visible: true}
	db.Create(&link)

	w := doJSON(r, "PATCH", fmt.Sprintf("/api/v1/profiles/%d", profile.ID), map[string]string{"bio": "stolen"}, bob.APIKey)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "DELETE", fmt.Sprintf("/api/v1/profile-links/%d", link.ID), nil, bob.APIKey)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "PUT", fmt.Sprintf("/api/v1/profiles/%d/order", profile.ID),
		map[string]interface{}{"order": []uint{}}, bob.APIKey)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
