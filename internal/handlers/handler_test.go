package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"linknest/internal/config"
	"linknest/internal/models"
	"linknest/internal/services"
	"linknest/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupTestHandler() (*Handler, *gorm.DB) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(
		&models.User{},
		&models.Link{},
		&models.Click{},
		&models.Profile{},
		&models.ProfileLink{},
		&models.BookmarkFolder{},
		&models.Bookmark{},
		&models.SpyPixel{},
		&models.AuditLog{},
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		SessionSecret: "test-secret-12345678901234567890123456789012",
	}

	audit := services.NewAuditService(db, logger)
	geoIP := services.NewGeoIPService(cfg, logger)
	tracker := services.NewTrackerService(db, logger, geoIP)
	links := services.NewLinkService(db, audit)
	bookmarks := services.NewBookmarkService(db)
	qr := services.NewQRService()

	// Dummy redis client (not connected) with no retries
	rdb := redis.NewClient(&redis.Options{
		Addr:       "localhost:1",
		MaxRetries: -1,
	})

	h := NewHandler(cfg, logger, db, rdb, links, bookmarks, tracker, audit, qr)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil, "../../web/templates/*", "../../web/static")
}

func createTestUser(db *gorm.DB, name, email string, admin bool) models.User {
	hash, _ := utils.HashPassword("password123")
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		APIKey:       utils.GenerateAPIKey(),
		IsAdmin:      admin,
	}
	db.Create(&user)
	return user
}

// doJSON performs a request with an optional JSON body and API key.
func doJSON(r *gin.Engine, method, path string, body interface{}, apiKey string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
