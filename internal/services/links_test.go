package services

import (
	"io"
	"log/slog"
	"testing"

	"linknest/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupLinkService(t *testing.T) (*LinkService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Link{}, &models.AuditLog{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLinkService(db, NewAuditService(db, logger)), db
}

func TestCreateLinkCustomSlug(t *testing.T) {
	s, _ := setupLinkService(t)

	link, err := s.CreateLink(CreateLinkDTO{
		UserID: 1,
		Name:   "My Site",
		Slug:   "mysite",
		URL:    "https://example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, "mysite", link.Slug)

	t.Run("Taken slug stays taken", func(t *testing.T) {
		_, err := s.CreateLink(CreateLinkDTO{UserID: 2, Name: "x", Slug: "mysite", URL: "https://example.org"})
		assert.ErrorIs(t, err, ErrSlugTaken)

		// Rejected consistently on retry
		_, err = s.CreateLink(CreateLinkDTO{UserID: 2, Name: "x", Slug: "mysite", URL: "https://example.org"})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("Freed after delete", func(t *testing.T) {
		s2, db2 := setupLinkService(t)
		first, err := s2.CreateLink(CreateLinkDTO{UserID: 1, Name: "a", Slug: "reuse_me", URL: "https://example.com"})
		assert.NoError(t, err)

		_, err = s2.CreateLink(CreateLinkDTO{UserID: 2, Name: "b", Slug: "reuse_me", URL: "https://example.com"})
		assert.ErrorIs(t, err, ErrSlugTaken)

		assert.NoError(t, db2.Delete(&models.Link{}, first.ID).Error)

		again, err := s2.CreateLink(CreateLinkDTO{UserID: 2, Name: "b", Slug: "reuse_me", URL: "https://example.com"})
		assert.NoError(t, err)
		assert.Equal(t, "reuse_me", again.Slug)
	})
}

func TestCreateLinkGeneratedSlug(t *testing.T) {
	s, _ := setupLinkService(t)

	link, err := s.CreateLink(CreateLinkDTO{UserID: 1, Name: "auto", URL: "https://example.com"})
	assert.NoError(t, err)
	assert.Len(t, link.Slug, 6)
	assert.NoError(t, ValidateSlug(link.Slug))
}

func TestCreateLinkValidation(t *testing.T) {
	s, _ := setupLinkService(t)

	_, err := s.CreateLink(CreateLinkDTO{UserID: 1, Name: "bad", Slug: "x", URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrSlugInvalid)

	_, err = s.CreateLink(CreateLinkDTO{UserID: 1, Name: "bad", Slug: "admin", URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrSlugReserved)

	_, err = s.CreateLink(CreateLinkDTO{UserID: 1, Name: "bad", Slug: "fine_slug", URL: "nope"})
	assert.ErrorIs(t, err, ErrURLInvalid)

	_, err = s.CreateLink(CreateLinkDTO{UserID: 1, Name: "bad", Slug: "fine_slug", URL: "https://iplogger.org/x"})
	assert.ErrorIs(t, err, ErrURLBlocked)
}
