package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSlug(t *testing.T) {
	t.Run("Valid slugs", func(t *testing.T) {
		for _, slug := range []string{"abc", "my_link", "ABC123", "a1b2c3d4e5f6g7h8i9j0"} {
			assert.NoError(t, ValidateSlug(slug), slug)
		}
	})

	t.Run("Bad charset or length", func(t *testing.T) {
		for _, slug := range []string{"ab", "", "has space", "has-dash", "waaaaaaaaaaaaaaaaaaaytoolong", "émoji"} {
			assert.ErrorIs(t, ValidateSlug(slug), ErrSlugInvalid, slug)
		}
	})

	t.Run("Reserved words", func(t *testing.T) {
		for _, slug := range []string{"admin", "Dashboard", "API", "auth", "settings"} {
			assert.ErrorIs(t, ValidateSlug(slug), ErrSlugReserved, slug)
		}
	})

	t.Run("Profanity", func(t *testing.T) {
		assert.ErrorIs(t, ValidateSlug("fuckthis"), ErrSlugBlocked)
	})
}

func TestValidateDestination(t *testing.T) {
	assert.NoError(t, ValidateDestination("https://example.com/page"))
	assert.NoError(t, ValidateDestination("http://example.com"))

	assert.ErrorIs(t, ValidateDestination("not-a-url"), ErrURLInvalid)
	assert.ErrorIs(t, ValidateDestination("ftp://example.com"), ErrURLInvalid)
	assert.ErrorIs(t, ValidateDestination("javascript:alert(1)"), ErrURLInvalid)
	assert.ErrorIs(t, ValidateDestination("https://grabify.link/abc"), ErrURLBlocked)
}
