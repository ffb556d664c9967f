package utils

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const slugCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateSlug generates a random lowercase slug of fixed length
func GenerateSlug(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = slugCharset[seededRand.Intn(len(slugCharset))]
	}
	return string(b)
}

// GenerateAPIKey generates a UUID string to be used as an API key
func GenerateAPIKey() string {
	return uuid.NewString()
}
