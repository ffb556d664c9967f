package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQRServicePNG(t *testing.T) {
	s := NewQRService()

	data, err := s.PNG("https://lnk.example/abc123", 256, "", "")
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestQRServiceSVG(t *testing.T) {
	s := NewQRService()

	svg, err := s.SVG("https://lnk.example/abc123", "#112233", "#ffffff")
	assert.NoError(t, err)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, "#112233")
}
